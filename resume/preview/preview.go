// Package preview holds the live preview's display state.
package preview

import "fmt"

const (
	MinScale     = 50
	MaxScale     = 150
	DefaultScale = 100
	Step         = 10
)

// Controller is the preview scale (percent) and fullscreen flag.
type Controller struct {
	Scale      int  `json:"scale"`
	Fullscreen bool `json:"fullscreen"`
}

// Default returns 100% and windowed.
func Default() Controller {
	return Controller{Scale: DefaultScale}
}

// Change adds delta to the scale, clamped to [MinScale, MaxScale].
func (c Controller) Change(delta int) Controller {
	c.Scale = clamp(c.Scale + delta)
	return c
}

func (c Controller) ZoomIn() Controller  { return c.Change(Step) }
func (c Controller) ZoomOut() Controller { return c.Change(-Step) }

// Reset restores the default scale; fullscreen is left alone.
func (c Controller) Reset() Controller {
	c.Scale = DefaultScale
	return c
}

func (c Controller) ToggleFullscreen() Controller {
	c.Fullscreen = !c.Fullscreen
	return c
}

// Style is the inline CSS applied to the preview frame.
func (c Controller) Style() string {
	scale := clamp(c.Scale)
	return fmt.Sprintf("transform: scale(%d.%02d); transform-origin: top center;", scale/100, scale%100)
}

func clamp(scale int) int {
	return min(max(scale, MinScale), MaxScale)
}
