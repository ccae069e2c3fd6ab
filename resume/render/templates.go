package render

import (
	"strconv"
	"strings"
)

// TemplateID identifies one visual variant.
type TemplateID string

const (
	Modern     TemplateID = "modern"
	Classic    TemplateID = "classic"
	Creative   TemplateID = "creative"
	Minimalist TemplateID = "minimalist"
	Executive  TemplateID = "executive"
)

// DefaultTemplate is used whenever an identifier is not recognized.
const DefaultTemplate = Modern

// Template describes a variant for the gallery.
type Template struct {
	ID          TemplateID `json:"id"`
	Number      int        `json:"number"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
}

var gallery = []Template{
	{ID: Modern, Number: 1, Name: "Modern", Description: "Professional & Eye-catching"},
	{ID: Classic, Number: 2, Name: "Classic", Description: "Traditional & Clean"},
	{ID: Creative, Number: 3, Name: "Creative", Description: "Colorful & Unique"},
	{ID: Minimalist, Number: 4, Name: "Minimalist", Description: "Simple & Elegant"},
	{ID: Executive, Number: 5, Name: "Executive", Description: "Bold & Authoritative"},
}

// Gallery lists the variants in display order.
func Gallery() []Template {
	out := make([]Template, len(gallery))
	copy(out, gallery)
	return out
}

// ParseTemplateID resolves a name or gallery number. Unknown values resolve
// to DefaultTemplate with ok=false.
func ParseTemplateID(raw string) (id TemplateID, ok bool) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(trimmed); err == nil {
		for _, t := range gallery {
			if t.Number == n {
				return t.ID, true
			}
		}
		return DefaultTemplate, false
	}
	for _, t := range gallery {
		if string(t.ID) == trimmed {
			return t.ID, true
		}
	}
	return DefaultTemplate, false
}

// Info returns the gallery entry for id, or the default's.
func Info(id TemplateID) Template {
	for _, t := range gallery {
		if t.ID == id {
			return t
		}
	}
	return gallery[0]
}
