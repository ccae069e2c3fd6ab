package render

import _ "embed"

// Page geometry shared by the preview and the printable export.
const (
	PageWidthMM   = 210
	PageHeightMM  = 297
	PageMarginMM  = 15
	PageSizeLabel = "A4"
)

//go:embed templates/print.css
var stylesheet string

// Stylesheet returns the CSS subset covering every class the templates use.
func Stylesheet() string {
	return stylesheet
}
