// Package export turns rendered resume markup into a standalone printable
// document and, optionally, a PDF.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"resume-builder/resume/render"
)

// ErrMissingTarget is returned when there is no rendered markup to export.
var ErrMissingTarget = errors.New("nothing to export")

const (
	defaultTitle = "Resume"
	// PrintDelay is how long the printable page waits before opening the
	// print dialog.
	PrintDelay = 250 * time.Millisecond
)

var printableTemplate = template.Must(template.New("printable").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<div class="resume-page">{{.Markup}}</div>
{{- if .AutoPrint}}
<script>window.addEventListener("load", function () { setTimeout(function () { window.print(); }, {{.DelayMS}}); });</script>
{{- end}}
</body>
</html>
`))

type printable struct {
	Title     string
	CSS       template.CSS
	Markup    template.HTML
	AutoPrint bool
	DelayMS   int64
}

// BuildPrintable wraps markup in a self-contained A4 document that opens the
// print dialog once loaded.
func BuildPrintable(markup, title string) (string, error) {
	return buildDocument(markup, title, true)
}

func buildDocument(markup, title string, autoPrint bool) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", ErrMissingTarget
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	var buf bytes.Buffer
	err := printableTemplate.Execute(&buf, printable{
		Title:     title,
		CSS:       template.CSS(render.Stylesheet()),
		Markup:    template.HTML(markup),
		AutoPrint: autoPrint,
		DelayMS:   PrintDelay.Milliseconds(),
	})
	if err != nil {
		return "", fmt.Errorf("build printable: %w", err)
	}
	return buf.String(), nil
}
