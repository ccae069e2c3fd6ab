package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrPrintUnavailable means no print backend could produce the PDF.
	ErrPrintUnavailable = errors.New("print backend unavailable")
)

// Format is the artifact kind an export produces.
type Format string

const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts "html" or "pdf"; empty means html.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FormatHTML):
		return FormatHTML, nil
	case string(FormatPDF):
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
}

func (f Format) MimeType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

func (f Format) Extension() string { return "." + string(f) }

// Printer renders a full HTML document to PDF bytes.
type Printer interface {
	PrintToPDF(ctx context.Context, document string) ([]byte, error)
}

// Artifact is the exported output.
type Artifact struct {
	Format   Format
	MimeType string
	Body     []byte
}

// Controller produces export artifacts. Printer may be nil, in which case
// PDF exports fail with ErrPrintUnavailable.
type Controller struct {
	Printer Printer
	// Settle is waited before building the document.
	Settle time.Duration
}

func NewController(p Printer, settle time.Duration) *Controller {
	return &Controller{Printer: p, Settle: settle}
}

// Export builds the artifact for markup. The caller's document is never
// touched; only its rendered markup is read.
func (c *Controller) Export(ctx context.Context, markup, title string, format Format) (Artifact, error) {
	if strings.TrimSpace(markup) == "" {
		return Artifact{}, ErrMissingTarget
	}
	if err := wait(ctx, c.Settle); err != nil {
		return Artifact{}, err
	}
	switch format {
	case FormatHTML:
		doc, err := BuildPrintable(markup, title)
		if err != nil {
			return Artifact{}, err
		}
		return Artifact{Format: format, MimeType: format.MimeType(), Body: []byte(doc)}, nil
	case FormatPDF:
		if c.Printer == nil {
			return Artifact{}, ErrPrintUnavailable
		}
		doc, err := buildDocument(markup, title, false)
		if err != nil {
			return Artifact{}, err
		}
		pdf, err := c.Printer.PrintToPDF(ctx, doc)
		if err != nil {
			return Artifact{}, fmt.Errorf("%w: %v", ErrPrintUnavailable, err)
		}
		return Artifact{Format: format, MimeType: format.MimeType(), Body: pdf}, nil
	default:
		return Artifact{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
