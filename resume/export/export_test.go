package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

type fakePrinter struct {
	got string
	out []byte
	err error
}

func (f *fakePrinter) PrintToPDF(_ context.Context, document string) ([]byte, error) {
	f.got = document
	return f.out, f.err
}

func TestBuildPrintable(t *testing.T) {
	doc, err := BuildPrintable(`<div data-section="summary">Hi</div>`, "<Jordan>")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>&lt;Jordan&gt;</title>",
		"@page{size:A4;margin:15mm}",
		`<div data-section="summary">Hi</div>`,
		"window.print()",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("printable document missing %q", want)
		}
	}
}

func TestBuildPrintableDefaultsTitle(t *testing.T) {
	doc, err := BuildPrintable("<p>x</p>", "  ")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(doc, "<title>Resume</title>") {
		t.Fatalf("expected default title")
	}
}

func TestBuildPrintableMissingTarget(t *testing.T) {
	if _, err := BuildPrintable(" \n", "x"); !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("expected ErrMissingTarget, got %v", err)
	}
}

func TestExportHTML(t *testing.T) {
	c := NewController(nil, 0)
	art, err := c.Export(context.Background(), "<p>x</p>", "x", FormatHTML)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if art.MimeType != "text/html; charset=utf-8" || !strings.Contains(string(art.Body), "<p>x</p>") {
		t.Fatalf("unexpected artifact: %+v", art)
	}
}

func TestExportPDFUsesPrinterWithoutAutoPrint(t *testing.T) {
	p := &fakePrinter{out: []byte("%PDF-1.7")}
	art, err := NewController(p, 0).Export(context.Background(), "<p>x</p>", "x", FormatPDF)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(art.Body) != "%PDF-1.7" || art.MimeType != "application/pdf" {
		t.Fatalf("unexpected artifact: %+v", art)
	}
	if strings.Contains(p.got, "window.print()") {
		t.Fatalf("pdf document should not auto-print")
	}
}

func TestExportPDFUnavailable(t *testing.T) {
	_, err := NewController(nil, 0).Export(context.Background(), "<p>x</p>", "x", FormatPDF)
	if !errors.Is(err, ErrPrintUnavailable) {
		t.Fatalf("expected ErrPrintUnavailable, got %v", err)
	}
	p := &fakePrinter{err: errors.New("chrome not found")}
	_, err = NewController(p, 0).Export(context.Background(), "<p>x</p>", "x", FormatPDF)
	if !errors.Is(err, ErrPrintUnavailable) {
		t.Fatalf("expected wrapped ErrPrintUnavailable, got %v", err)
	}
}

func TestExportSettleHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewController(nil, time.Hour).Export(ctx, "<p>x</p>", "x", FormatHTML)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExportLeavesDocumentUntouched(t *testing.T) {
	doc := model.Sample()
	before := doc.Clone()
	markup, err := render.MustNew().Render(render.Executive, doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := NewController(nil, 0).Export(context.Background(), markup, doc.Personal.FullName, FormatHTML); err != nil {
		t.Fatalf("export: %v", err)
	}
	again, _ := render.MustNew().Render(render.Executive, doc)
	if again != markup || doc.Personal != before.Personal || len(doc.Experience) != len(before.Experience) {
		t.Fatalf("export changed the document")
	}
}

func TestParseFormat(t *testing.T) {
	for raw, want := range map[string]Format{"": FormatHTML, "HTML": FormatHTML, " pdf ": FormatPDF} {
		got, err := ParseFormat(raw)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseFormat("docx"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
