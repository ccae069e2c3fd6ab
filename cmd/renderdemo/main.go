package main

// Render the sample resume through every template:
//   go run ./cmd/renderdemo -out ./out [-pdf] [-in resume.yaml]

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"resume-builder/internal/exports"
	"resume-builder/resume/export"
	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

func main() {
	outDir := flag.String("out", "./out", "output directory")
	inPath := flag.String("in", "", "optional YAML resume to render instead of the sample")
	withPDF := flag.Bool("pdf", false, "also print each template to PDF with headless Chrome")
	chromePath := flag.String("chrome", os.Getenv("CHROME_PATH"), "Chrome executable")
	flag.Parse()

	doc, err := loadDocument(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir failed: %v\n", err)
		os.Exit(1)
	}

	renderer := render.MustNew()
	var printer export.Printer
	if *withPDF {
		printer = export.NewChromePrinter(*chromePath)
	}
	ctrl := export.NewController(printer, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	formats := []export.Format{export.FormatHTML}
	if *withPDF {
		formats = append(formats, export.FormatPDF)
	}
	title := doc.Personal.FullName
	for _, tmpl := range render.Gallery() {
		markup, err := renderer.Render(tmpl.ID, doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "render %s failed: %v\n", tmpl.ID, err)
			os.Exit(1)
		}
		for _, format := range formats {
			artifact, err := ctrl.Export(ctx, markup, title, format)
			if err != nil {
				fmt.Fprintf(os.Stderr, "export %s/%s failed: %v\n", tmpl.ID, format, err)
				os.Exit(1)
			}
			path := filepath.Join(*outDir, exports.FileName(title, string(tmpl.ID), format))
			if err := os.WriteFile(path, artifact.Body, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("OK: wrote %s\n", path)
		}
	}
}

func loadDocument(path string) (model.Document, error) {
	if path == "" {
		return model.Sample(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Document{}, err
	}
	var doc model.Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return model.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
