package model

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Sample returns the built-in demo document.
func Sample() Document {
	doc, err := DecodeYAML(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("model: embedded sample is invalid: %v", err))
	}
	return doc
}

// DecodeYAML parses a document from YAML and normalizes empty collections.
func DecodeYAML(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode resume yaml: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

// EncodeYAML writes doc in the same shape DecodeYAML reads.
func EncodeYAML(doc Document) ([]byte, error) {
	doc = doc.Clone()
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode resume yaml: %w", err)
	}
	return out, nil
}
