package openapi

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeJSON writes the document as indented JSON.
func (d *Document) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// EncodeYAML writes the document as block-style YAML.
func (d *Document) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

// MarshalYAML implements yaml.Marshaler. The YAML form mirrors the JSON
// encoding exactly, including key names, key order and omitted fields.
func (d *Document) MarshalYAML() (any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}

	// JSON is valid YAML, and decoding into a node keeps the key order.
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("convert document to YAML: %w", err)
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) != 1 {
		return nil, fmt.Errorf("convert document to YAML: unexpected node kind %d", node.Kind)
	}

	root := node.Content[0]
	resetStyle(root)
	return root, nil
}

// resetStyle drops the flow and quoting styles inherited from JSON so the
// encoder picks block style and quotes only where needed.
func resetStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		resetStyle(child)
	}
}
