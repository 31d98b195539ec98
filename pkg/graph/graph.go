package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphpad/pkg/model"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *model.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteDocument(FromModel(g), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return Document{}, err
	}
	return d, nil
}

// WriteGraphFile writes a graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *model.Graph, path string) error {
	return WriteDocumentFile(FromModel(g), path)
}

// WriteDocumentFile writes a document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteDocument(d, f)
}

// WriteDocument writes a document as indented JSON to w.
func WriteDocument(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
// Returns validation errors for malformed records or duplicate node ids.
func ReadGraphFile(path string) (*model.Graph, error) {
	d, err := ReadDocumentFile(path)
	if err != nil {
		return nil, err
	}
	g, _, err := ToModel(d)
	return g, err
}

// ReadDocumentFile reads and validates a document file.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// ReadDocument decodes and validates a JSON document from r.
func ReadDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Document{}, err
	}
	return d, nil
}

// ReadGraph decodes a JSON graph from r.
func ReadGraph(r io.Reader) (*model.Graph, error) {
	d, err := ReadDocument(r)
	if err != nil {
		return nil, err
	}
	g, _, err := ToModel(d)
	return g, err
}
