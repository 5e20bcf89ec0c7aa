package goslides

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer is the interface for document writers.
type Writer interface {
	Save(path string) error
	WriteTo(w io.Writer) error
}

// WriterType represents the output format.
type WriterType string

const (
	WriterJSON WriterType = "JSON"
)

// NewWriter creates a writer for the given format.
func NewWriter(doc *Document, format WriterType) (Writer, error) {
	switch format {
	case WriterJSON:
		return &JSONWriter{document: doc}, nil
	default:
		return nil, fmt.Errorf("writer %q: %w", format, ErrUnsupportedFormat)
	}
}

// JSONWriter writes documents in the JSON document format.
type JSONWriter struct {
	document *Document
	// Indent, when non-empty, pretty-prints the output.
	Indent string
}

// Save writes the document to a file. It does not lock or replace the file
// atomically; use Store for that.
func (w *JSONWriter) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := w.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the document to a writer.
func (w *JSONWriter) WriteTo(writer io.Writer) error {
	data, err := EncodeDocument(w.document, w.Indent)
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

// EncodeDocument serialises doc. Nil slide and item lists are written as
// empty arrays.
func EncodeDocument(doc *Document, indent string) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	out := *doc
	out.Slides = make([]SlideRecord, len(doc.Slides))
	for i, s := range doc.Slides {
		if s.Items == nil {
			s.Items = []ItemRecord{}
		}
		out.Slides[i] = s
	}

	var (
		data []byte
		err  error
	)
	if indent != "" {
		data, err = json.MarshalIndent(out, "", indent)
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return append(data, '\n'), nil
}
