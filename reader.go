package goslides

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnsupportedFormat is returned by NewReader and NewWriter for formats
// they do not know.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Reader is the interface for document readers.
type Reader interface {
	Read(path string) (*Document, error)
	ReadFromReader(r io.Reader) (*Document, error)
}

// ReaderType represents the input format.
type ReaderType string

const (
	ReaderJSON ReaderType = "JSON"
)

// NewReader creates a reader for the given format.
func NewReader(format ReaderType) (Reader, error) {
	switch format {
	case ReaderJSON:
		return &JSONReader{}, nil
	default:
		return nil, fmt.Errorf("reader %q: %w", format, ErrUnsupportedFormat)
	}
}

// maxDocumentSize bounds how much a reader will buffer. Documents carry base64
// thumbnails per slide, so this is generous.
const maxDocumentSize = 256 << 20

// JSONReader reads the JSON document format. Decoding is lenient: only input
// that is not a JSON object at the top level is an error.
type JSONReader struct{}

// Read reads a document from a file path.
func (r *JSONReader) Read(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return r.ReadFromReader(f)
}

// ReadFromReader reads a document from an io.Reader.
func (r *JSONReader) ReadFromReader(reader io.Reader) (*Document, error) {
	data, err := io.ReadAll(io.LimitReader(reader, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds maximum allowed size (%d bytes)", maxDocumentSize)
	}
	return DecodeDocument(data)
}

// DecodeDocument parses a JSON document. Malformed slides and items are
// replaced or dropped and logged rather than failing the whole document.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &doc, nil
}
