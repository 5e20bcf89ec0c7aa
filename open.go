package goslides

import (
	"io"
	"strings"
)

// Open reads a JSON document from disk.
// This is a convenience wrapper around NewReader + Read.
func Open(path string) (*Document, error) {
	reader, err := NewReader(ReaderJSON)
	if err != nil {
		return nil, err
	}
	return reader.Read(path)
}

// ReadFrom reads a JSON document from r.
func ReadFrom(r io.Reader) (*Document, error) {
	reader, err := NewReader(ReaderJSON)
	if err != nil {
		return nil, err
	}
	return reader.ReadFromReader(r)
}

// OpenDeck reads a document from disk and loads it into a new deck.
func OpenDeck(path string, opts *DeckOptions) (*Deck, error) {
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	d := NewDeck(opts)
	d.LoadData(*doc)
	return d, nil
}

// Save writes the document to a JSON file.
// This is a convenience wrapper around NewWriter + Save.
func (doc *Document) Save(path string) error {
	writer, err := NewWriter(doc, WriterJSON)
	if err != nil {
		return err
	}
	return writer.Save(path)
}

// WriteTo writes the document to w in JSON format.
func (doc *Document) WriteTo(w io.Writer) error {
	writer, err := NewWriter(doc, WriterJSON)
	if err != nil {
		return err
	}
	return writer.WriteTo(w)
}

// ExtractText returns the text of every text item, one item per line, in
// slide and z-order. Useful for search/indexing.
func (doc *Document) ExtractText() string {
	var parts []string
	for _, s := range doc.Slides {
		parts = append(parts, s.ExtractText())
	}
	return joinNonEmpty(parts, "\n")
}

// ExtractText returns the text of the slide's text items joined by newlines.
func (s SlideRecord) ExtractText() string {
	var parts []string
	for _, item := range s.Items {
		if item.Type == ItemText {
			parts = append(parts, item.Text.Text)
		}
	}
	return joinNonEmpty(parts, "\n")
}

func joinNonEmpty(parts []string, sep string) string {
	var result []string
	for _, p := range parts {
		if p != "" {
			result = append(result, p)
		}
	}
	return strings.Join(result, sep)
}
