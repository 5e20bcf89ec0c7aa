package goslides

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Document is the persisted root of a deck. The JSON field names are part of
// the wire format.
type Document struct {
	CurrentSlide int           `json:"current-slide"`
	PreviewSlide int           `json:"preview-slide"`
	Title        string        `json:"title"`
	Slides       []SlideRecord `json:"slides"`
}

// SlideRecord is the persisted form of one slide. Items are in z-order,
// front-most last.
type SlideRecord struct {
	Transition         Transition   `json:"transition"`
	TransitionDuration int          `json:"transition_duration"`
	Items              []ItemRecord `json:"items"`
	Preview            string       `json:"preview,omitempty"`
	BackgroundColor    string       `json:"background-color"`
	BackgroundPattern  string       `json:"background-pattern"`
}

// NewSlideRecord returns an empty record with default background.
func NewSlideRecord() SlideRecord {
	return SlideRecord{
		Items:           []ItemRecord{},
		BackgroundColor: DefaultBackgroundColor,
	}
}

// ItemType tags the concrete variant of an ItemRecord.
type ItemType int

const (
	ItemUnknown ItemType = iota
	ItemText
)

const itemTagText = "text"

func (t ItemType) String() string {
	switch t {
	case ItemText:
		return "Text"
	default:
		return "Unknown"
	}
}

// ItemRecord is the persisted form of one canvas item. For ItemUnknown only
// the geometry and the original tag are kept.
type ItemRecord struct {
	X, Y, W, H int
	Type       ItemType
	// Tag is the type tag as read from the document.
	Tag  string
	Text TextRecord
}

// TextRecord carries the style and content of a text item. Text holds the
// decoded payload; it is base64 encoded on the wire.
type TextRecord struct {
	Text          string
	Font          string
	FontSize      int
	FontStyle     FontStyle
	FontWeight    FontWeight
	Justification Justification
	Align         VerticalAlign
	Color         string
	Underline     bool
	Outline       bool
	Shadow        bool
}

// NewTextRecord returns a text record with default style.
func NewTextRecord(text string) TextRecord {
	return TextRecord{
		Text:       text,
		Font:       DefaultFontFamily,
		FontSize:   DefaultFontSize,
		FontStyle:  FontStyleNormal,
		FontWeight: WeightRegular,
		Color:      DefaultTextColor,
	}
}

type itemGeometryWire struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	Type string `json:"type"`
}

type textItemWire struct {
	itemGeometryWire
	TextData      string `json:"text-data"`
	Font          string `json:"font"`
	FontSize      int    `json:"font-size"`
	FontStyle     string `json:"font-style"`
	FontWeight    string `json:"font-weight"`
	Justification int    `json:"justification"`
	Align         int    `json:"align"`
	Color         string `json:"color"`
	Underline     bool   `json:"text-underline"`
	Outline       bool   `json:"text-outline"`
	Shadow        bool   `json:"text-shadow"`
}

// MarshalJSON writes the record in the document item format.
func (r ItemRecord) MarshalJSON() ([]byte, error) {
	geom := itemGeometryWire{X: r.X, Y: r.Y, W: r.W, H: r.H, Type: r.Tag}
	if r.Type != ItemText {
		return json.Marshal(geom)
	}
	geom.Type = itemTagText
	t := r.Text
	return json.Marshal(textItemWire{
		itemGeometryWire: geom,
		TextData:         base64.StdEncoding.EncodeToString([]byte(t.Text)),
		Font:             t.Font,
		FontSize:         t.FontSize,
		FontStyle:        string(t.FontStyle),
		FontWeight:       t.FontWeight.String(),
		Justification:    int(t.Justification),
		Align:            int(t.Align),
		Color:            t.Color,
		Underline:        t.Underline,
		Outline:          t.Outline,
		Shadow:           t.Shadow,
	})
}

// UnmarshalJSON reads an item leniently: malformed fields take their
// defaults. Only a non-object value is an error.
func (r *ItemRecord) UnmarshalJSON(data []byte) error {
	f, err := newFieldSet(data)
	if err != nil {
		return err
	}
	*r = ItemRecord{
		X:   f.getInt("x", 0),
		Y:   f.getInt("y", 0),
		W:   f.getInt("w", 0),
		H:   f.getInt("h", 0),
		Tag: f.getString("type", ""),
	}
	if normaliseWord(r.Tag) != itemTagText {
		r.Type = ItemUnknown
		return nil
	}
	r.Type = ItemText
	r.Tag = itemTagText

	t := NewTextRecord("")
	if raw := f.getString("text-data", ""); raw != "" {
		if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
			t.Text = string(decoded)
		} else {
			f.warn("text-data", err)
		}
	}
	t.Font = f.getString("font", DefaultFontFamily)
	t.FontSize = f.getInt("font-size", DefaultFontSize)
	t.FontStyle = ParseFontStyle(f.getString("font-style", string(FontStyleNormal)))
	t.FontWeight = ParseFontWeight(f.getString("font-weight", "regular"))
	t.Justification = parseJustification(f.getInt("justification", 0))
	t.Align = parseVerticalAlign(f.getInt("align", 0))
	t.Color = f.getString("color", DefaultTextColor)
	t.Underline = f.getBool("text-underline", false)
	t.Outline = f.getBool("text-outline", false)
	t.Shadow = f.getBool("text-shadow", false)
	r.Text = t
	return nil
}

// UnmarshalJSON reads a slide leniently. Items that are not objects are
// dropped; other malformed fields take their defaults.
func (s *SlideRecord) UnmarshalJSON(data []byte) error {
	f, err := newFieldSet(data)
	if err != nil {
		return err
	}
	*s = NewSlideRecord()
	s.Transition = TransitionFromOrdinal(f.getInt("transition", 0))
	s.TransitionDuration = f.getInt("transition_duration", 0)
	s.Preview = f.getString("preview", "")
	s.BackgroundColor = f.getString("background-color", DefaultBackgroundColor)
	s.BackgroundPattern = f.getString("background-pattern", "")

	for i, raw := range f.getArray("items") {
		var item ItemRecord
		if err := json.Unmarshal(raw, &item); err != nil {
			Logger().Warn("dropping malformed item record", "index", i, "error", err)
			continue
		}
		s.Items = append(s.Items, item)
	}
	return nil
}

// UnmarshalJSON reads a document leniently. A slide that cannot be decoded
// becomes an empty slide with default background.
func (d *Document) UnmarshalJSON(data []byte) error {
	f, err := newFieldSet(data)
	if err != nil {
		return err
	}
	*d = Document{
		CurrentSlide: f.getInt("current-slide", 0),
		PreviewSlide: f.getInt("preview-slide", 0),
		Title:        f.getString("title", ""),
		Slides:       []SlideRecord{},
	}
	for i, raw := range f.getArray("slides") {
		var rec SlideRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			Logger().Warn("replacing malformed slide record with an empty slide", "index", i, "error", err)
			rec = NewSlideRecord()
		}
		d.Slides = append(d.Slides, rec)
	}
	return nil
}

// fieldSet decodes an object one field at a time so a single bad value does
// not fail the whole record.
type fieldSet map[string]json.RawMessage

func newFieldSet(data []byte) (fieldSet, error) {
	var f fieldSet
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("expected a JSON object: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("expected a JSON object, got null")
	}
	return f, nil
}

func (f fieldSet) warn(key string, err error) {
	Logger().Warn("malformed document field, using default", "field", key, "error", err)
}

func (f fieldSet) getInt(key string, def int) int {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return def
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > maxUnits {
			return def
		}
		return int(math.Round(n))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(s); err == nil {
			return v
		}
	}
	f.warn(key, fmt.Errorf("not a number: %s", raw))
	return def
}

func (f fieldSet) getString(key, def string) string {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return def
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		f.warn(key, err)
		return def
	}
	return s
}

func (f fieldSet) getBool(key string, def bool) bool {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	f.warn(key, fmt.Errorf("not a boolean: %s", raw))
	return def
}

func (f fieldSet) getArray(key string) []json.RawMessage {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		f.warn(key, err)
		return nil
	}
	return items
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}
