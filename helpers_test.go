package goslides

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"
)

// countingMeasurer returns a fixed size and counts calls.
type countingMeasurer struct {
	w, h  float64
	calls int
}

func (m *countingMeasurer) MeasureText(FontSpec, float64, string) (float64, float64) {
	m.calls++
	return m.w, m.h
}

// testOptions returns deck options with no measurer and a synchronous fit
// path, on a 1920x1080 surface.
func testOptions() *DeckOptions {
	return &DeckOptions{
		FitDelay:        DefaultFitDelay,
		ReferenceFamily: DefaultFontFamily,
		SurfaceWidth:    1920,
		SurfaceHeight:   1080,
	}
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

// textItemJSON renders one text item in document format.
func textItemJSON(x, y, w, h int, text string) string {
	return fmt.Sprintf(`{"x":%d,"y":%d,"w":%d,"h":%d,"type":"text","text-data":%q,`+
		`"font":"Sans","font-size":40,"font-style":"normal","font-weight":"regular",`+
		`"justification":1,"align":1,"color":"#FFFFFF",`+
		`"text-underline":false,"text-outline":false,"text-shadow":false}`, x, y, w, h, b64(text))
}

// slideJSON renders a slide with the given items.
func slideJSON(items ...string) string {
	return `{"transition":1,"transition_duration":500,"items":[` + strings.Join(items, ",") +
		`],"background-color":"#383E41","background-pattern":""}`
}

// docJSON renders a document with the given slides.
func docJSON(current, preview int, slides ...string) string {
	return fmt.Sprintf(`{"current-slide":%d,"preview-slide":%d,"title":"Sunday","slides":[%s]}`,
		current, preview, strings.Join(slides, ","))
}

func mustDecode(t *testing.T, data string) *Document {
	t.Helper()
	doc, err := DecodeDocument([]byte(data))
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	return doc
}

// threeSlideDeck loads slides A, B, C with one text item each.
func threeSlideDeck(t *testing.T) (*Deck, []*Slide) {
	t.Helper()
	doc := mustDecode(t, docJSON(0, 0,
		slideJSON(textItemJSON(100, 100, 600, 300, "A")),
		slideJSON(textItemJSON(100, 100, 600, 300, "B")),
		slideJSON(textItemJSON(100, 100, 600, 300, "C")),
	))
	d := NewDeck(testOptions())
	d.LoadData(*doc)
	return d, d.Slides()
}

// recordEvents subscribes to d and collects every event.
func recordEvents(d *Deck, kinds ...EventKind) *[]Event {
	var got []Event
	d.Subscribe(func(ev Event) { got = append(got, ev) }, kinds...)
	return &got
}

func slideText(s *Slide) string {
	return s.Serialise().ExtractText()
}
