// Package mirror fans the live slide of a deck out to audience displays over
// websockets.
package mirror

import (
	goslides "github.com/VantageDataChat/GoSlides"
)

// Frame is one update sent to mirror clients.
type Frame struct {
	// Seq increases by one for every frame the hub publishes.
	Seq uint64 `json:"seq"`
	// Kind is the deck event that produced the frame.
	Kind    string           `json:"kind"`
	SlideID goslides.SlideID `json:"slideId,omitempty"`
	// Index is the slide's position among visible slides, -1 when blank.
	Index int     `json:"index"`
	Ratio float64 `json:"ratio"`
	// Blank is set when nothing is live: no current slide, or the end slide.
	Blank bool                  `json:"blank"`
	Slide *goslides.SlideRecord `json:"slide,omitempty"`
}

// NewFrame describes s as the live slide of d. A nil s or the end slide
// produces a blank frame.
func NewFrame(d *goslides.Deck, s *goslides.Slide, kind goslides.EventKind) Frame {
	f := Frame{Kind: kind.String(), Index: -1}
	if s == nil {
		f.Blank = true
		return f
	}
	f.SlideID = s.ID()
	f.Ratio = s.Ratio()
	if d.IsEndSlide(s) {
		f.Blank = true
		return f
	}
	f.Index = d.IndexOf(s.ID())
	rec := s.Serialise()
	// Thumbnails are for the operator's slide list, not the audience.
	rec.Preview = ""
	f.Slide = &rec
	return f
}
