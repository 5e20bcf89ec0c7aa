package goslides

import (
	"image"
	"time"
)

// BackgroundResolver turns a background pattern path into a displayable
// image. It returns nil when the path cannot be resolved.
type BackgroundResolver interface {
	ResolveBackground(path string) image.Image
}

// ThumbnailRequester is asked to (re)draw a slide preview. Implementations
// must not block; the result comes back through Slide.SetPreviewImage.
type ThumbnailRequester interface {
	RequestThumbnail(id SlideID)
}

// DeckOptions configures a Deck and the slides it creates.
type DeckOptions struct {
	// Measurer lays out text for auto-fit. Nil disables auto-fit.
	Measurer TextMeasurer
	// Scheduler debounces auto-fit. Nil runs fits synchronously.
	Scheduler Scheduler
	// FitDelay is the auto-fit debounce delay. Default: 80ms.
	FitDelay time.Duration
	// ReferenceFamily is the family auto-fit measures with. Default: "Sans".
	ReferenceFamily string
	// Backgrounds resolves background pattern paths. May be nil.
	Backgrounds BackgroundResolver
	// Thumbnails is notified whenever a slide preview should be redrawn. May be nil.
	Thumbnails ThumbnailRequester
	// SurfaceWidth and SurfaceHeight are the initial render surface size in
	// pixels for new slides. Default: 1920x1080.
	SurfaceWidth  float64
	SurfaceHeight float64
}

// DefaultDeckOptions returns options with a system font measurer and no
// scheduler, so fits run synchronously. Hosts with an event loop install a
// LoopScheduler and drain it.
func DefaultDeckOptions() *DeckOptions {
	return &DeckOptions{
		Measurer:        NewFontCache(),
		FitDelay:        DefaultFitDelay,
		ReferenceFamily: DefaultFontFamily,
		SurfaceWidth:    1920,
		SurfaceHeight:   1080,
	}
}

func (o *DeckOptions) withDefaults() *DeckOptions {
	c := *o
	if c.FitDelay <= 0 {
		c.FitDelay = DefaultFitDelay
	}
	if c.ReferenceFamily == "" {
		c.ReferenceFamily = DefaultFontFamily
	}
	if c.SurfaceWidth <= 0 {
		c.SurfaceWidth = 1920
	}
	if c.SurfaceHeight <= 0 {
		c.SurfaceHeight = 1080
	}
	return &c
}

// Deck is the authoritative slide collection. It owns every slide, tracks the
// current, preview and checkpoint slides, and notifies subscribers of
// changes. A Deck is not safe for concurrent use; all calls must come from
// the goroutine that owns it.
type Deck struct {
	opts   *DeckOptions
	title  string
	slides []*Slide
	// end is the sentinel "end of presentation" slide. It is never part of
	// slides.
	end *Slide

	current    *Slide
	preview    *Slide
	checkpoint *Slide

	events      registry
	propagating bool
}

// NewDeck returns an empty deck. A nil opts uses DefaultDeckOptions.
func NewDeck(opts *DeckOptions) *Deck {
	if opts == nil {
		opts = DefaultDeckOptions()
	}
	d := &Deck{opts: opts.withDefaults()}
	d.end = d.newEndSlide()
	return d
}

func (d *Deck) newEndSlide() *Slide {
	s := newSlide(NewSlideRecord(), d.opts)
	s.visible = false
	s.presentation = true
	d.wire(s)
	return s
}

// Subscribe registers h for the given event kinds (all kinds if none are
// given) and returns a function that removes the subscription.
func (d *Deck) Subscribe(h Handler, kinds ...EventKind) (unsubscribe func()) {
	return d.events.subscribe(h, kinds)
}

// Options returns the deck's effective options.
func (d *Deck) Options() DeckOptions { return *d.opts }

// Title returns the document title.
func (d *Deck) Title() string { return d.title }

// SetTitle sets the document title.
func (d *Deck) SetTitle(t string) { d.title = t }

// Reset destroys every slide and clears all pointers.
func (d *Deck) Reset() {
	d.current = nil
	d.preview = nil
	d.checkpoint = nil
	for _, s := range d.slides {
		s.destroy()
	}
	d.slides = nil
	d.title = ""
	d.end.destroy()
	d.end = d.newEndSlide()
	d.events.emit(Event{Kind: EventReset})
}

// LoadData replaces the deck's content with doc. Slides are created eagerly
// but their items are only built when a slide is first shown. Indices that
// are out of range fall back to the first slide.
func (d *Deck) LoadData(doc Document) {
	d.Reset()
	d.title = doc.Title
	for _, rec := range doc.Slides {
		s := newSlide(rec, d.opts)
		d.wire(s)
		d.slides = append(d.slides, s)
	}
	Logger().Debug("document loaded", "title", doc.Title, "slides", len(d.slides))
	if len(d.slides) == 0 {
		return
	}
	d.SetCurrent(d.slideAtOrFirst(doc.CurrentSlide))
	d.preview = d.slideAtOrFirst(doc.PreviewSlide)
}

func (d *Deck) slideAtOrFirst(i int) *Slide {
	if i >= 0 && i < len(d.slides) {
		return d.slides[i]
	}
	return d.slides[0]
}

// NewSlide inserts a slide right after the current slide, or at the end when
// there is no current slide in the list. A nil rec creates an empty slide.
func (d *Deck) NewSlide(rec *SlideRecord) *Slide {
	r := NewSlideRecord()
	if rec != nil {
		r = *rec
	}
	s := newSlide(r, d.opts)
	d.wire(s)

	at := len(d.slides)
	if i := d.indexOf(d.current); i >= 0 {
		at = i + 1
	}
	d.slides = append(d.slides, nil)
	copy(d.slides[at+1:], d.slides[at:])
	d.slides[at] = s

	d.events.emit(Event{Kind: EventNewSlideCreated, Slide: s})
	return s
}

// wire installs the deck callbacks on a slide.
func (d *Deck) wire(s *Slide) {
	s.hooks = slideHooks{
		visibilityChanged: d.onVisibilityChanged,
		ratioChanged:      d.onRatioChanged,
		itemClicked: func(_ *Slide, item Item) {
			d.events.emit(Event{Kind: EventItemClicked, Slide: s, Item: item})
		},
		requestPreview: d.onRequestPreview,
	}
}

// Current returns the current slide, which may be the end slide, or nil.
func (d *Deck) Current() *Slide { return d.current }

// Preview returns the preview slide or nil.
func (d *Deck) Preview() *Slide { return d.preview }

// Checkpoint returns the checkpoint slide or nil.
func (d *Deck) Checkpoint() *Slide { return d.checkpoint }

// EndSlide returns the sentinel end-of-presentation slide.
func (d *Deck) EndSlide() *Slide { return d.end }

// IsEndSlide reports whether s is the sentinel end slide.
func (d *Deck) IsEndSlide(s *Slide) bool { return s != nil && s == d.end }

// Slides returns every slide in deck order, hidden ones included.
func (d *Deck) Slides() []*Slide {
	return append([]*Slide(nil), d.slides...)
}

// VisibleSlides returns the slides that take part in navigation.
func (d *Deck) VisibleSlides() []*Slide {
	var out []*Slide
	for _, s := range d.slides {
		if s.visible {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of slides, hidden ones included.
func (d *Deck) Len() int { return len(d.slides) }

// Slide looks up a slide (or the end slide) by ID.
func (d *Deck) Slide(id SlideID) (*Slide, bool) {
	if d.end.id == id {
		return d.end, true
	}
	for _, s := range d.slides {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// IndexOf returns the position of the slide with the given ID among the
// visible slides, or -1.
func (d *Deck) IndexOf(id SlideID) int {
	for i, s := range d.VisibleSlides() {
		if s.id == id {
			return i
		}
	}
	return -1
}

// SetCurrent makes s the current slide and loads it. Setting the end slide
// shows it in presentation mode. Slides that are hidden or belong to another
// deck are ignored.
func (d *Deck) SetCurrent(s *Slide) {
	if s == d.current {
		return
	}
	if s != nil && s != d.end && (!s.visible || d.indexOf(s) < 0) {
		return
	}
	if d.current != nil {
		d.current.cancelDrag()
		d.current.ClearSelection()
	}
	if s == d.end {
		s.visible = true
		s.presentation = true
	}
	if s != nil {
		s.LoadSlide()
	}
	d.current = s
	Logger().Debug("current slide changed", "slide", slideIDOf(s))
	d.events.emit(Event{Kind: EventCurrentSlideChanged, Slide: s})
}

// SetPreview sets the preview slide. Hidden or foreign slides are ignored.
func (d *Deck) SetPreview(s *Slide) {
	if s != nil && (!s.visible || d.indexOf(s) < 0) {
		return
	}
	d.preview = s
}

// ShowEndPresentationSlide makes the sentinel end slide current.
func (d *Deck) ShowEndPresentationSlide() { d.SetCurrent(d.end) }

// NextSlide moves to the next visible slide. It does nothing at the end of
// the deck; the end slide is never reached this way. From no slide or the
// end slide it starts at the beginning.
func (d *Deck) NextSlide() {
	start := d.indexOf(d.current)
	for i := start + 1; i < len(d.slides); i++ {
		if d.slides[i].visible {
			d.SetCurrent(d.slides[i])
			return
		}
	}
}

// PreviousSlide moves to the previous visible slide. From no slide or the
// end slide it starts at the last slide.
func (d *Deck) PreviousSlide() {
	start := d.indexOf(d.current)
	if start < 0 {
		start = len(d.slides)
	}
	for i := start - 1; i >= 0; i-- {
		if d.slides[i].visible {
			d.SetCurrent(d.slides[i])
			return
		}
	}
}

// MoveUp swaps s with the nearest visible slide before it.
func (d *Deck) MoveUp(s *Slide) {
	i := d.indexOf(s)
	if i < 0 {
		return
	}
	for j := i - 1; j >= 0; j-- {
		if d.slides[j].visible {
			d.swap(i, j)
			return
		}
	}
}

// MoveDown swaps s with the nearest visible slide after it.
func (d *Deck) MoveDown(s *Slide) {
	i := d.indexOf(s)
	if i < 0 {
		return
	}
	for j := i + 1; j < len(d.slides); j++ {
		if d.slides[j].visible {
			d.swap(i, j)
			return
		}
	}
}

func (d *Deck) swap(i, j int) {
	d.slides[i], d.slides[j] = d.slides[j], d.slides[i]
	d.events.emit(Event{Kind: EventSlidesSorted})
}

// SetCheckpoint remembers the current slide.
func (d *Deck) SetCheckpoint() { d.checkpoint = d.current }

// JumpToCheckpoint swaps the checkpoint and the current slide, so jumping
// twice returns to where it started. It does nothing without a checkpoint.
func (d *Deck) JumpToCheckpoint() {
	target := d.checkpoint
	if target == nil || target == d.current {
		return
	}
	prev := d.current
	d.SetCurrent(target)
	if d.current == target {
		d.checkpoint = prev
	}
}

// SetPresentationMode switches pointer editing off (true) or on (false) for
// every slide. The end slide always stays in presentation mode.
func (d *Deck) SetPresentationMode(on bool) {
	for _, s := range d.slides {
		s.SetPresentationMode(on)
	}
}

// SetSurface resizes the render surface of the current slide (or the first
// visible slide); the new ratio propagates to every visible slide. New
// slides start with this size.
func (d *Deck) SetSurface(width, height float64) {
	d.opts.SurfaceWidth, d.opts.SurfaceHeight = width, height
	target := d.current
	if target == nil {
		if vis := d.VisibleSlides(); len(vis) > 0 {
			target = vis[0]
		}
	}
	if target != nil {
		target.Resize(width, height)
	}
}

// ForceLoadAll loads every slide, including ones never shown.
func (d *Deck) ForceLoadAll() {
	for _, s := range d.slides {
		s.LoadSlide()
	}
}

// ClearHidden permanently removes hidden slides.
func (d *Deck) ClearHidden() {
	kept := d.slides[:0]
	for _, s := range d.slides {
		if s.visible {
			kept = append(kept, s)
			continue
		}
		s.destroy()
	}
	for i := len(kept); i < len(d.slides); i++ {
		d.slides[i] = nil
	}
	d.slides = kept
}

// Serialise snapshots the deck. Hidden slides are left out and the current
// and preview indices count visible slides only (0 when unset).
func (d *Deck) Serialise() Document {
	doc := Document{Title: d.title, Slides: []SlideRecord{}}
	for i, s := range d.VisibleSlides() {
		if s == d.current {
			doc.CurrentSlide = i
		}
		if s == d.preview {
			doc.PreviewSlide = i
		}
		doc.Slides = append(doc.Slides, s.Serialise())
	}
	return doc
}

// onVisibilityChanged repairs the deck pointers when a slide is hidden and
// brings a re-shown slide to the deck's surface size.
func (d *Deck) onVisibilityChanged(s *Slide) {
	if s.visible {
		s.Resize(d.opts.SurfaceWidth, d.opts.SurfaceHeight)
		return
	}
	if d.checkpoint == s {
		d.checkpoint = nil
	}
	if d.preview == s {
		d.preview = d.nearestVisible(s)
	}
	if d.current == s {
		next := d.nearestVisible(s)
		// Clear first so SetCurrent does not treat next == nil as a no-op.
		if next == nil {
			s.cancelDrag()
			d.current = nil
			d.events.emit(Event{Kind: EventCurrentSlideChanged})
			return
		}
		d.SetCurrent(next)
	}
}

// nearestVisible finds the closest visible slide to s, looking forward first.
func (d *Deck) nearestVisible(s *Slide) *Slide {
	i := d.indexOf(s)
	if i < 0 {
		return nil
	}
	for j := i + 1; j < len(d.slides); j++ {
		if d.slides[j].visible {
			return d.slides[j]
		}
	}
	for j := i - 1; j >= 0; j-- {
		if d.slides[j].visible {
			return d.slides[j]
		}
	}
	return nil
}

// onRatioChanged re-broadcasts a slide's new ratio and pushes its surface
// size to every other visible slide. propagating stops the pushed resizes
// from propagating again.
func (d *Deck) onRatioChanged(src *Slide) {
	d.events.emit(Event{Kind: EventRatioChanged, Slide: src, Ratio: src.Ratio()})
	if d.propagating {
		return
	}
	d.propagating = true
	defer func() { d.propagating = false }()

	w, h := src.transform.Surface()
	d.opts.SurfaceWidth, d.opts.SurfaceHeight = w, h
	for _, s := range d.slides {
		if s != src && s.visible {
			s.Resize(w, h)
		}
	}
	if d.end != src && d.end.visible {
		d.end.Resize(w, h)
	}
}

func (d *Deck) onRequestPreview(s *Slide) {
	d.events.emit(Event{Kind: EventRequestDrawPreview, Slide: s})
	if d.opts.Thumbnails != nil {
		d.opts.Thumbnails.RequestThumbnail(s.id)
	}
}

func (d *Deck) indexOf(s *Slide) int {
	if s == nil {
		return -1
	}
	for i, sl := range d.slides {
		if sl == s {
			return i
		}
	}
	return -1
}

func slideIDOf(s *Slide) SlideID {
	if s == nil {
		return ""
	}
	return s.id
}
