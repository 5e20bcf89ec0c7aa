package goslides

import (
	"image"

	"github.com/google/uuid"
)

// SlideID is an opaque, stable handle for a slide. Observers keep IDs and
// look slides up through the deck instead of holding *Slide values.
type SlideID string

func newSlideID() SlideID { return SlideID(uuid.NewString()) }

// slideHooks connect a slide to the deck that owns it. They are function
// values rather than a deck pointer so slides never reference their parent.
type slideHooks struct {
	visibilityChanged func(*Slide)
	ratioChanged      func(*Slide)
	itemClicked       func(*Slide, Item)
	requestPreview    func(*Slide)
}

// Slide is an ordered stack of canvas items with a background and a
// transition. A slide starts out holding its raw record and only builds
// items the first time it is shown (see LoadSlide).
type Slide struct {
	id SlideID

	// raw is non-nil until LoadSlide consumes it; items is empty until then.
	raw   *SlideRecord
	items []Item

	transition         Transition
	transitionDuration int
	backgroundColor    string
	backgroundPattern  string
	preview            string

	visible      bool
	presentation bool
	selected     Item
	grabbed      Item

	transform *Transform
	opts      *DeckOptions
	hooks     slideHooks
}

func newSlide(rec SlideRecord, opts *DeckOptions) *Slide {
	if opts == nil {
		opts = DefaultDeckOptions()
	}
	raw := rec
	s := &Slide{
		id:                newSlideID(),
		raw:               &raw,
		backgroundColor:   rec.BackgroundColor,
		backgroundPattern: rec.BackgroundPattern,
		preview:           rec.Preview,
		visible:           true,
		transform:         NewTransform(opts.SurfaceWidth, opts.SurfaceHeight),
		opts:              opts,
	}
	if s.backgroundColor == "" {
		s.backgroundColor = DefaultBackgroundColor
	}
	return s
}

// ID returns the slide's handle.
func (s *Slide) ID() SlideID { return s.id }

// Loaded reports whether LoadSlide has materialised the items.
func (s *Slide) Loaded() bool { return s.raw == nil }

// LoadSlide builds the runtime items from the raw record. It does nothing if
// the record was already consumed. Records of unknown type are skipped.
func (s *Slide) LoadSlide() {
	if s.raw == nil {
		return
	}
	rec := s.raw
	s.clearItems()
	for i, ir := range rec.Items {
		item, ok := newItem(ir)
		if !ok {
			Logger().Warn("skipping item of unknown type", "slide", s.id, "index", i, "type", ir.Tag)
			continue
		}
		s.adopt(item)
	}
	s.transition = rec.Transition
	s.transitionDuration = rec.TransitionDuration
	s.raw = nil
	Logger().Debug("slide loaded", "slide", s.id, "items", len(s.items))
	s.scheduleAllFits()
}

// Serialise returns the persisted form of the slide. A slide that was never
// loaded returns its original record untouched; otherwise every visible item
// is written in z-order.
func (s *Slide) Serialise() SlideRecord {
	if s.raw != nil {
		rec := *s.raw
		rec.Items = append([]ItemRecord{}, s.raw.Items...)
		if s.preview != "" {
			rec.Preview = s.preview
		}
		return rec
	}
	rec := SlideRecord{
		Transition:         s.transition,
		TransitionDuration: s.transitionDuration,
		Items:              []ItemRecord{},
		Preview:            s.preview,
		BackgroundColor:    s.backgroundColor,
		BackgroundPattern:  s.backgroundPattern,
	}
	for _, item := range s.items {
		if !item.Visible() {
			continue
		}
		rec.Items = append(rec.Items, item.Record())
	}
	return rec
}

// Delete hides the slide. Its content is kept until the deck is reset or
// ClearHidden is called.
func (s *Slide) Delete() { s.SetVisible(false) }

// Visible reports whether the slide takes part in navigation and
// serialisation.
func (s *Slide) Visible() bool { return s.visible }

// SetVisible shows or hides the slide and lets the deck repair its pointers.
func (s *Slide) SetVisible(v bool) {
	if s.visible == v {
		return
	}
	s.visible = v
	if !v {
		s.ClearSelection()
	}
	if s.hooks.visibilityChanged != nil {
		s.hooks.visibilityChanged(s)
	}
}

// PresentationMode reports whether pointer input on the slide is inert.
func (s *Slide) PresentationMode() bool { return s.presentation }

// SetPresentationMode turns pointer editing off (true) or on (false).
func (s *Slide) SetPresentationMode(on bool) {
	s.presentation = on
	if on {
		s.cancelDrag()
		s.ClearSelection()
	}
}

// Items returns the live items in z-order, including hidden ones. It is
// empty until the slide is loaded.
func (s *Slide) Items() []Item {
	return append([]Item(nil), s.items...)
}

// VisibleItems returns the items that are drawn, in z-order.
func (s *Slide) VisibleItems() []Item {
	var out []Item
	for _, item := range s.items {
		if item.Visible() {
			out = append(out, item)
		}
	}
	return out
}

// AddItem appends an item on top of the stack.
func (s *Slide) AddItem(item Item) {
	s.LoadSlide()
	s.adopt(item)
	s.scheduleFit(item)
	s.requestPreview()
}

// AddText creates a text item with default style on top of the stack.
func (s *Slide) AddText(x, y, w, h int, text string) *TextItem {
	t := NewTextItem(x, y, clampSize(w), clampSize(h), NewTextRecord(text))
	s.AddItem(t)
	return t
}

// DeleteItem hides an item on this slide.
func (s *Slide) DeleteItem(item Item) {
	if !s.owns(item) || !item.Visible() {
		return
	}
	if s.selected == item {
		s.selected = nil
	}
	if s.grabbed == item {
		s.grabbed = nil
	}
	item.Delete()
	s.requestPreview()
}

// Raise moves an item one step towards the front.
func (s *Slide) Raise(item Item) { s.restack(item, 1) }

// Lower moves an item one step towards the back.
func (s *Slide) Lower(item Item) { s.restack(item, -1) }

func (s *Slide) restack(item Item, step int) {
	i := s.indexOf(item)
	j := i + step
	if i < 0 || j < 0 || j >= len(s.items) {
		return
	}
	s.items[i], s.items[j] = s.items[j], s.items[i]
	s.requestPreview()
}

// Transition returns the slide's transition.
func (s *Slide) Transition() Transition {
	if s.raw != nil {
		return s.raw.Transition
	}
	return s.transition
}

// TransitionDuration returns the transition length in milliseconds.
func (s *Slide) TransitionDuration() int {
	if s.raw != nil {
		return s.raw.TransitionDuration
	}
	return s.transitionDuration
}

// SetTransition sets the transition and its duration in milliseconds.
func (s *Slide) SetTransition(t Transition, durationMS int) {
	s.LoadSlide()
	if !t.Valid() {
		t = TransitionNone
	}
	if durationMS < 0 {
		durationMS = 0
	}
	s.transition = t
	s.transitionDuration = durationMS
}

// BackgroundColor returns the background colour string.
func (s *Slide) BackgroundColor() string { return s.backgroundColor }

// SetBackgroundColor sets the background colour string.
func (s *Slide) SetBackgroundColor(c string) {
	s.LoadSlide()
	if c == "" {
		c = DefaultBackgroundColor
	}
	s.backgroundColor = c
	s.requestPreview()
}

// BackgroundPattern returns the background image path ("" for none).
func (s *Slide) BackgroundPattern() string { return s.backgroundPattern }

// SetBackgroundPattern sets the background image path.
func (s *Slide) SetBackgroundPattern(path string) {
	s.LoadSlide()
	s.backgroundPattern = path
	s.requestPreview()
}

// Background resolves the background pattern through the deck's resolver.
// It returns nil when there is no pattern or no resolver.
func (s *Slide) Background() image.Image {
	if s.backgroundPattern == "" || s.opts.Backgrounds == nil {
		return nil
	}
	return s.opts.Backgrounds.ResolveBackground(s.backgroundPattern)
}

// PreviewImage returns the base64 thumbnail, if one has been stored.
func (s *Slide) PreviewImage() string { return s.preview }

// SetPreviewImage stores a base64 thumbnail produced by the host.
func (s *Slide) SetPreviewImage(b64 string) { s.preview = b64 }

// Transform returns the slide's coordinate transform.
func (s *Slide) Transform() *Transform { return s.transform }

// Ratio returns the slide's current authoring-unit to pixel ratio.
func (s *Slide) Ratio() float64 { return s.transform.Ratio() }

// Resize sets the render surface size. When the ratio changes, text items
// are refitted and the deck is told so it can update sibling slides.
func (s *Slide) Resize(width, height float64) {
	if !s.transform.SetSurface(width, height) {
		return
	}
	s.scheduleAllFits()
	if s.hooks.ratioChanged != nil {
		s.hooks.ratioChanged(s)
	}
}

// ItemRect returns the on-screen rectangle of item.
func (s *Slide) ItemRect(item Item) Rect {
	return s.transform.ItemRect(item.Geometry())
}

// Selected returns the selected item, or nil.
func (s *Slide) Selected() Item { return s.selected }

// Select makes item the only selected item on the slide. A nil item clears
// the selection.
func (s *Slide) Select(item Item) {
	if item != nil && (!s.owns(item) || !item.Visible()) {
		return
	}
	for _, it := range s.items {
		it.base().selected = false
	}
	s.selected = item
	if item != nil {
		item.base().selected = true
	}
}

// ClearSelection deselects every item.
func (s *Slide) ClearSelection() { s.Select(nil) }

// ItemAt returns the front-most visible item under the pixel point.
func (s *Slide) ItemAt(px, py float64) Item {
	for i := len(s.items) - 1; i >= 0; i-- {
		item := s.items[i]
		if item.Visible() && s.ItemRect(item).Contains(px, py) {
			return item
		}
	}
	return nil
}

// Press handles a pointer press at pixel (px, py). A press on a handle of the
// selected item starts a resize, a press on an item selects it and starts a
// move, and a press on empty canvas clears the selection. In presentation
// mode presses are ignored.
func (s *Slide) Press(px, py float64) Item {
	if s.presentation {
		return nil
	}
	s.LoadSlide()
	if sel := s.selected; sel != nil {
		if h := HandleAt(s.ItemRect(sel), px, py); h != HandleNone {
			s.PressItem(sel, h, px, py)
			return sel
		}
	}
	item := s.ItemAt(px, py)
	if item == nil {
		s.ClearSelection()
		s.clicked(nil)
		return nil
	}
	s.PressItem(item, HandleMove, px, py)
	return item
}

// PressItem starts a drag of item with an explicit handle.
func (s *Slide) PressItem(item Item, h Handle, px, py float64) {
	if s.presentation || !h.Valid() || !s.owns(item) || !item.Visible() {
		return
	}
	s.cancelDrag()
	s.Select(item)
	item.base().press(h, px, py)
	s.grabbed = item
}

// Motion applies pointer motion to the item being dragged.
func (s *Slide) Motion(px, py float64) {
	if s.grabbed == nil {
		return
	}
	s.grabbed.base().drag(px, py, s.Ratio())
}

// Release ends a drag. A drag that changed nothing counts as a click on the
// item; otherwise the new geometry is committed and a preview redraw is
// requested.
func (s *Slide) Release(px, py float64) {
	item := s.grabbed
	if item == nil {
		return
	}
	s.Motion(px, py)
	s.grabbed = nil

	b := item.base()
	startW, startH := b.grab.start.W, b.grab.start.H
	if !b.release(s.Ratio()) {
		s.clicked(item)
		return
	}
	if b.geom.W != startW || b.geom.H != startH {
		s.scheduleFit(item)
	}
	s.requestPreview()
}

// CancelDrag abandons an in-progress drag and restores the item.
func (s *Slide) CancelDrag() { s.cancelDrag() }

func (s *Slide) cancelDrag() {
	if s.grabbed != nil {
		s.grabbed.base().cancelGrab()
		s.grabbed = nil
	}
}

// RefreshFits recomputes every text item's effective size immediately,
// discarding pending debounced fits.
func (s *Slide) RefreshFits() {
	for _, item := range s.items {
		if t, ok := item.(*TextItem); ok {
			t.stopFit()
			t.fit(s.opts.Measurer, s.opts.ReferenceFamily, s.Ratio())
		}
	}
}

func (s *Slide) scheduleAllFits() {
	for _, item := range s.items {
		s.scheduleFit(item)
	}
}

// scheduleFit debounces auto-fit for one text item: a new request replaces
// the pending one.
func (s *Slide) scheduleFit(item Item) {
	t, ok := item.(*TextItem)
	if !ok || s.opts.Measurer == nil {
		return
	}
	t.stopFit()
	if s.opts.Scheduler == nil {
		t.fit(s.opts.Measurer, s.opts.ReferenceFamily, s.Ratio())
		return
	}
	t.cancelFit = s.opts.Scheduler.AfterFunc(s.opts.FitDelay, func() {
		t.cancelFit = nil
		t.fit(s.opts.Measurer, s.opts.ReferenceFamily, s.Ratio())
	})
}

func (s *Slide) adopt(item Item) {
	b := item.base()
	b.selected = false
	b.changed = func() { s.scheduleFit(item) }
	s.items = append(s.items, item)
}

func (s *Slide) clearItems() {
	for _, item := range s.items {
		if t, ok := item.(*TextItem); ok {
			t.stopFit()
		}
		item.base().changed = nil
	}
	s.items = nil
	s.selected = nil
	s.grabbed = nil
}

// destroy releases the slide's items. The slide must not be used afterwards.
func (s *Slide) destroy() {
	s.clearItems()
	s.hooks = slideHooks{}
}

func (s *Slide) owns(item Item) bool { return s.indexOf(item) >= 0 }

func (s *Slide) indexOf(item Item) int {
	if item == nil {
		return -1
	}
	for i, it := range s.items {
		if it == item {
			return i
		}
	}
	return -1
}

func (s *Slide) clicked(item Item) {
	if s.hooks.itemClicked != nil {
		s.hooks.itemClicked(s, item)
	}
}

func (s *Slide) requestPreview() {
	if s.hooks.requestPreview != nil {
		s.hooks.requestPreview(s)
	}
}
