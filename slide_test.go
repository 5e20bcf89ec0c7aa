package goslides

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func loadedSlide(t *testing.T, items ...string) *Slide {
	t.Helper()
	doc := mustDecode(t, docJSON(0, 0, slideJSON(items...)))
	s := newSlide(doc.Slides[0], testOptions())
	s.LoadSlide()
	return s
}

type resolverFunc func(path string) image.Image

func (f resolverFunc) ResolveBackground(path string) image.Image { return f(path) }

// centre returns the pixel centre of item on s.
func centre(s *Slide, item Item) (float64, float64) {
	r := s.ItemRect(item)
	return r.X + r.W/2, r.Y + r.H/2
}

func TestLoadSlideIsLazyAndIdempotent(t *testing.T) {
	doc := mustDecode(t, docJSON(0, 0, slideJSON(
		textItemJSON(0, 0, 500, 200, "one"),
		`{"x":1,"y":2,"w":300,"h":300,"type":"image","src":"a.png"}`,
		textItemJSON(0, 300, 500, 200, "two"),
	)))
	s := newSlide(doc.Slides[0], testOptions())
	if s.Loaded() || len(s.Items()) != 0 {
		t.Fatal("slide materialised items before LoadSlide")
	}
	s.LoadSlide()
	if !s.Loaded() {
		t.Fatal("Loaded() = false after LoadSlide")
	}
	items := s.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (unknown type skipped)", len(items))
	}
	items[0].(*TextItem).SetText("changed")
	s.LoadSlide()
	if got := s.Items()[0].(*TextItem).Text(); got != "changed" {
		t.Fatalf("second LoadSlide rebuilt items: text = %q", got)
	}
	if s.Transition() != TransitionCrossfade || s.TransitionDuration() != 500 {
		t.Fatalf("transition = %v/%d", s.Transition(), s.TransitionDuration())
	}
}

func TestSerialiseUnloadedSlideIsVerbatim(t *testing.T) {
	doc := mustDecode(t, docJSON(0, 0, slideJSON(
		`{"x":1,"y":2,"w":3,"h":4,"type":"video"}`,
		textItemJSON(0, 0, 10, 10, "tiny"),
	)))
	s := newSlide(doc.Slides[0], testOptions())
	if diff := cmp.Diff(doc.Slides[0], s.Serialise()); diff != "" {
		t.Fatalf("unloaded serialise mismatch (-want +got):\n%s", diff)
	}
	if s.Loaded() {
		t.Fatal("Serialise loaded the slide")
	}
}

func TestSerialiseSkipsDeletedItems(t *testing.T) {
	s := loadedSlide(t,
		textItemJSON(0, 0, 500, 200, "keep"),
		textItemJSON(0, 300, 500, 200, "drop"),
	)
	s.DeleteItem(s.Items()[1])
	rec := s.Serialise()
	if len(rec.Items) != 1 || rec.Items[0].Text.Text != "keep" {
		t.Fatalf("items = %+v", rec.Items)
	}
	if len(s.Items()) != 2 {
		t.Fatal("soft delete removed the item from the slide")
	}
	if len(s.VisibleItems()) != 1 {
		t.Fatalf("visible items = %d", len(s.VisibleItems()))
	}
}

func TestSlideSetterLoadsFirst(t *testing.T) {
	doc := mustDecode(t, docJSON(0, 0, slideJSON(textItemJSON(0, 0, 500, 200, "kept"))))
	s := newSlide(doc.Slides[0], testOptions())
	s.SetBackgroundColor("#000000")
	rec := s.Serialise()
	if len(rec.Items) != 1 || rec.Items[0].Text.Text != "kept" {
		t.Fatalf("setter lost items: %+v", rec.Items)
	}
	if rec.BackgroundColor != "#000000" {
		t.Fatalf("background = %q", rec.BackgroundColor)
	}
	if rec.Transition != TransitionCrossfade {
		t.Fatalf("transition = %v", rec.Transition)
	}
}

func TestSetTransitionClampsInput(t *testing.T) {
	s := newSlide(NewSlideRecord(), testOptions())
	s.SetTransition(Transition(77), -5)
	if s.Transition() != TransitionNone || s.TransitionDuration() != 0 {
		t.Fatalf("transition = %v/%d", s.Transition(), s.TransitionDuration())
	}
	s.SetTransition(TransitionRotateLeftRight, 750)
	if rec := s.Serialise(); rec.Transition != TransitionRotateLeftRight || rec.TransitionDuration != 750 {
		t.Fatalf("record = %v/%d", rec.Transition, rec.TransitionDuration)
	}
}

func TestSingleSelection(t *testing.T) {
	s := loadedSlide(t,
		textItemJSON(0, 0, 500, 200, "a"),
		textItemJSON(0, 600, 500, 200, "b"),
	)
	a, b := s.Items()[0], s.Items()[1]
	s.Select(a)
	s.Select(b)
	if a.Selected() || !b.Selected() || s.Selected() != b {
		t.Fatalf("selection: a=%v b=%v", a.Selected(), b.Selected())
	}
	s.ClearSelection()
	if b.Selected() || s.Selected() != nil {
		t.Fatal("ClearSelection left a selection")
	}
}

func TestPressSelectsAndEmptyCanvasClears(t *testing.T) {
	s := loadedSlide(t, textItemJSON(100, 100, 500, 200, "a"))
	a := s.Items()[0]
	var clicks []Item
	s.hooks.itemClicked = func(_ *Slide, it Item) { clicks = append(clicks, it) }

	x, y := centre(s, a)
	if got := s.Press(x, y); got != a {
		t.Fatalf("Press returned %v", got)
	}
	if !a.Selected() || a.Holding() != HandleMove {
		t.Fatalf("selected=%v holding=%v", a.Selected(), a.Holding())
	}
	s.Release(x, y)
	if len(clicks) != 1 || clicks[0] != a {
		t.Fatalf("clicks = %v, want the item", clicks)
	}

	mx, my := s.Transform().Margins()
	if got := s.Press(mx+1, my+1); got != nil {
		t.Fatalf("press on empty canvas returned %v", got)
	}
	if a.Selected() {
		t.Fatal("empty canvas press kept the selection")
	}
	if len(clicks) != 2 || clicks[1] != nil {
		t.Fatalf("clicks = %v, want trailing nil", clicks)
	}
}

func TestPressHitsFrontMostItem(t *testing.T) {
	s := loadedSlide(t,
		textItemJSON(100, 100, 500, 500, "back"),
		textItemJSON(200, 200, 500, 500, "front"),
	)
	back, front := s.Items()[0], s.Items()[1]
	x, y := s.Transform().ToScreen(300, 300)
	if got := s.ItemAt(x, y); got != front {
		t.Fatal("ItemAt did not return the front item")
	}
	s.Raise(back)
	if got := s.ItemAt(x, y); got != back {
		t.Fatal("Raise did not bring the item to the front")
	}
	s.Lower(back)
	if s.Items()[0] != back {
		t.Fatal("Lower did not restore the order")
	}
}

func TestDragMovesItemOnSlide(t *testing.T) {
	s := loadedSlide(t, textItemJSON(100, 100, 500, 200, "a"))
	a := s.Items()[0]
	var previews int
	s.hooks.requestPreview = func(*Slide) { previews++ }

	r := s.Ratio()
	x, y := centre(s, a)
	s.Press(x, y)
	s.Motion(x+50*r, y+20*r)
	if g := a.Geometry(); g.X != 100 || !approx(g.DeltaX, 50*r) {
		t.Fatalf("during drag: %+v", g)
	}
	s.Release(x+100*r, y+40*r)
	g := a.Geometry()
	if g.X != 200 || g.Y != 140 || g.W != 500 || g.H != 200 {
		t.Fatalf("after release: %+v", g)
	}
	if previews != 1 {
		t.Fatalf("previews = %d, want 1", previews)
	}
}

func TestResizeViaHandleOnSlide(t *testing.T) {
	sched := NewManualScheduler()
	m := &countingMeasurer{w: 1, h: 1}
	opts := testOptions()
	opts.Measurer = m
	opts.Scheduler = sched
	doc := mustDecode(t, docJSON(0, 0, slideJSON(textItemJSON(100, 100, 500, 200, "a"))))
	s := newSlide(doc.Slides[0], opts)
	s.LoadSlide()
	sched.Advance(DefaultFitDelay)
	m.calls = 0

	a := s.Items()[0]
	s.Select(a)
	r := s.ItemRect(a)
	// Grab the east handle.
	s.Press(r.X+r.W, r.Y+r.H/2)
	if a.Holding() != HandleE {
		t.Fatalf("holding = %v, want e", a.Holding())
	}
	s.Release(r.X+r.W-1000*s.Ratio(), r.Y+r.H/2)
	if g := a.Geometry(); g.W != MinItemSize || g.X != 100 {
		t.Fatalf("geometry = %+v", g)
	}
	sched.Advance(DefaultFitDelay)
	if m.calls != 1 {
		t.Fatalf("resize did not refit: calls = %d", m.calls)
	}
}

func TestCancelDragOnSlide(t *testing.T) {
	s := loadedSlide(t, textItemJSON(100, 100, 500, 200, "a"))
	a := s.Items()[0]
	x, y := centre(s, a)
	s.Press(x, y)
	s.Motion(x+300, y+300)
	s.CancelDrag()
	if g := a.Geometry(); g.X != 100 || g.DeltaX != 0 || a.Holding() != HandleNone {
		t.Fatalf("geometry = %+v holding=%v", g, a.Holding())
	}
	s.Release(x, y)
	if g := a.Geometry(); g.X != 100 {
		t.Fatal("release after cancel moved the item")
	}
}

func TestPresentationModeIsInert(t *testing.T) {
	s := loadedSlide(t, textItemJSON(100, 100, 500, 200, "a"))
	a := s.Items()[0]
	clicked := false
	s.hooks.itemClicked = func(*Slide, Item) { clicked = true }
	s.SetPresentationMode(true)

	x, y := centre(s, a)
	if s.Press(x, y) != nil || a.Selected() || clicked {
		t.Fatal("press in presentation mode had an effect")
	}
	mx, my := s.Transform().Margins()
	s.Press(mx+1, my+1)
	if clicked {
		t.Fatal("empty canvas press in presentation mode emitted a click")
	}
}

func TestDeletedItemIsNotHit(t *testing.T) {
	s := loadedSlide(t, textItemJSON(100, 100, 500, 200, "a"))
	a := s.Items()[0]
	x, y := centre(s, a)
	a.Delete()
	if s.ItemAt(x, y) != nil {
		t.Fatal("deleted item was hit")
	}
	s.Select(a)
	if a.Selected() {
		t.Fatal("deleted item was selected")
	}
}

func TestAddTextClampsSize(t *testing.T) {
	s := newSlide(NewSlideRecord(), testOptions())
	item := s.AddText(10, 10, 5, 5, "x")
	if g := item.Geometry(); g.W != MinItemSize || g.H != MinItemSize {
		t.Fatalf("geometry = %+v", g)
	}
	item.SetGeometry(0, 0, 1, 1000)
	if g := item.Geometry(); g.W != MinItemSize || g.H != 1000 {
		t.Fatalf("SetGeometry = %+v", g)
	}
	rec := s.Serialise()
	if len(rec.Items) != 1 || rec.Items[0].Text.Font != DefaultFontFamily || rec.Items[0].Text.Color != DefaultTextColor {
		t.Fatalf("record = %+v", rec.Items)
	}
}

func TestSlideBackgroundResolver(t *testing.T) {
	opts := testOptions()
	calls := 0
	opts.Backgrounds = resolverFunc(func(path string) image.Image {
		calls++
		if path != "bg.png" {
			return nil
		}
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	})
	s := newSlide(NewSlideRecord(), opts)
	if s.Background() != nil || calls != 0 {
		t.Fatal("resolver consulted without a pattern")
	}
	s.SetBackgroundPattern("bg.png")
	if s.Background() == nil || calls != 1 {
		t.Fatalf("Background() = nil, calls = %d", calls)
	}
}
