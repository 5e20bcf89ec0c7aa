package goslides

import (
	"testing"
	"time"
)

func TestFitFontSizeShrinksByLimitingScale(t *testing.T) {
	// Nominal 16, widthScale 0.5, heightScale 0.9 -> 8.
	font := FontSpec{Family: "Sans", Size: 16}
	const w, h, ratio = 400, 200, 0.5
	boxW, boxH := w*ratio, h*ratio
	m := MeasureFunc(func(FontSpec, float64, string) (float64, float64) {
		return boxW / 0.5, boxH / 0.9
	})

	ws, hs := FitScales(m, font, w, h, ratio, "lyrics")
	if !approx(ws, 0.5) || !approx(hs, 0.9) {
		t.Fatalf("scales = (%v,%v), want (0.5,0.9)", ws, hs)
	}
	if got := FitFontSize(m, font, w, h, ratio, "lyrics"); !approx(got, 8) {
		t.Fatalf("FitFontSize = %v, want 8", got)
	}
}

func TestFitFontSizeNeverUpscales(t *testing.T) {
	font := FontSpec{Size: 40}
	small := MeasureFunc(func(FontSpec, float64, string) (float64, float64) { return 10, 10 })
	if got := FitFontSize(small, font, 1000, 1000, 1, "x"); got != 40 {
		t.Fatalf("FitFontSize = %v, want nominal 40", got)
	}
}

func TestFitFontSizeZeroMeasurement(t *testing.T) {
	font := FontSpec{Size: 40}
	empty := MeasureFunc(func(FontSpec, float64, string) (float64, float64) { return 0, 0 })
	ws, hs := FitScales(empty, font, 100, 100, 1, "")
	if ws != 1 || hs != 1 {
		t.Fatalf("scales = (%v,%v), want (1,1)", ws, hs)
	}
	if got := FitFontSize(empty, font, 100, 100, 1, ""); got != 40 {
		t.Fatalf("FitFontSize = %v, want 40", got)
	}
	if got := FitFontSize(nil, font, 100, 100, 1, "x"); got != 40 {
		t.Fatalf("nil measurer: got %v, want 40", got)
	}
}

func TestFitFontSizeMonotonic(t *testing.T) {
	fc := NewFontCacheDirs()
	font := FontSpec{Family: "Sans", Size: 60}
	text := "Amazing grace how sweet the sound that saved a wretch like me"
	for _, box := range [][2]int{{100, 100}, {400, 200}, {1500, 1500}, {40, 40}} {
		got := FitFontSize(fc, font, box[0], box[1], 0.7, text)
		if got > font.Size {
			t.Errorf("box %v: effective %v exceeds nominal %v", box, got, font.Size)
		}
		if got <= 0 {
			t.Errorf("box %v: effective %v not positive", box, got)
		}
	}
}

func TestAutoFitDebounce(t *testing.T) {
	sched := NewManualScheduler()
	m := &countingMeasurer{w: 100, h: 100}
	opts := testOptions()
	opts.Measurer = m
	opts.Scheduler = sched

	s := newSlide(NewSlideRecord(), opts)
	item := s.AddText(0, 0, 400, 200, "first")
	sched.Advance(DefaultFitDelay)
	m.calls = 0

	item.SetText("a")
	sched.Advance(50 * time.Millisecond)
	item.SetText("ab")
	sched.Advance(50 * time.Millisecond)
	item.SetText("abc")
	sched.Advance(DefaultFitDelay - time.Millisecond)
	if m.calls != 0 {
		t.Fatalf("fit ran %d times before the delay elapsed", m.calls)
	}
	if sched.Pending() != 1 {
		t.Fatalf("pending = %d, want exactly one replacement timer", sched.Pending())
	}
	sched.Advance(time.Millisecond)
	if m.calls != 1 {
		t.Fatalf("fit ran %d times, want 1", m.calls)
	}
}

func TestAutoFitTriggers(t *testing.T) {
	sched := NewManualScheduler()
	// The layout is always twice as wide as any box: factor 0.5.
	opts := testOptions()
	opts.Scheduler = sched
	opts.Measurer = MeasureFunc(func(_ FontSpec, width float64, _ string) (float64, float64) {
		return width * 2, 1
	})

	s := newSlide(NewSlideRecord(), opts)
	item := s.AddText(0, 0, 400, 200, "hello")
	if item.EffectiveFontSize() != DefaultFontSize {
		t.Fatalf("effective size changed before the debounce fired")
	}
	sched.Advance(DefaultFitDelay)
	if !approx(item.EffectiveFontSize(), DefaultFontSize/2) {
		t.Fatalf("effective = %v, want %v", item.EffectiveFontSize(), DefaultFontSize/2)
	}

	item.SetFontSize(80)
	if sched.Pending() != 1 {
		t.Fatalf("font size change did not schedule a fit")
	}
	sched.Advance(DefaultFitDelay)
	if !approx(item.EffectiveFontSize(), 40) {
		t.Fatalf("effective = %v, want 40", item.EffectiveFontSize())
	}

	s.Resize(1280, 720)
	if sched.Pending() != 1 {
		t.Fatalf("ratio change did not schedule a fit")
	}

	item.SetColor("#FF0000")
	if sched.Pending() != 1 {
		t.Fatalf("colour change scheduled an extra fit")
	}
}

func TestAutoFitSynchronousWithoutScheduler(t *testing.T) {
	m := &countingMeasurer{w: 10000, h: 10}
	opts := testOptions()
	opts.Measurer = m

	s := newSlide(NewSlideRecord(), opts)
	item := s.AddText(0, 0, 400, 200, "x")
	if m.calls != 1 {
		t.Fatalf("calls = %d, want 1", m.calls)
	}
	if item.EffectiveFontSize() >= DefaultFontSize {
		t.Fatalf("effective = %v, want shrunk", item.EffectiveFontSize())
	}
}

func TestRefreshFitsCancelsPending(t *testing.T) {
	sched := NewManualScheduler()
	m := &countingMeasurer{w: 1, h: 1}
	opts := testOptions()
	opts.Measurer = m
	opts.Scheduler = sched

	s := newSlide(NewSlideRecord(), opts)
	s.AddText(0, 0, 400, 200, "x")
	s.RefreshFits()
	if m.calls != 1 {
		t.Fatalf("calls = %d after RefreshFits, want 1", m.calls)
	}
	sched.Advance(time.Second)
	if m.calls != 1 {
		t.Fatalf("pending fit still ran: calls = %d", m.calls)
	}
}

func TestDefaultDeckOptionsFitSynchronously(t *testing.T) {
	if NewDeck(nil).Options().Scheduler != nil {
		t.Fatal("default deck installed a scheduler nothing drains")
	}
	opts := DefaultDeckOptions()
	opts.Measurer = MeasureFunc(func(_ FontSpec, width float64, _ string) (float64, float64) {
		return width * 2, 1
	})
	d := NewDeck(opts)
	s := d.NewSlide(nil)
	for i := 0; i < 100; i++ {
		item := s.AddText(0, 0, 500, 200, "Great is thy faithfulness")
		if got := item.EffectiveFontSize(); !approx(got, DefaultFontSize/2) {
			t.Fatalf("item %d effective size = %v, want %v", i, got, DefaultFontSize/2.0)
		}
	}
}
