package goslides

import (
	"image/color"
	"testing"
)

func TestParseFontWeight(t *testing.T) {
	cases := []struct {
		in   string
		want FontWeight
	}{
		{"black", WeightBlack},
		{"Extra-Bold", WeightExtraBold},
		{"extra bold", WeightExtraBold},
		{"SemiBold", WeightSemiBold},
		{"bold", WeightBold},
		{"medium", WeightMedium},
		{"regular", WeightRegular},
		{"normal", WeightRegular},
		{"extralight", WeightExtraLight},
		{"light", WeightLight},
		{"thin", WeightThin},
		{"700", WeightBold},
		{"650", WeightBold},
		{"42", WeightRegular},
		{"heavy-ish", WeightRegular},
		{"", WeightRegular},
	}
	for _, c := range cases {
		if got := ParseFontWeight(c.in); got != c.want {
			t.Errorf("ParseFontWeight(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFontWeightStringRoundTrips(t *testing.T) {
	for _, w := range []FontWeight{WeightThin, WeightLight, WeightExtraLight, WeightRegular,
		WeightMedium, WeightSemiBold, WeightBold, WeightExtraBold, WeightBlack} {
		if got := ParseFontWeight(w.String()); got != w {
			t.Errorf("ParseFontWeight(%q) = %v, want %v", w.String(), got, w)
		}
	}
	if !WeightSemiBold.IsBold() || WeightMedium.IsBold() {
		t.Error("IsBold threshold is semibold")
	}
}

func TestParseFontStyle(t *testing.T) {
	for in, want := range map[string]FontStyle{
		"italic":  FontStyleItalic,
		"Oblique": FontStyleItalic,
		"normal":  FontStyleNormal,
		"slanty":  FontStyleNormal,
		"":        FontStyleNormal,
	} {
		if got := ParseFontStyle(in); got != want {
			t.Errorf("ParseFontStyle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#FFF", color.RGBA{255, 255, 255, 255}, true},
		{"#383E41", color.RGBA{0x38, 0x3E, 0x41, 255}, true},
		{"#38 3E41", color.RGBA{}, false},
		{"#11223380", color.RGBA{0x11, 0x22, 0x33, 0x80}, true},
		{" Red ", color.RGBA{255, 0, 0, 255}, true},
		{"rgb(1, 2, 3)", color.RGBA{1, 2, 3, 255}, true},
		{"rgba(300,0,0,0.5)", color.RGBA{255, 0, 0, 128}, true},
		{"rgb(1,2)", color.RGBA{}, false},
		{"#12", color.RGBA{}, false},
		{"#GGGGGG", color.RGBA{}, false},
		{"chartreuse-ish", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, c := range cases {
		got, ok := ParseColor(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestTransitionOrdinals(t *testing.T) {
	if TransitionFromOrdinal(99) != TransitionNone || TransitionFromOrdinal(-1) != TransitionNone {
		t.Error("out of range ordinals should decode to None")
	}
	if TransitionFromOrdinal(1) != TransitionCrossfade {
		t.Error("ordinal 1 is Crossfade")
	}
	all := Transitions()
	if len(all) != 23 {
		t.Fatalf("transitions = %d, want 23", len(all))
	}
	if all[22] != TransitionRotateLeftRight || all[22].String() != "RotateLeftRight" {
		t.Errorf("last transition = %v", all[22])
	}
	if Transition(99).String() != "None" || Transition(99).Valid() {
		t.Error("unknown transition should report None and be invalid")
	}
}

func TestAlignmentParsing(t *testing.T) {
	if parseJustification(3) != JustifyFill || parseJustification(4) != JustifyLeft || parseJustification(-1) != JustifyLeft {
		t.Error("justification range")
	}
	if parseVerticalAlign(2) != AlignBottom || parseVerticalAlign(3) != AlignTop {
		t.Error("vertical align range")
	}
}
