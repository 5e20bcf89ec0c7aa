package goslides

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Default style values used when a record omits or garbles a field.
const (
	DefaultBackgroundColor = "#383E41"
	DefaultTextColor       = "#FFFFFF"
	DefaultFontFamily      = "Sans"
	DefaultFontSize        = 40
)

var wordSeparators = strings.NewReplacer(" ", "", "-", "", "_", "")

// foldCase returns the case-folded form of s. A Caser is stateful, so each
// call gets its own.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

// normaliseWord case-folds s and drops separators so "Extra-Bold",
// "extra bold" and "EXTRABOLD" compare equal.
func normaliseWord(s string) string {
	return wordSeparators.Replace(foldCase(strings.TrimSpace(s)))
}

// FontWeight is a numeric font weight in the 100-900 range.
type FontWeight int

const (
	WeightThin       FontWeight = 100
	WeightLight      FontWeight = 200
	WeightExtraLight FontWeight = 300
	WeightRegular    FontWeight = 400
	WeightMedium     FontWeight = 500
	WeightSemiBold   FontWeight = 600
	WeightBold       FontWeight = 700
	WeightExtraBold  FontWeight = 800
	WeightBlack      FontWeight = 900
)

// The extralight/light ordering matches the values decks have always been
// written with.
var weightNames = map[string]FontWeight{
	"black":      WeightBlack,
	"extrabold":  WeightExtraBold,
	"semibold":   WeightSemiBold,
	"bold":       WeightBold,
	"medium":     WeightMedium,
	"regular":    WeightRegular,
	"extralight": WeightExtraLight,
	"light":      WeightLight,
	"thin":       WeightThin,
}

// ParseFontWeight maps a weight word (or a numeric string) to a FontWeight.
// Anything unrecognised is WeightRegular.
func ParseFontWeight(s string) FontWeight {
	key := normaliseWord(s)
	if w, ok := weightNames[key]; ok {
		return w
	}
	if key == "normal" {
		return WeightRegular
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 100 && n <= 900 {
		return FontWeight(n).rounded()
	}
	return WeightRegular
}

func (w FontWeight) rounded() FontWeight {
	n := int(math.Round(float64(w)/100)) * 100
	if n < 100 {
		n = 100
	}
	if n > 900 {
		n = 900
	}
	return FontWeight(n)
}

// String returns the weight word written to documents.
func (w FontWeight) String() string {
	switch w.rounded() {
	case WeightThin:
		return "thin"
	case WeightLight:
		return "light"
	case WeightExtraLight:
		return "extralight"
	case WeightMedium:
		return "medium"
	case WeightSemiBold:
		return "semibold"
	case WeightBold:
		return "bold"
	case WeightExtraBold:
		return "extrabold"
	case WeightBlack:
		return "black"
	default:
		return "regular"
	}
}

// IsBold reports whether the weight should pick a bold face.
func (w FontWeight) IsBold() bool { return w >= WeightSemiBold }

// FontStyle is the slant of a text item.
type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

// ParseFontStyle accepts "italic" and "oblique" as italic; everything else is normal.
func ParseFontStyle(s string) FontStyle {
	switch normaliseWord(s) {
	case "italic", "oblique":
		return FontStyleItalic
	default:
		return FontStyleNormal
	}
}

// Justification is the horizontal alignment of text lines.
type Justification int

const (
	JustifyLeft Justification = iota
	JustifyCenter
	JustifyRight
	JustifyFill
)

func parseJustification(n int) Justification {
	if n < int(JustifyLeft) || n > int(JustifyFill) {
		return JustifyLeft
	}
	return Justification(n)
}

// VerticalAlign positions a text block inside its item.
type VerticalAlign int

const (
	AlignTop VerticalAlign = iota
	AlignMiddle
	AlignBottom
)

func parseVerticalAlign(n int) VerticalAlign {
	if n < int(AlignTop) || n > int(AlignBottom) {
		return AlignTop
	}
	return VerticalAlign(n)
}

// FontSpec is what a TextMeasurer needs to lay out a string.
type FontSpec struct {
	Family string
	Size   float64 // in points
	Weight FontWeight
	Style  FontStyle
}

var namedColors = map[string]color.RGBA{
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"blue":        {0, 0, 255, 255},
	"yellow":      {255, 255, 0, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"orange":      {255, 165, 0, 255},
	"transparent": {0, 0, 0, 0},
}

// ParseColor converts a hex ("#RGB", "#RRGGBB", "#RRGGBBAA"), rgb()/rgba()
// or basic named colour string to color.RGBA. ok is false if s cannot be
// parsed.
func ParseColor(s string) (c color.RGBA, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return c, false
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	lower := foldCase(s)
	if named, found := namedColors[lower]; found {
		return named, true
	}
	if strings.HasPrefix(lower, "rgb") {
		return parseRGBFunc(lower)
	}
	return c, false
}

func parseHexColor(h string) (color.RGBA, bool) {
	switch len(h) {
	case 3:
		r, g, b := hexVal(h[0]), hexVal(h[1]), hexVal(h[2])
		if r < 0 || g < 0 || b < 0 {
			return color.RGBA{}, false
		}
		return color.RGBA{uint8(r * 17), uint8(g * 17), uint8(b * 17), 255}, true
	case 6, 8:
		for i := 0; i < len(h); i++ {
			if hexVal(h[i]) < 0 {
				return color.RGBA{}, false
			}
		}
		c := color.RGBA{parseHexByte(h, 0), parseHexByte(h, 2), parseHexByte(h, 4), 255}
		if len(h) == 8 {
			c.A = parseHexByte(h, 6)
		}
		return c, true
	default:
		return color.RGBA{}, false
	}
}

func parseRGBFunc(s string) (color.RGBA, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.RGBA{}, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.RGBA{}, false
	}
	var vals [4]float64
	vals[3] = 1
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return color.RGBA{}, false
		}
		vals[i] = v
	}
	return color.RGBA{
		R: uint8(clampFloat(vals[0], 0, 255)),
		G: uint8(clampFloat(vals[1], 0, 255)),
		B: uint8(clampFloat(vals[2], 0, 255)),
		A: uint8(math.Round(clampFloat(vals[3], 0, 1) * 255)),
	}, true
}

// parseHexByte parses two hex characters at offset into a uint8.
// Returns 0 on any error.
func parseHexByte(s string, offset int) uint8 {
	if offset+2 > len(s) {
		return 0
	}
	h := hexVal(s[offset])
	l := hexVal(s[offset+1])
	if h < 0 || l < 0 {
		return 0
	}
	return uint8(h<<4 | l)
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}
