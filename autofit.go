package goslides

// TextMeasurer lays out text word-wrapped to width pixels (unbounded
// height) and returns the pixel size of the result.
type TextMeasurer interface {
	MeasureText(font FontSpec, width float64, text string) (w, h float64)
}

// MeasureFunc adapts a function to TextMeasurer.
type MeasureFunc func(font FontSpec, width float64, text string) (w, h float64)

// MeasureText implements TextMeasurer.
func (f MeasureFunc) MeasureText(font FontSpec, width float64, text string) (float64, float64) {
	return f(font, width, text)
}

// FitScales returns how much the laid-out text must shrink horizontally and
// vertically to fit a w x h authoring-unit box at the given ratio. A scale
// is 1 when the measured extent is zero.
func FitScales(m TextMeasurer, font FontSpec, w, h int, ratio float64, text string) (widthScale, heightScale float64) {
	boxW := float64(w) * ratio
	boxH := float64(h) * ratio

	mw, mh := m.MeasureText(font, boxW, text)
	widthScale, heightScale = 1, 1
	if mw > 0 {
		widthScale = boxW / mw
	}
	if mh > 0 {
		heightScale = boxH / mh
	}
	return widthScale, heightScale
}

// FitFontSize returns the size text should be rendered at so it fits its
// box. The result never exceeds font.Size.
func FitFontSize(m TextMeasurer, font FontSpec, w, h int, ratio float64, text string) float64 {
	if m == nil || font.Size <= 0 {
		return font.Size
	}
	ws, hs := FitScales(m, font, w, h, ratio, text)
	factor := ws
	if hs < factor {
		factor = hs
	}
	if factor < 1 {
		return font.Size * factor
	}
	return font.Size
}
