package goslides

// Rect is a rectangle in render-surface pixels.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the pixel point (px, py) lies inside r.
func (r Rect) Contains(px, py float64) bool {
	return px >= r.X && px < r.X+r.W && py >= r.Y && py < r.Y+r.H
}

// Transform maps the fixed authoring canvas onto a render surface.
// The zero value is not usable; call NewTransform.
type Transform struct {
	width, height float64
	ratio         float64
	marginX       float64
	marginY       float64
}

// NewTransform returns a transform for a surface of the given pixel size.
func NewTransform(width, height float64) *Transform {
	t := &Transform{}
	t.SetSurface(width, height)
	return t
}

// SetSurface recomputes ratio and margins for a new surface size and reports
// whether the ratio changed. Dimensions below 1 are raised to 1.
func (t *Transform) SetSurface(width, height float64) bool {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	raw := height / CanvasSize
	ratio := raw - raw*ratioCorrection

	changed := ratio != t.ratio
	t.width = width
	t.height = height
	t.ratio = ratio
	t.marginX = (width - CanvasSize*ratio) / 2
	t.marginY = (height - CanvasSize*ratio) / 2
	return changed
}

// Ratio returns the authoring-unit to pixel scale factor.
func (t *Transform) Ratio() float64 { return t.ratio }

// Margins returns the horizontal and vertical pixel offsets of the canvas.
func (t *Transform) Margins() (x, y float64) { return t.marginX, t.marginY }

// Surface returns the current surface size in pixels.
func (t *Transform) Surface() (width, height float64) { return t.width, t.height }

// ToScreen maps an authoring-space point to surface pixels.
func (t *Transform) ToScreen(x, y int) (float64, float64) {
	return t.marginX + float64(x)*t.ratio, t.marginY + float64(y)*t.ratio
}

// ToCanvas maps a surface pixel to authoring units, rounded to whole units.
func (t *Transform) ToCanvas(px, py float64) (int, int) {
	return Units((px - t.marginX) / t.ratio), Units((py - t.marginY) / t.ratio)
}

// ItemRect returns the on-screen rectangle of an item geometry including
// its uncommitted drag deltas.
func (t *Transform) ItemRect(g Geometry) Rect {
	return Rect{
		X: t.marginX + float64(g.X)*t.ratio + g.DeltaX,
		Y: t.marginY + float64(g.Y)*t.ratio + g.DeltaY,
		W: float64(g.W) * t.ratio,
		H: float64(g.H) * t.ratio,
	}
}

// CanvasRect returns the on-screen rectangle of the whole authoring canvas.
func (t *Transform) CanvasRect() Rect {
	return Rect{X: t.marginX, Y: t.marginY, W: CanvasSize * t.ratio, H: CanvasSize * t.ratio}
}
