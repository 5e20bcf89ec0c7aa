package goslides

// Geometry is an item's rectangle in authoring units plus the uncommitted
// drag translation in surface pixels.
type Geometry struct {
	X, Y, W, H     int
	DeltaX, DeltaY float64
}

// Item is a positioned element on a slide canvas. The set of
// implementations is closed; switch on the concrete type (*TextItem).
type Item interface {
	Kind() ItemType
	Geometry() Geometry
	SetGeometry(x, y, w, h int)
	Visible() bool
	// Delete hides the item. It stays on the slide but is no longer drawn,
	// hit-tested or serialised.
	Delete()
	Selected() bool
	Holding() Handle
	Record() ItemRecord
	base() *baseItem
}

// baseItem holds the state shared by every item kind.
type baseItem struct {
	geom     Geometry
	visible  bool
	selected bool
	grab     grabState
	// changed is installed by the owning slide and fires after any geometry
	// or content change that affects layout.
	changed func()
}

func newBaseItem(x, y, w, h int) baseItem {
	return baseItem{
		geom:    Geometry{X: x, Y: y, W: w, H: h},
		visible: true,
		grab:    grabState{holding: HandleNone},
	}
}

func (b *baseItem) Geometry() Geometry { return b.geom }
func (b *baseItem) Visible() bool      { return b.visible }
func (b *baseItem) Selected() bool     { return b.selected }
func (b *baseItem) Holding() Handle    { return b.grab.holding }
func (b *baseItem) base() *baseItem    { return b }

// SetGeometry replaces the committed rectangle. Width and height are clamped
// to MinItemSize; pending drag deltas are discarded.
func (b *baseItem) SetGeometry(x, y, w, h int) {
	b.geom = Geometry{X: x, Y: y, W: clampSize(w), H: clampSize(h)}
	b.notify()
}

func (b *baseItem) Delete() {
	if !b.visible {
		return
	}
	b.visible = false
	b.selected = false
	b.grab = grabState{holding: HandleNone}
	b.notify()
}

func (b *baseItem) notify() {
	if b.changed != nil {
		b.changed()
	}
}

// TextItem is a block of text that shrinks its rendered font size to fit
// its rectangle.
type TextItem struct {
	baseItem
	style     TextRecord
	effective float64
	// cancelFit stops the pending debounced fit, if any.
	cancelFit func()
}

// NewTextItem returns a visible text item with the given geometry and style.
func NewTextItem(x, y, w, h int, style TextRecord) *TextItem {
	t := &TextItem{
		baseItem: newBaseItem(x, y, w, h),
		style:    style,
	}
	t.effective = float64(style.FontSize)
	return t
}

// newItem materialises a record. ok is false for unrecognised variants.
func newItem(rec ItemRecord) (item Item, ok bool) {
	switch rec.Type {
	case ItemText:
		return NewTextItem(rec.X, rec.Y, rec.W, rec.H, rec.Text), true
	default:
		return nil, false
	}
}

func (t *TextItem) Kind() ItemType { return ItemText }

// Record returns the persisted form of the item's committed state.
func (t *TextItem) Record() ItemRecord {
	return ItemRecord{
		X: t.geom.X, Y: t.geom.Y, W: t.geom.W, H: t.geom.H,
		Type: ItemText,
		Tag:  itemTagText,
		Text: t.style,
	}
}

// Style returns a copy of the item's text and style.
func (t *TextItem) Style() TextRecord { return t.style }

// Text returns the item's text.
func (t *TextItem) Text() string { return t.style.Text }

// SetText replaces the text and schedules a refit.
func (t *TextItem) SetText(s string) {
	if t.style.Text == s {
		return
	}
	t.style.Text = s
	t.notify()
}

// SetFont changes the font family and schedules a refit.
func (t *TextItem) SetFont(family string) {
	if t.style.Font == family {
		return
	}
	t.style.Font = family
	t.notify()
}

// SetFontSize changes the authored font size and schedules a refit.
func (t *TextItem) SetFontSize(size int) {
	if size <= 0 || t.style.FontSize == size {
		return
	}
	t.style.FontSize = size
	if t.effective > float64(size) {
		t.effective = float64(size)
	}
	t.notify()
}

// SetFontWeight changes the weight and schedules a refit.
func (t *TextItem) SetFontWeight(w FontWeight) {
	if t.style.FontWeight == w {
		return
	}
	t.style.FontWeight = w
	t.notify()
}

// SetFontStyle changes the slant and schedules a refit.
func (t *TextItem) SetFontStyle(s FontStyle) {
	if t.style.FontStyle == s {
		return
	}
	t.style.FontStyle = s
	t.notify()
}

// SetJustification sets horizontal alignment.
func (t *TextItem) SetJustification(j Justification) { t.style.Justification = parseJustification(int(j)) }

// SetAlign sets vertical alignment.
func (t *TextItem) SetAlign(a VerticalAlign) { t.style.Align = parseVerticalAlign(int(a)) }

// SetColor sets the text colour string as written to the document.
func (t *TextItem) SetColor(c string) { t.style.Color = c }

func (t *TextItem) SetUnderline(v bool) { t.style.Underline = v }
func (t *TextItem) SetOutline(v bool)   { t.style.Outline = v }
func (t *TextItem) SetShadow(v bool)    { t.style.Shadow = v }

// EffectiveFontSize is the size the text is drawn at after auto-fit. It
// never exceeds the authored size.
func (t *TextItem) EffectiveFontSize() float64 { return t.effective }

// fontSpec describes the item's font for measurement in the given family.
func (t *TextItem) fontSpec(family string) FontSpec {
	if family == "" {
		family = t.style.Font
	}
	return FontSpec{
		Family: family,
		Size:   float64(t.style.FontSize),
		Weight: t.style.FontWeight,
		Style:  t.style.FontStyle,
	}
}

// fit recomputes the effective font size immediately.
func (t *TextItem) fit(m TextMeasurer, family string, ratio float64) {
	t.effective = FitFontSize(m, t.fontSpec(family), t.geom.W, t.geom.H, ratio, t.style.Text)
}

func (t *TextItem) stopFit() {
	if t.cancelFit != nil {
		t.cancelFit()
		t.cancelFit = nil
	}
}
