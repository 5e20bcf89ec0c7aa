package goslides

// Handle identifies what part of an item the pointer is holding.
type Handle int

const (
	HandleNone Handle = -1
	HandleMove Handle = 0
	HandleNW   Handle = 1
	HandleN    Handle = 2
	HandleNE   Handle = 3
	HandleE    Handle = 4
	HandleSE   Handle = 5
	HandleS    Handle = 6
	HandleSW   Handle = 7
	HandleW    Handle = 8
)

// HandleSize is the side, in pixels, of the square grab area of each resize
// handle.
const HandleSize = 12.0

func (h Handle) String() string {
	switch h {
	case HandleNone:
		return "none"
	case HandleMove:
		return "move"
	case HandleNW:
		return "nw"
	case HandleN:
		return "n"
	case HandleNE:
		return "ne"
	case HandleE:
		return "e"
	case HandleSE:
		return "se"
	case HandleS:
		return "s"
	case HandleSW:
		return "sw"
	case HandleW:
		return "w"
	default:
		return "invalid"
	}
}

// Valid reports whether h is one of the nine grab handles.
func (h Handle) Valid() bool { return h >= HandleMove && h <= HandleW }

// edgeRule lists which edges a handle drags.
type edgeRule struct {
	left, top, right, bottom bool
}

var handleRules = map[Handle]edgeRule{
	HandleNW: {left: true, top: true},
	HandleN:  {top: true},
	HandleNE: {top: true, right: true},
	HandleE:  {right: true},
	HandleSE: {right: true, bottom: true},
	HandleS:  {bottom: true},
	HandleSW: {left: true, bottom: true},
	HandleW:  {left: true},
}

// handleAnchor returns the centre of a resize handle as fractions of the
// item's width and height.
func handleAnchor(h Handle) (fx, fy float64) {
	switch h {
	case HandleNW:
		return 0, 0
	case HandleN:
		return 0.5, 0
	case HandleNE:
		return 1, 0
	case HandleE:
		return 1, 0.5
	case HandleSE:
		return 1, 1
	case HandleS:
		return 0.5, 1
	case HandleSW:
		return 0, 1
	case HandleW:
		return 0, 0.5
	}
	return 0.5, 0.5
}

// HandleAt returns the resize handle of rect under the pixel point, or
// HandleNone.
func HandleAt(rect Rect, px, py float64) Handle {
	half := HandleSize / 2
	for h := HandleNW; h <= HandleW; h++ {
		fx, fy := handleAnchor(h)
		cx := rect.X + rect.W*fx
		cy := rect.Y + rect.H*fy
		if px >= cx-half && px <= cx+half && py >= cy-half && py <= cy+half {
			return h
		}
	}
	return HandleNone
}

// grabState records an in-progress drag.
type grabState struct {
	holding Handle
	start   Geometry
	startPX float64
	startPY float64
}

// press starts a drag with handle h at pixel (px, py).
func (b *baseItem) press(h Handle, px, py float64) {
	if !h.Valid() {
		return
	}
	b.geom.DeltaX, b.geom.DeltaY = 0, 0
	b.grab = grabState{
		holding: h,
		start:   b.geom,
		startPX: px,
		startPY: py,
	}
}

// drag applies pointer motion to the held handle. ratio converts pixels to
// authoring units. It reports whether anything changed.
func (b *baseItem) drag(px, py, ratio float64) bool {
	g := b.grab
	if g.holding == HandleNone || ratio <= 0 {
		return false
	}
	before := b.geom
	dx := px - g.startPX
	dy := py - g.startPY

	if g.holding == HandleMove {
		b.geom.DeltaX = dx
		b.geom.DeltaY = dy
		return b.geom != before
	}

	rule := handleRules[g.holding]
	s := g.start
	w, h := s.W, s.H
	deltaX, deltaY := 0.0, 0.0

	switch {
	case rule.right:
		w = clampSize(Units(float64(s.W) + dx/ratio))
	case rule.left:
		w = clampSize(Units(float64(s.W) - dx/ratio))
		// The right edge stays put: the left edge cannot cross it.
		deltaX = float64(s.W-w) * ratio
	}
	switch {
	case rule.bottom:
		h = clampSize(Units(float64(s.H) + dy/ratio))
	case rule.top:
		h = clampSize(Units(float64(s.H) - dy/ratio))
		deltaY = float64(s.H-h) * ratio
	}

	b.geom.W, b.geom.H = w, h
	b.geom.DeltaX, b.geom.DeltaY = deltaX, deltaY
	return b.geom != before
}

// release ends the drag. committed is false when nothing moved or resized,
// in which case the gesture is a plain click.
func (b *baseItem) release(ratio float64) (committed bool) {
	g := b.grab
	if g.holding == HandleNone {
		return false
	}
	b.grab = grabState{holding: HandleNone}

	moved := b.geom.DeltaX != 0 || b.geom.DeltaY != 0
	resized := b.geom.W != g.start.W || b.geom.H != g.start.H
	if !moved && !resized {
		return false
	}
	if ratio > 0 {
		b.geom.X += Units(b.geom.DeltaX / ratio)
		b.geom.Y += Units(b.geom.DeltaY / ratio)
	}
	b.geom.DeltaX, b.geom.DeltaY = 0, 0
	return true
}

// cancelGrab abandons a drag and restores the starting geometry.
func (b *baseItem) cancelGrab() {
	if b.grab.holding == HandleNone {
		return
	}
	b.geom = b.grab.start
	b.geom.DeltaX, b.geom.DeltaY = 0, 0
	b.grab = grabState{holding: HandleNone}
}
