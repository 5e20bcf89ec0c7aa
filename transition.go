package goslides

// Transition is the animation used when a slide becomes live. The ordinal
// values are part of the document format and must not be reordered.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionCrossfade
	TransitionSlideLeft
	TransitionSlideRight
	TransitionSlideUp
	TransitionSlideDown
	TransitionSlideLeftRight
	TransitionSlideUpDown
	TransitionOverUp
	TransitionOverDown
	TransitionOverLeft
	TransitionOverRight
	TransitionUnderUp
	TransitionUnderDown
	TransitionUnderLeft
	TransitionUnderRight
	TransitionOverUpDown
	TransitionOverDownUp
	TransitionOverLeftRight
	TransitionOverRightLeft
	TransitionRotateLeft
	TransitionRotateRight
	TransitionRotateLeftRight

	transitionCount
)

var transitionNames = [transitionCount]string{
	"None", "Crossfade",
	"SlideLeft", "SlideRight", "SlideUp", "SlideDown", "SlideLeftRight", "SlideUpDown",
	"OverUp", "OverDown", "OverLeft", "OverRight",
	"UnderUp", "UnderDown", "UnderLeft", "UnderRight",
	"OverUpDown", "OverDownUp", "OverLeftRight", "OverRightLeft",
	"RotateLeft", "RotateRight", "RotateLeftRight",
}

// TransitionFromOrdinal decodes a stored ordinal. Anything outside the
// table is TransitionNone.
func TransitionFromOrdinal(n int) Transition {
	if n < 0 || n >= int(transitionCount) {
		return TransitionNone
	}
	return Transition(n)
}

// Valid reports whether t is a known transition.
func (t Transition) Valid() bool { return t >= 0 && t < transitionCount }

func (t Transition) String() string {
	if !t.Valid() {
		return transitionNames[TransitionNone]
	}
	return transitionNames[t]
}

// Transitions returns every known transition in ordinal order.
func Transitions() []Transition {
	out := make([]Transition, transitionCount)
	for i := range out {
		out[i] = Transition(i)
	}
	return out
}
