package goslides

// EventKind identifies a deck notification.
type EventKind int

const (
	// EventReset fires after every slide has been destroyed.
	EventReset EventKind = iota
	// EventCurrentSlideChanged carries the new current slide (nil when unset).
	EventCurrentSlideChanged
	// EventItemClicked carries the clicked item, or nil for empty canvas.
	EventItemClicked
	// EventRatioChanged carries the new transform ratio.
	EventRatioChanged
	EventSlidesSorted
	EventNewSlideCreated
	// EventRequestDrawPreview asks observers to refresh the slide's preview.
	EventRequestDrawPreview
)

func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventCurrentSlideChanged:
		return "current-slide-changed"
	case EventItemClicked:
		return "item-clicked"
	case EventRatioChanged:
		return "ratio-changed"
	case EventSlidesSorted:
		return "slides-sorted"
	case EventNewSlideCreated:
		return "new-slide-created"
	case EventRequestDrawPreview:
		return "request-draw-preview"
	default:
		return "unknown"
	}
}

// Event is delivered synchronously to subscribers. Slide and Item are only
// valid for the duration of the callback; keep Slide.ID() to refer to a
// slide later.
type Event struct {
	Kind  EventKind
	Slide *Slide
	Item  Item
	Ratio float64
}

// Handler receives deck events.
type Handler func(Event)

type subscription struct {
	id      int
	kinds   map[EventKind]bool
	handler Handler
}

// registry is a typed observer list. It is not safe for concurrent use.
type registry struct {
	nextID int
	subs   []subscription
}

func (r *registry) subscribe(h Handler, kinds []EventKind) func() {
	r.nextID++
	sub := subscription{id: r.nextID, handler: h}
	if len(kinds) > 0 {
		sub.kinds = make(map[EventKind]bool, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = true
		}
	}
	r.subs = append(r.subs, sub)

	id := sub.id
	return func() {
		for i, s := range r.subs {
			if s.id == id {
				r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
				return
			}
		}
	}
}

func (r *registry) emit(ev Event) {
	// Handlers may subscribe or unsubscribe while we iterate.
	subs := append([]subscription(nil), r.subs...)
	for _, s := range subs {
		if s.kinds != nil && !s.kinds[ev.Kind] {
			continue
		}
		s.handler(ev)
	}
}
