package goslides

import (
	"sort"
	"sync/atomic"
	"time"
)

// DefaultFitDelay is how long auto-fit waits after the last triggering change.
const DefaultFitDelay = 80 * time.Millisecond

// Scheduler runs f once after d has elapsed. The returned cancel function
// prevents f from running if it has not run yet. Callbacks must be delivered
// on the goroutine that owns the deck.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (cancel func())
}

// LoopTask is an expired LoopScheduler callback waiting to run.
type LoopTask struct {
	fn        func()
	cancelled atomic.Bool
}

// LoopScheduler hands expired callbacks to the host's event loop. Timers run
// on their own goroutines but only enqueue; the host runs the callbacks by
// draining Tasks or calling RunPending from the goroutine that owns the deck.
type LoopScheduler struct {
	tasks chan *LoopTask
}

// NewLoopScheduler returns a scheduler whose queue holds up to capacity
// expired callbacks before timers block. Cancelled callbacks never enter the
// queue.
func NewLoopScheduler(capacity int) *LoopScheduler {
	if capacity <= 0 {
		capacity = 64
	}
	return &LoopScheduler{tasks: make(chan *LoopTask, capacity)}
}

// AfterFunc implements Scheduler.
func (s *LoopScheduler) AfterFunc(d time.Duration, f func()) func() {
	task := &LoopTask{fn: f}
	timer := time.AfterFunc(d, func() {
		if !task.cancelled.Load() {
			s.tasks <- task
		}
	})
	return func() {
		timer.Stop()
		task.cancelled.Store(true)
	}
}

// Tasks exposes expired callbacks so a host loop can select on them.
// Each received value must be passed to Run.
func (s *LoopScheduler) Tasks() <-chan *LoopTask { return s.tasks }

// Run executes a task received from Tasks unless it was cancelled.
func (s *LoopScheduler) Run(t *LoopTask) {
	if t != nil && !t.cancelled.Load() {
		t.fn()
	}
}

// RunPending runs every callback that has already expired and returns how
// many ran.
func (s *LoopScheduler) RunPending() int {
	n := 0
	for {
		select {
		case t := <-s.tasks:
			if !t.cancelled.Load() {
				t.fn()
				n++
			}
		default:
			return n
		}
	}
}

type manualTimer struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
}

// ManualScheduler is a virtual clock. Nothing runs until Advance is called,
// which makes debounce behaviour deterministic in tests and batch tools.
type ManualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

// NewManualScheduler returns a virtual clock at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) func() {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, fn: f}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

// Advance moves the clock forward by d, running due callbacks in deadline
// order. Callbacks scheduled while advancing run too if they fall due.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		next := s.popDue(target)
		if next == nil {
			break
		}
		s.now = next.at
		next.fn()
	}
	s.now = target
}

func (s *ManualScheduler) popDue(target time.Duration) *manualTimer {
	live := s.timers[:0]
	for _, t := range s.timers {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	s.timers = live
	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	if len(s.timers) == 0 || s.timers[0].at > target {
		return nil
	}
	t := s.timers[0]
	s.timers = s.timers[1:]
	return t
}

// Pending returns the number of callbacks that are scheduled and not cancelled.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Now returns the virtual time.
func (s *ManualScheduler) Now() time.Duration { return s.now }
