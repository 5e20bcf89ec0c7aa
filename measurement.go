package goslides

import "math"

// Authoring-space constants. Slides are designed on a fixed square canvas of
// CanvasSize logical units; every item coordinate is stored in those units.
const (
	CanvasSize = 1500
	// MinItemSize is the smallest width or height an item may be resized to.
	MinItemSize = 40
	// ratioCorrection shrinks the raw surface ratio slightly. Older decks were
	// authored against this scale, so it stays for visual compatibility.
	ratioCorrection = 0.016

	maxUnits = math.MaxInt32 / 2
)

// Units rounds a float authoring-space value to whole units, clamping to a
// safe range.
func Units(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if v > maxUnits {
		return maxUnits
	}
	if v < -maxUnits {
		return -maxUnits
	}
	return int(math.Round(v))
}

// clampSize enforces MinItemSize on a width or height.
func clampSize(v int) int {
	if v < MinItemSize {
		return MinItemSize
	}
	return v
}

// clampFloat limits v to [lo, hi].
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
