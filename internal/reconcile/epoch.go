package reconcile

import "math"

// msThreshold separates second-scale from millisecond-scale epochs.
// 1e12 ms is September 2001; 1e12 s is tens of thousands of years away.
const msThreshold = 1e12

// ToMilliseconds converts an epoch of unknown unit to milliseconds.
// Unset, non-positive or non-finite values yield 0.
func ToMilliseconds(v float64) int64 {
	if !valid(v) {
		return 0
	}
	if v < msThreshold {
		return int64(v) * 1000
	}
	return int64(v)
}

// ToSeconds converts an epoch of unknown unit to whole seconds.
// Unset, non-positive or non-finite values yield 0.
func ToSeconds(v float64) int64 {
	if !valid(v) {
		return 0
	}
	if v < msThreshold {
		return int64(v)
	}
	return int64(v / 1000)
}

func valid(v float64) bool {
	// NaN and +Inf fail the comparisons too. Second-scale values stay
	// below 1e12, so scaling them to ms cannot overflow.
	return v > 0 && v < math.MaxInt64
}
