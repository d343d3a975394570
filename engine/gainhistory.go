// SPDX-License-Identifier: EPL-2.0

package engine

// gainHistory tracks one channel's gain trajectory through the three
// stages of the smoothing chain: original (raw per-frame gains awaiting a
// full minimum-filter window), minimum (minimum-filtered gains awaiting a
// full Gaussian-filter window), and smoothed (final gains ready for
// amplification, consumed one per frame). It also retains a parallel copy
// of each stage for the diagnostic log file, since the smoothed/minimum
// queues are drained by amplification before a log line can be written.
type gainHistory struct {
	filterSize int

	original []float64
	minimum  []float64
	smoothed []float64

	logOriginal []float64
	logMinimum  []float64
	logSmoothed []float64
}

func newGainHistory(filterSize int) *gainHistory {
	return &gainHistory{filterSize: filterSize}
}

// update pushes a newly analyzed gain for this frame through the chain,
// cascading a minimum-filtered value into minimum whenever original holds
// a full window, and a Gaussian-filtered value into smoothed whenever
// minimum holds a full window. On the very first call the history is
// pre-filled with filterSize/2 sentinel entries in both original and
// minimum so the chain starts producing smoothed output without an
// initial silent gap; seed is that sentinel value (1.0, or the current
// gain under alt-boundary mode). update reports whether this was the
// first call, so the caller can seed its own fade state to match.
func (h *gainHistory) update(gain, seed float64, gauss *gaussianFilter) (firstPush bool) {
	firstPush = len(h.original) == 0 && len(h.minimum) == 0
	if firstPush {
		preFillSize := h.filterSize / 2
		for i := 0; i < preFillSize; i++ {
			h.original = append(h.original, seed)
			h.minimum = append(h.minimum, seed)
		}
	}

	h.original = append(h.original, gain)
	h.logOriginal = append(h.logOriginal, gain)

	for len(h.original) >= h.filterSize {
		m := minimumFilter(h.original[:h.filterSize])
		h.minimum = append(h.minimum, m)
		h.logMinimum = append(h.logMinimum, m)
		h.original = h.original[1:]
	}

	for len(h.minimum) >= h.filterSize {
		s := gauss.apply(h.minimum[:h.filterSize])
		h.smoothed = append(h.smoothed, s)
		h.logSmoothed = append(h.logSmoothed, s)
		h.minimum = h.minimum[1:]
	}

	return firstPush
}

// smoothedEmpty reports whether any smoothed gain is available yet; the
// amplify phase must wait until the first one has emerged from the chain.
func (h *gainHistory) smoothedEmpty() bool {
	return len(h.smoothed) == 0
}

// popSmoothed removes and returns the oldest smoothed gain.
func (h *gainHistory) popSmoothed() (float64, bool) {
	if len(h.smoothed) == 0 {
		return 0, false
	}
	v := h.smoothed[0]
	h.smoothed = h.smoothed[1:]
	return v, true
}

// popLog removes and returns one row of log values if all three logging
// queues are non-empty, matching the reference writer's rule that a log
// line is only emitted once original, minimum, and smoothed values have
// all become available for the same frame.
func (h *gainHistory) popLog() (orig, min, smooth float64, ok bool) {
	if len(h.logOriginal) == 0 || len(h.logMinimum) == 0 || len(h.logSmoothed) == 0 {
		return 0, 0, 0, false
	}
	orig, min, smooth = h.logOriginal[0], h.logMinimum[0], h.logSmoothed[0]
	h.logOriginal = h.logOriginal[1:]
	h.logMinimum = h.logMinimum[1:]
	h.logSmoothed = h.logSmoothed[1:]
	return orig, min, smooth, true
}

func (h *gainHistory) reset() {
	h.original = h.original[:0]
	h.minimum = h.minimum[:0]
	h.smoothed = h.smoothed[:0]
	h.logOriginal = h.logOriginal[:0]
	h.logMinimum = h.logMinimum[:0]
	h.logSmoothed = h.logSmoothed[:0]
}
