// SPDX-License-Identifier: EPL-2.0

package engine

// minimumFilter returns the smallest value in values. It is the first
// stage of the gain smoothing chain: applied to a sliding window of raw
// per-frame gains, it guarantees the smoothed gain trajectory never rises
// above what every frame in the window can safely tolerate, so a single
// quiet frame's headroom can't be squandered by its louder neighbors.
func minimumFilter(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
