// SPDX-License-Identifier: EPL-2.0

package engine

import "math"

// gaussianFilter is the second stage of the gain smoothing chain: a
// fixed-size symmetric FIR with normalized Gaussian-shaped weights,
// applied to the minimum-filtered gain history to remove the remaining
// high-frequency jitter without reintroducing the minimum filter's
// discontinuities.
type gaussianFilter struct {
	size    int
	weights []float64
}

// newGaussianFilter builds a filter of the given size (must be odd) and
// standard deviation sigma. Weights are the sampled Gaussian kernel,
// renormalized so they sum to exactly 1.
func newGaussianFilter(size int, sigma float64) *gaussianFilter {
	weights := make([]float64, size)
	c1 := 1.0 / (sigma * math.Sqrt(2.0*math.Pi))
	c2 := 2.0 * sigma * sigma
	center := size / 2

	total := 0.0
	for i := 0; i < size; i++ {
		x := float64(i - center)
		w := c1 * math.Exp(-(x*x)/c2)
		weights[i] = w
		total += w
	}
	for i := range weights {
		weights[i] /= total
	}

	return &gaussianFilter{size: size, weights: weights}
}

// apply returns the weighted sum of values against the filter's
// precomputed weights. values must have exactly size elements.
func (g *gaussianFilter) apply(values []float64) float64 {
	sum := 0.0
	for i, w := range g.weights {
		sum += w * values[i]
	}
	return sum
}
