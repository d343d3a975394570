// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"
	"testing"
)

func TestGaussianFilter_WeightsSumToOne(t *testing.T) {
	t.Parallel()

	for _, size := range []int{3, 7, 31, 101} {
		sigma := ((float64(size)/2.0)-1.0)/3.0 + 1.0/3.0
		g := newGaussianFilter(size, sigma)

		sum := 0.0
		for _, w := range g.weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("size %d: weights sum to %v, want 1.0", size, sum)
		}
	}
}

func TestGaussianFilter_ConstantInputUnchanged(t *testing.T) {
	t.Parallel()

	g := newGaussianFilter(9, 1.5)
	values := make([]float64, 9)
	for i := range values {
		values[i] = 2.5
	}
	if got := g.apply(values); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("apply(constant 2.5) = %v, want 2.5", got)
	}
}

func TestMinimumFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{1, 2, 3}, 1},
		{[]float64{3, 2, 1}, 1},
		{[]float64{0.5}, 0.5},
		{[]float64{-1, 4, -9, 2}, -9},
	}

	for _, tt := range tests {
		if got := minimumFilter(tt.values); got != tt.want {
			t.Errorf("minimumFilter(%v) = %v, want %v", tt.values, got, tt.want)
		}
	}
}
