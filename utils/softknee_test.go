// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		threshold float64
		val       float64
		want      float64
		tolerance float64
	}{
		{name: "zero input", threshold: 10.0, val: 0.0, want: 0.0, tolerance: 1e-9},
		{name: "small value near-linear", threshold: 10.0, val: 0.1, want: 0.1, tolerance: 0.01},
		{name: "value equal to threshold", threshold: 5.0, val: 5.0, want: 5.0 * math.Erf(math.Sqrt(math.Pi)/2.0), tolerance: 1e-9},
		{name: "value far beyond threshold approaches threshold", threshold: 2.0, val: 1000.0, want: 2.0, tolerance: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Bound(tt.threshold, tt.val)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("Bound(%v, %v) = %v, want %v (±%v)", tt.threshold, tt.val, got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestBound_NeverExceedsThreshold(t *testing.T) {
	t.Parallel()

	threshold := 7.5
	for _, val := range []float64{0, 0.5, 1, 5, 7.5, 10, 100, 1e6} {
		if got := Bound(threshold, val); got > threshold {
			t.Errorf("Bound(%v, %v) = %v exceeds threshold", threshold, val, got)
		}
	}
}

func TestInverseBound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target float64
	}{
		{name: "near zero", target: 1e-10},
		{name: "small target", target: 0.1},
		{name: "mid-range target", target: 0.5},
		{name: "high target", target: 0.9},
		{name: "near one", target: 1.0 - 1e-10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			threshold := InverseBound(tt.target)
			got := Bound(threshold, 1.0)
			if math.Abs(got-tt.target) > 1e-4 {
				t.Errorf("Bound(InverseBound(%v), 1.0) = %v, want ~%v", tt.target, got, tt.target)
			}
		})
	}
}
