// SPDX-License-Identifier: EPL-2.0

// Package engtest generates synthetic planar float64 sample buffers for
// exercising the normalization engine in tests, mirroring the fixture
// generators used to test the project's other audio sources.
package engtest

import "math"

// Silence returns n samples of silence for each of the given channels.
func Silence(channels, n int) [][]float64 {
	return Constant(channels, n, 0.0)
}

// Constant returns n samples of a fixed value for each of the given
// channels.
func Constant(channels, n int, value float64) [][]float64 {
	return Generate(channels, n, func(i, c int) float64 { return value })
}

// Sine returns n samples of a sine wave at the given frequency and
// amplitude, sampled at sampleRate, identical across every channel.
func Sine(channels, n, sampleRate int, frequency, amplitude float64) [][]float64 {
	return Generate(channels, n, func(i, c int) float64 {
		t := float64(i) / float64(sampleRate)
		return amplitude * math.Sin(2*math.Pi*frequency*t)
	})
}

// Impulse returns n samples that are silent except for one sample of the
// given amplitude at index pos, on every channel.
func Impulse(channels, n, pos int, amplitude float64) [][]float64 {
	return Generate(channels, n, func(i, c int) float64 {
		if i == pos {
			return amplitude
		}
		return 0.0
	})
}

// Generate builds an n-sample, channels-plane buffer from an arbitrary
// per-sample waveform function.
func Generate(channels, n int, waveform func(sample, channel int) float64) [][]float64 {
	planes := make([][]float64, channels)
	for c := range planes {
		plane := make([]float64, n)
		for i := range plane {
			plane[i] = waveform(i, c)
		}
		planes[c] = plane
	}
	return planes
}
