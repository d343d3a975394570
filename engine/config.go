// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// Config is the immutable configuration of an Engine. New stores it
// unchecked; values are validated, and the frame size and delay derived
// from them, when Initialize runs. The Engine never mutates Config.
type Config struct {
	// Channels is the channel count, 1-8.
	Channels int
	// SampleRate is the sample rate in Hz, 11025-192000.
	SampleRate int
	// FrameLenMsec is the frame length in milliseconds, 10-8000.
	FrameLenMsec int
	// FilterSize is the minimum/Gaussian filter window, odd, 3-301.
	FilterSize int
	// PeakValue is the target peak amplitude, 0.01-1.0.
	PeakValue float64
	// MaxAmplification caps the per-frame gain, 1.0-100.0.
	MaxAmplification float64
	// TargetRMS is the target RMS level, 0.0-1.0; 0 disables RMS gain.
	TargetRMS float64
	// CompressFactor is the compression factor; 0 disables compression,
	// otherwise 1.0-30.0.
	CompressFactor float64
	// ChannelsCoupled selects coupled (shared) vs. uncoupled (per-channel)
	// gain derivation.
	ChannelsCoupled bool
	// DCCorrection enables the running DC-offset estimator and subtraction.
	DCCorrection bool
	// AltBoundaryMode seeds the gain-history prefix and flush silence with
	// the first real gain/epsilon instead of 1.0/PeakValue.
	AltBoundaryMode bool
}

// DefaultConfig returns a Config with the library's historical defaults,
// matching the reference CLI front-end.
func DefaultConfig() Config {
	return Config{
		Channels:          2,
		SampleRate:        44100,
		FrameLenMsec:      500,
		FilterSize:        31,
		PeakValue:         0.95,
		MaxAmplification: 10.0,
		TargetRMS:         0.0,
		CompressFactor:    0.0,
		ChannelsCoupled:   true,
		DCCorrection:      false,
		AltBoundaryMode:   false,
	}
}

// frameSize derives N from SampleRate and FrameLenMsec: round to the
// nearest sample, then up to the next even value.
func frameSize(sampleRate, frameLenMsec int) int {
	n := int(roundFloat(float64(sampleRate) * (float64(frameLenMsec) / 1000.0)))
	if n%2 != 0 {
		n++
	}
	return n
}

func roundFloat(v float64) float64 {
	if v < 0 {
		return -roundFloat(-v)
	}
	f := float64(int64(v))
	if v-f >= 0.5 {
		f++
	}
	return f
}

// validate checks Config against the validation contract of §6: it
// rejects channel count, sample rate, and derived frame size first (the
// core API's own contract), then the surrounding configuration validator's
// extra constraints on filter size, peak, gain cap, RMS target, and
// compression factor. frameLen is the already-derived N, passed in so the
// caller doesn't need to recompute it.
func (c Config) validate(frameLen int) error {
	switch {
	case c.Channels < 1 || c.Channels > 8:
		return fmt.Errorf("%w: channels %d not in [1, 8]", ErrConfigurationInvalid, c.Channels)
	case c.SampleRate < 11025 || c.SampleRate > 192000:
		return fmt.Errorf("%w: sample rate %d not in [11025, 192000]", ErrConfigurationInvalid, c.SampleRate)
	case frameLen < 32 || frameLen > 2097152:
		return fmt.Errorf("%w: derived frame size %d not in [32, 2097152]", ErrConfigurationInvalid, frameLen)
	case c.FrameLenMsec < 10 || c.FrameLenMsec > 8000:
		return fmt.Errorf("%w: frame length %dms not in [10, 8000]", ErrConfigurationInvalid, c.FrameLenMsec)
	case c.FilterSize < 3 || c.FilterSize > 301 || c.FilterSize%2 == 0:
		return fmt.Errorf("%w: filter size %d must be odd and in [3, 301]", ErrConfigurationInvalid, c.FilterSize)
	case c.PeakValue < 0.01 || c.PeakValue > 1.0:
		return fmt.Errorf("%w: peak value %v not in [0.01, 1.0]", ErrConfigurationInvalid, c.PeakValue)
	case c.MaxAmplification < 1.0 || c.MaxAmplification > 100.0:
		return fmt.Errorf("%w: max amplification %v not in [1.0, 100.0]", ErrConfigurationInvalid, c.MaxAmplification)
	case c.TargetRMS < 0.0 || c.TargetRMS > 1.0:
		return fmt.Errorf("%w: target RMS %v not in [0.0, 1.0]", ErrConfigurationInvalid, c.TargetRMS)
	case c.CompressFactor != 0 && (c.CompressFactor < 1.0 || c.CompressFactor > 30.0):
		return fmt.Errorf("%w: compress factor %v must be 0 or in [1.0, 30.0]", ErrConfigurationInvalid, c.CompressFactor)
	}
	return nil
}
