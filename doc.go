// SPDX-License-Identifier: EPL-2.0

// Package dynaudnorm provides dynamic range/loudness normalization for
// streaming and file-based audio.
//
// It wraps the lower-level engine package, which implements the actual
// frame analysis and gain-smoothing pipeline, with a convenience function
// that takes an audio.Source from the formats subpackages and produces
// normalized interleaved 16-bit PCM, mirroring this module's
// decode-then-process style.
//
// # Quick Start
//
//	decoder := wav.Decoder{}
//	src, _ := decoder.Decode(file)
//
//	cfg := dynaudnorm.DefaultConfig()
//	pcm16, rate, err := dynaudnorm.NormalizeToInt16(src, cfg, 4096)
//	if err != nil {
//	    panic(err)
//	}
//	// pcm16 now holds normalized, interleaved 16-bit PCM at rate Hz.
//
// # Gain History Diagnostics
//
// Attaching an io.Writer to an Engine via engine.SetLogWriter, before
// Initialize, causes it to emit one tab-separated row per analyzed
// frame: the raw, minimum-filtered, and Gaussian-smoothed gain for each
// channel. Useful for tuning FilterSize and PeakValue against a real
// recording.
//
// # Logging
//
// Engine warnings (a repeated Initialize, a missing smoothed gain, a
// failed gain-history log write) go through
// SetLogFunction, or to log/slog at the default handler when no function
// has been installed.
package dynaudnorm
