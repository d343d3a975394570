// SPDX-License-Identifier: EPL-2.0

// Package engine implements the streaming dynamic-range normalization core:
// a frame pipeline that buffers planar float64 samples, analyzes each
// fixed-length frame for a local gain, smooths the gain trajectory with a
// minimum filter followed by a Gaussian filter, and amplifies delayed
// frames as their smoothed gain becomes available.
//
// The engine is single-threaded and stateful: one Engine instance is owned
// by one goroutine for the lifetime of a stream. Construct with New,
// validate and allocate with Initialize, feed samples with Process, and
// drain the remaining delayed samples with Flush.
package engine
