// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

// Sentinel errors for the taxonomy described by the engine's error design:
// configuration problems are only ever surfaced from Initialize, lifecycle
// misuse and internal buffering mismatches are hard failures of the call
// that triggered them, and a broken log sink only ever downgrades to a
// warning (see logWarn in logging.go) rather than failing the caller.
var (
	// ErrConfigurationInvalid is returned by Initialize when a Config field
	// is out of its documented range.
	ErrConfigurationInvalid = errors.New("dynaudnorm: configuration invalid")

	// ErrInvalidState is returned when a method is called in the wrong
	// lifecycle phase: before Initialize, or Process after Flush without an
	// intervening Reset.
	ErrInvalidState = errors.New("dynaudnorm: invalid lifecycle state")

	// ErrBufferInsufficient indicates an internal put/get found too little
	// data or too little space. This should never occur; it signals an
	// implementation bug in the pipeline bookkeeping.
	ErrBufferInsufficient = errors.New("dynaudnorm: internal buffer mismatch")
)
