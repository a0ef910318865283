// SPDX-License-Identifier: MIT
// Package posterior: sentinel errors.
//
// Callers MUST match with errors.Is. Numeric edge cases (empty curves,
// degenerate intervals) are reported through sentinel VALUES instead and
// never surface here.

package posterior

import "errors"

var (
	// ErrEmptyTrace is returned when a routine needs at least one sample.
	ErrEmptyTrace = errors.New("posterior: empty trace")

	// ErrBadProbability indicates a probability outside [0,1].
	ErrBadProbability = errors.New("posterior: probability out of range")

	// ErrBadQuantileType indicates a quantile convention outside 1..9.
	ErrBadQuantileType = errors.New("posterior: unknown quantile type")

	// ErrBadFFTLength indicates an FFT length smaller than 2.
	ErrBadFFTLength = errors.New("posterior: fft length must be >= 2")

	// ErrBadBandwidth indicates a non-positive bandwidth factor.
	ErrBadBandwidth = errors.New("posterior: bandwidth must be > 0")
)
