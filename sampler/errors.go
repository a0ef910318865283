// SPDX-License-Identifier: MIT
// Package sampler: sentinel errors. Match with errors.Is.

package sampler

import "errors"

var (
	// ErrNoSolution is returned when a rejection sampler exhausts MaxTrials.
	ErrNoSolution = errors.New("sampler: no solution found")

	// ErrInvalidBounds indicates min > max (or NaN bounds) for a truncated draw.
	ErrInvalidBounds = errors.New("sampler: invalid bounds")

	// ErrUnknownMethod indicates a method name that cannot be parsed.
	ErrUnknownMethod = errors.New("sampler: unknown sampling method")
)
