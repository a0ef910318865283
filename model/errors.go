// SPDX-License-Identifier: MIT
// Package model: sentinel errors. Match with errors.Is.

package model

import "errors"

var (
	// ErrInvalidModel wraps every configuration problem found by Validate.
	ErrInvalidModel = errors.New("model: invalid model")

	// ErrCycle indicates phase constraints that loop back on themselves.
	ErrCycle = errors.New("model: phase constraints form a cycle")

	// ErrUnknownID indicates an id that does not address an arena entry.
	ErrUnknownID = errors.New("model: unknown id")

	// ErrInit indicates a latent variable that has no admissible start value.
	ErrInit = errors.New("model: initialization failed")
)
