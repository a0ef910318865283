// SPDX-License-Identifier: MIT
// Package config - sentinel errors.

package config

import "errors"

var (
	// ErrInvalidStudy wraps every problem found by Study.Validate.
	ErrInvalidStudy = errors.New("config: invalid study")
	// ErrUnknownName is returned when a reference names no phase or event.
	ErrUnknownName = errors.New("config: unknown name")
)
