// SPDX-License-Identifier: MIT
// Package variable: sentinel errors. Match with errors.Is.

package variable

import "errors"

var (
	// ErrChainIndex indicates a chain index outside the chain list.
	ErrChainIndex = errors.New("variable: chain index out of range")

	// ErrCorrupt indicates a binary encoding that cannot be decoded.
	ErrCorrupt = errors.New("variable: corrupt encoding")

	// ErrUnknownFormat indicates a date format name that cannot be parsed.
	ErrUnknownFormat = errors.New("variable: unknown date format")
)
