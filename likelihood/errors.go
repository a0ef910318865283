// SPDX-License-Identifier: MIT
// Package likelihood: sentinel errors. Match with errors.Is.

package likelihood

import "errors"

var (
	// ErrUnknownPlugin indicates a plugin id missing from the Registry.
	ErrUnknownPlugin = errors.New("likelihood: unknown plugin")

	// ErrDuplicatePlugin indicates a second registration of the same id.
	ErrDuplicatePlugin = errors.New("likelihood: plugin already registered")

	// ErrBadData indicates date data a plugin cannot evaluate.
	ErrBadData = errors.New("likelihood: invalid date data")

	// ErrBadGrid indicates a study grid with tmin >= tmax or step <= 0.
	ErrBadGrid = errors.New("likelihood: invalid calibration grid")

	// ErrEmptyCalibration indicates a likelihood that vanishes on the grid.
	ErrEmptyCalibration = errors.New("likelihood: calibration curve is empty")
)
