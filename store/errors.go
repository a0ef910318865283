// SPDX-License-Identifier: MIT
// Package store - sentinel errors.

package store

import "errors"

// ErrNotFound is returned when a run or variable does not exist.
var ErrNotFound = errors.New("store: not found")
