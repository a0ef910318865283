// SPDX-License-Identifier: MIT
// Package mcmc - sentinel errors.

package mcmc

import "errors"

var (
	// ErrNoChains is returned when a controller is given no chain.
	ErrNoChains = errors.New("mcmc: no chains")
	// ErrInvalidChain wraps every problem of a chain specification.
	ErrInvalidChain = errors.New("mcmc: invalid chain")
)
