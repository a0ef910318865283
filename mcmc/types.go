// SPDX-License-Identifier: MIT
// Package mcmc - chain specification, states and report.

package mcmc

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/variable"
)

// ChainSpec describes one chain. BatchesUsed is filled in by the controller.
type ChainSpec = variable.Chain

// State is the stage the controller is in.
type State int

const (
	StateIdle State = iota
	StateCalibrating
	StateInitializing
	StateBurning
	StateAdapting
	StateRunning
	StateFinished
	StateAborted
)

var stateNames = [...]string{
	StateIdle:         "idle",
	StateCalibrating:  "calibrating",
	StateInitializing: "initializing",
	StateBurning:      "burning",
	StateAdapting:     "adapting",
	StateRunning:      "running",
	StateFinished:     "finished",
	StateAborted:      "aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Status is how a run ended when it did not fail.
type Status int

const (
	StatusFinished Status = iota
	// StatusAborted means the context was cancelled. Traces hold whatever
	// was memoized before.
	StatusAborted
)

func (s Status) String() string {
	if s == StatusAborted {
		return "aborted by user"
	}
	return "finished"
}

// Report summarizes a run.
type Report struct {
	Status Status
	// State is the last state entered; StateFinished on success.
	State State
	// Chains holds the specs with BatchesUsed filled in, one per started chain.
	Chains []ChainSpec
	// FailedDates lists dates whose calibration failed.
	FailedDates []model.DateID
	// Substitutions lists dates switched away from inversion at init.
	Substitutions []model.Substitution
	// InitLogs holds one initialization log per started chain.
	InitLogs []string
}

// ValidateChains checks every spec and joins the problems, each wrapping
// ErrInvalidChain.
func ValidateChains(chains []ChainSpec) error {
	if len(chains) == 0 {
		return ErrNoChains
	}
	var errs []error
	bad := func(i int, format string, args ...any) {
		errs = append(errs, fmt.Errorf("chain %d: %s: %w", i, fmt.Sprintf(format, args...), ErrInvalidChain))
	}
	for i, c := range chains {
		if c.Burn < 0 {
			bad(i, "burn %d < 0", c.Burn)
		}
		if c.BatchSize < 1 {
			bad(i, "batch size %d < 1", c.BatchSize)
		}
		if c.MaxBatches < 0 {
			bad(i, "max batches %d < 0", c.MaxBatches)
		}
		if c.Thinning < 1 {
			bad(i, "thinning %d < 1", c.Thinning)
		} else if c.Run < c.Thinning {
			bad(i, "run %d yields no sample with thinning %d", c.Run, c.Thinning)
		}
	}
	return errors.Join(errs...)
}
