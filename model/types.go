// SPDX-License-Identifier: MIT
// Package model - entity types.

package model

import (
	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/variable"
)

// Arena ids. An id is the entity's index in its Model slice.
type (
	EventID      int
	DateID       int
	PhaseID      int
	ConstraintID int
)

// Settings is the study period and display format.
type Settings struct {
	TMin, TMax float64 // study period, engine time
	Step       float64 // calibration grid step
	Format     variable.DateFormat
}

// Grid returns the calibration grid of the study period.
func (s Settings) Grid() likelihood.Grid {
	return likelihood.Grid{TMin: s.TMin, TMax: s.TMax, Step: s.Step}
}

// EventType distinguishes dated events from bounds.
type EventType int

const (
	// EventDefault is dated by its Dates.
	EventDefault EventType = iota
	// EventBound has a known position, fixed or uniform in a range.
	EventBound
)

// BoundKind selects the prior of a bound event.
type BoundKind int

const (
	BoundFixed BoundKind = iota
	BoundUniform
)

// Event is a dated event or a bound.
type Event struct {
	ID     EventID
	Name   string
	Type   EventType
	Method sampler.EventMethod

	// Bound prior, used when Type is EventBound.
	Bound              BoundKind
	Fixed              float64
	BoundMin, BoundMax float64

	Dates  []DateID
	Phases []PhaseID

	Theta variable.MHVariable
	S02   float64 // harmonic mean of the date variances
}

// DeltaType selects the wiggle-matching offset prior of a date.
type DeltaType int

const (
	DeltaNone DeltaType = iota
	DeltaFixed
	DeltaRange
	DeltaGaussian
)

// Date is one measurement of an Event.
type Date struct {
	ID     DateID
	Name   string
	Event  EventID
	Plugin likelihood.Plugin
	Data   likelihood.Data
	Method sampler.Method

	DeltaType                DeltaType
	DeltaFixed               float64
	DeltaMin, DeltaMax       float64
	DeltaAverage, DeltaError float64
	Delta                    float64 // current offset

	Ti     variable.MHVariable // calendar date of the sample
	Sigma  variable.MHVariable // individual standard deviation
	Wiggle variable.Variable   // ti + delta

	Calibration    likelihood.Calibration
	CalibrationErr error
}

// TauType selects the maximum-duration prior of a phase.
type TauType int

const (
	TauUnknown TauType = iota
	TauFixed
	TauRange
)

// Phase groups events.
type Phase struct {
	ID     PhaseID
	Name   string
	Events []EventID

	TauType        TauType
	TauFixed       float64
	TauMin, TauMax float64
	Tau            float64 // current maximum duration; +Inf when unknown

	Forward  []ConstraintID // constraints leaving this phase
	Backward []ConstraintID // constraints entering this phase

	Alpha    variable.Variable // earliest member theta
	Beta     variable.Variable // latest member theta
	Duration variable.Variable // Beta − Alpha

	TimeRange posterior.Interval
}

// GammaType selects the minimum-hiatus prior of a constraint.
type GammaType int

const (
	GammaUnknown GammaType = iota
	GammaFixed
	GammaRange
)

// Constraint orders two phases: From precedes To by at least Gamma.
type Constraint struct {
	ID       ConstraintID
	From, To PhaseID

	GammaType          GammaType
	GammaFixed         float64
	GammaMin, GammaMax float64
	Gamma              float64 // current hiatus

	Gap posterior.Interval
}

// Substitution records a date whose method was replaced at initialization.
type Substitution struct {
	Date     DateID
	From, To sampler.Method
}
