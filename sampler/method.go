// SPDX-License-Identifier: MIT
// Package sampler - sampling-method catalogue.
//
// Date methods choose how a date's ti is moved; event methods choose how an
// event's theta is drawn from its truncated full conditional.

package sampler

import (
	"fmt"
	"strings"
)

// Method is a sampling method for a date's ti.
type Method int

const (
	// MethodInversion draws ti directly from the cumulative calibration curve.
	MethodInversion Method = iota
	// MethodIndependentMH proposes from a fixed distribution independent of ti.
	MethodIndependentMH
	// MethodSymmetricMH proposes from a fixed-width uniform window around ti.
	MethodSymmetricMH
	// MethodAdaptiveGaussMH proposes from N(ti, sigmaMH²) with adaptive sigmaMH.
	MethodAdaptiveGaussMH
)

var methodNames = map[Method]string{
	MethodInversion:       "inversion",
	MethodIndependentMH:   "mh-independent",
	MethodSymmetricMH:     "mh-symmetric",
	MethodAdaptiveGaussMH: "mh-adaptive-gauss",
}

var methodLabels = map[Method]string{
	MethodInversion:       "Inversion of the cumulative calibration curve",
	MethodIndependentMH:   "MH: proposal = prior distribution",
	MethodSymmetricMH:     "MH: proposal = uniform random walk",
	MethodAdaptiveGaussMH: "MH: proposal = adapt. Gaussian random walk",
}

// String returns the configuration name of m.
func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Label returns the human-readable proposal-kernel description.
func (m Method) Label() string {
	if s, ok := methodLabels[m]; ok {
		return s
	}
	return m.String()
}

// Adaptive reports whether the method's proposal width is tuned.
func (m Method) Adaptive() bool { return m == MethodAdaptiveGaussMH }

// ParseMethod maps a configuration name to a Method.
func ParseMethod(s string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range methodNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("ParseMethod(%q): %w", s, ErrUnknownMethod)
}

// EventMethod is a sampling method for an event's theta.
type EventMethod int

const (
	// EventDoubleExp draws the truncated Gaussian full conditional exactly.
	EventDoubleExp EventMethod = iota
	// EventBoxMuller draws Gaussian candidates until one falls in bounds.
	EventBoxMuller
	// EventAdaptiveGaussMH moves theta by an adaptive Gaussian random walk.
	EventAdaptiveGaussMH
)

var eventMethodNames = map[EventMethod]string{
	EventDoubleExp:       "double-exp",
	EventBoxMuller:       "box-muller",
	EventAdaptiveGaussMH: "mh-adaptive-gauss",
}

var eventMethodLabels = map[EventMethod]string{
	EventDoubleExp:       "Gibbs: truncated Gaussian (double exponential)",
	EventBoxMuller:       "Gibbs: truncated Gaussian (Box-Muller rejection)",
	EventAdaptiveGaussMH: "MH: proposal = adapt. Gaussian random walk",
}

// String returns the configuration name of m.
func (m EventMethod) String() string {
	if s, ok := eventMethodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("EventMethod(%d)", int(m))
}

// Label returns the human-readable kernel description.
func (m EventMethod) Label() string {
	if s, ok := eventMethodLabels[m]; ok {
		return s
	}
	return m.String()
}

// Adaptive reports whether the method's proposal width is tuned.
func (m EventMethod) Adaptive() bool { return m == EventAdaptiveGaussMH }

// ParseEventMethod maps a configuration name to an EventMethod.
func ParseEventMethod(s string) (EventMethod, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for m, name := range eventMethodNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("ParseEventMethod(%q): %w", s, ErrUnknownMethod)
}
