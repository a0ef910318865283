// SPDX-License-Identifier: MIT
// Package model - arena and builders.

package model

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/variable"
)

// Option configures a Model.
type Option func(*Model)

// WithLogger routes model notes and warnings to l. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("model: WithLogger(nil)")
	}
	return func(m *Model) { m.logger = l }
}

// Model is the arena of a study.
type Model struct {
	Settings    Settings
	Events      []Event
	Dates       []Date
	Phases      []Phase
	Constraints []Constraint

	// Chains holds the chain layout of the last run, BatchesUsed included.
	Chains []variable.Chain

	logger *zap.Logger
}

// New returns an empty model for the given study settings.
func New(s Settings, opts ...Option) *Model {
	m := &Model{Settings: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Logger returns the model's logger.
func (m *Model) Logger() *zap.Logger { return m.logger }

// AddEvent appends e and returns its id.
func (m *Model) AddEvent(e Event) EventID {
	e.ID = EventID(len(m.Events))
	e.Dates, e.Phases = nil, nil
	m.Events = append(m.Events, e)
	return e.ID
}

// AddDate attaches d to event e.
func (m *Model) AddDate(e EventID, d Date) (DateID, error) {
	if err := m.checkEvent(e); err != nil {
		return 0, err
	}
	d.ID = DateID(len(m.Dates))
	d.Event = e
	m.Dates = append(m.Dates, d)
	m.Events[e].Dates = append(m.Events[e].Dates, d.ID)
	return d.ID, nil
}

// AddPhase appends p and returns its id.
func (m *Model) AddPhase(p Phase) PhaseID {
	p.ID = PhaseID(len(m.Phases))
	p.Events, p.Forward, p.Backward = nil, nil, nil
	m.Phases = append(m.Phases, p)
	return p.ID
}

// AddToPhase makes e a member of p. Repeated calls are no-ops.
func (m *Model) AddToPhase(e EventID, p PhaseID) error {
	if err := m.checkEvent(e); err != nil {
		return err
	}
	if err := m.checkPhase(p); err != nil {
		return err
	}
	for _, x := range m.Phases[p].Events {
		if x == e {
			return nil
		}
	}
	m.Phases[p].Events = append(m.Phases[p].Events, e)
	m.Events[e].Phases = append(m.Events[e].Phases, p)
	return nil
}

// AddConstraint orders from before to.
func (m *Model) AddConstraint(from, to PhaseID, c Constraint) (ConstraintID, error) {
	if err := m.checkPhase(from); err != nil {
		return 0, err
	}
	if err := m.checkPhase(to); err != nil {
		return 0, err
	}
	c.ID = ConstraintID(len(m.Constraints))
	c.From, c.To = from, to
	m.Constraints = append(m.Constraints, c)
	m.Phases[from].Forward = append(m.Phases[from].Forward, c.ID)
	m.Phases[to].Backward = append(m.Phases[to].Backward, c.ID)
	return c.ID, nil
}

func (m *Model) checkEvent(e EventID) error {
	if e < 0 || int(e) >= len(m.Events) {
		return fmt.Errorf("event %d: %w", e, ErrUnknownID)
	}
	return nil
}

func (m *Model) checkPhase(p PhaseID) error {
	if p < 0 || int(p) >= len(m.Phases) {
		return fmt.Errorf("phase %d: %w", p, ErrUnknownID)
	}
	return nil
}

// EventByName returns the id of the first event called name.
func (m *Model) EventByName(name string) (EventID, bool) {
	for i := range m.Events {
		if m.Events[i].Name == name {
			return EventID(i), true
		}
	}
	return 0, false
}

// PhaseByName returns the id of the first phase called name.
func (m *Model) PhaseByName(name string) (PhaseID, bool) {
	for i := range m.Phases {
		if m.Phases[i].Name == name {
			return PhaseID(i), true
		}
	}
	return 0, false
}

// Reset clears every trace before a run and configures supports and
// formats. windowLen is the adaptation batch size.
func (m *Model) Reset(windowLen int) {
	s := m.Settings
	dated := func(v *variable.Variable) {
		v.Support = posterior.SupportBounded
		v.TMin, v.TMax = s.TMin, s.TMax
		v.Format = s.Format
	}
	for i := range m.Events {
		e := &m.Events[i]
		e.Theta.Reset(windowLen)
		dated(&e.Theta.Variable)
	}
	for i := range m.Dates {
		d := &m.Dates[i]
		d.Ti.Reset(windowLen)
		d.Sigma.Reset(windowLen)
		d.Wiggle.Reset()
		d.Ti.Support, d.Ti.Format = posterior.SupportR, s.Format
		d.Wiggle.Support, d.Wiggle.Format = posterior.SupportR, s.Format
		d.Sigma.Support, d.Sigma.Format = posterior.SupportRPlusStar, variable.FormatPlain
	}
	for i := range m.Phases {
		p := &m.Phases[i]
		p.Alpha.Reset()
		p.Beta.Reset()
		p.Duration.Reset()
		dated(&p.Alpha)
		dated(&p.Beta)
		p.Duration.Support, p.Duration.Format = posterior.SupportRPlus, variable.FormatPlain
		p.TimeRange = posterior.Unbounded
	}
	for i := range m.Constraints {
		m.Constraints[i].Gap = posterior.Unbounded
	}
}

// MHVariables returns every variable updated by Metropolis–Hastings moves:
// default-event thetas, date ti and date sigmas.
func (m *Model) MHVariables() []*variable.MHVariable {
	out := make([]*variable.MHVariable, 0, len(m.Events)+2*len(m.Dates))
	for i := range m.Events {
		if m.Events[i].Type == EventDefault {
			out = append(out, &m.Events[i].Theta)
		}
	}
	for i := range m.Dates {
		out = append(out, &m.Dates[i].Ti, &m.Dates[i].Sigma)
	}
	return out
}

// AdaptiveVariables returns the variables whose proposal width is tuned
// while adapting: thetas and ti using adaptive Gaussian moves, every sigma.
func (m *Model) AdaptiveVariables() []*variable.MHVariable {
	var out []*variable.MHVariable
	for i := range m.Events {
		e := &m.Events[i]
		if e.Type == EventDefault && e.Method.Adaptive() {
			out = append(out, &e.Theta)
		}
	}
	for i := range m.Dates {
		d := &m.Dates[i]
		if d.Method.Adaptive() {
			out = append(out, &d.Ti)
		}
		out = append(out, &d.Sigma)
	}
	return out
}

// Variables returns every trace holder of the model.
func (m *Model) Variables() []*variable.Variable {
	out := make([]*variable.Variable, 0, len(m.Events)+3*len(m.Dates)+3*len(m.Phases))
	for i := range m.Events {
		out = append(out, &m.Events[i].Theta.Variable)
	}
	for i := range m.Dates {
		d := &m.Dates[i]
		out = append(out, &d.Ti.Variable, &d.Sigma.Variable, &d.Wiggle)
	}
	for i := range m.Phases {
		p := &m.Phases[i]
		out = append(out, &p.Alpha, &p.Beta, &p.Duration)
	}
	return out
}

// phaseExtent returns min and max theta over the events of p, skipping
// skip (pass -1 to keep all) and, when known is non-nil, events not in it.
func (m *Model) phaseExtent(p PhaseID, skip EventID, known map[EventID]bool) (lo, hi float64, n int) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, e := range m.Phases[p].Events {
		if e == skip || (known != nil && !known[e]) {
			continue
		}
		x := m.Events[e].Theta.X
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
		n++
	}
	return lo, hi, n
}
