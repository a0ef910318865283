// SPDX-License-Identifier: MIT
// Package model - configuration checks run before any chain starts.

package model

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/chronolath/likelihood"
)

// Validate reports every configuration problem of m at once, joined with
// errors.Join. Each problem wraps ErrInvalidModel; cycles also wrap ErrCycle.
func (m *Model) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidModel}, args...)...))
	}

	s := m.Settings
	if !(s.TMin < s.TMax) || math.IsInf(s.TMin, 0) || math.IsInf(s.TMax, 0) {
		bad("study period [%g, %g] is empty", s.TMin, s.TMax)
	}
	if !(s.Step > 0) {
		bad("calibration step %g must be > 0", s.Step)
	}
	if len(m.Dates) == 0 {
		bad("no dates")
	}

	for i := range m.Events {
		e := &m.Events[i]
		switch e.Type {
		case EventDefault:
			if len(e.Dates) == 0 {
				bad("event %q has no dates", e.Name)
			}
		case EventBound:
			switch e.Bound {
			case BoundFixed:
				if e.Fixed < s.TMin || e.Fixed > s.TMax {
					bad("bound %q at %g is outside the study period", e.Name, e.Fixed)
				}
			case BoundUniform:
				if !(e.BoundMin < e.BoundMax) || e.BoundMin < s.TMin || e.BoundMax > s.TMax {
					bad("bound %q range [%g, %g] is empty or outside the study period", e.Name, e.BoundMin, e.BoundMax)
				}
			}
		}
	}

	for i := range m.Dates {
		d := &m.Dates[i]
		if d.Plugin == nil {
			bad("date %q has no plugin", d.Name)
			continue
		}
		if err := d.Plugin.Validate(d.Data); err != nil {
			bad("date %q: %v", d.Name, err)
		}
		if !likelihood.Allows(d.Plugin, d.Method) {
			bad("date %q: plugin %s does not allow method %s", d.Name, d.Plugin.ID(), d.Method)
		}
		switch d.DeltaType {
		case DeltaRange:
			if d.DeltaMin > d.DeltaMax {
				bad("date %q: wiggle range [%g, %g] is empty", d.Name, d.DeltaMin, d.DeltaMax)
			}
		case DeltaGaussian:
			if !(d.DeltaError > 0) {
				bad("date %q: wiggle error %g must be > 0", d.Name, d.DeltaError)
			}
		}
	}

	for i := range m.Phases {
		p := &m.Phases[i]
		if len(p.Events) == 0 {
			bad("phase %q has no events", p.Name)
		}
		switch p.TauType {
		case TauFixed:
			if p.TauFixed < 0 {
				bad("phase %q: tau %g must be >= 0", p.Name, p.TauFixed)
			}
		case TauRange:
			if p.TauMin < 0 || p.TauMin > p.TauMax {
				bad("phase %q: tau range [%g, %g] is invalid", p.Name, p.TauMin, p.TauMax)
			}
		}
	}

	for i := range m.Constraints {
		c := &m.Constraints[i]
		if c.From == c.To {
			bad("constraint %d links phase %q to itself", c.ID, m.Phases[c.From].Name)
		}
		switch c.GammaType {
		case GammaFixed:
			if c.GammaFixed < 0 {
				bad("constraint %d: gamma %g must be >= 0", c.ID, c.GammaFixed)
			}
		case GammaRange:
			if c.GammaMin < 0 || c.GammaMin > c.GammaMax {
				bad("constraint %d: gamma range [%g, %g] is invalid", c.ID, c.GammaMin, c.GammaMax)
			}
		}
	}

	if _, err := m.PhaseOrder(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidModel, err))
	}
	return errors.Join(errs...)
}
