// SPDX-License-Identifier: MIT
// Package model - starting values of a chain.

package model

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/sampler"
)

// SigmaKernel labels the log10 random walk used for every date sigma.
const SigmaKernel = "MH: proposal = adapt. Gaussian random walk on log10(variance)"

// InitReport is the by-product of Initialize.
type InitReport struct {
	Log           string
	Substitutions []Substitution
}

// Initialize gives every latent variable a starting value consistent with
// the constraints: gammas and taus first, then bound events, then dated
// events in phase order, each followed by its dates. Dates using inversion
// without a usable calibration switch to adaptive Gaussian MH.
//
// Returns ErrInit when an event has an empty admissible interval, or
// ctx.Err() when cancelled.
func (m *Model) Initialize(ctx context.Context, sc *sampler.Context) (InitReport, error) {
	var (
		rep InitReport
		log strings.Builder
	)
	order, err := m.PhaseOrder(ctx)
	if err != nil {
		return rep, err
	}

	for i := range m.Constraints {
		c := &m.Constraints[i]
		switch c.GammaType {
		case GammaFixed:
			c.Gamma = c.GammaFixed
		case GammaRange:
			c.Gamma = c.GammaMin
		default:
			c.Gamma = 0
		}
	}
	for i := range m.Phases {
		p := &m.Phases[i]
		switch p.TauType {
		case TauFixed:
			p.Tau = p.TauFixed
		case TauRange:
			p.Tau = p.TauMax
		default:
			p.Tau = math.Inf(1)
		}
	}

	seq := m.eventSequence(order)
	known := make(map[EventID]bool, len(m.Events))
	for _, pass := range []EventType{EventBound, EventDefault} {
		for _, id := range seq {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			e := &m.Events[id]
			if e.Type != pass {
				continue
			}
			if err := m.initTheta(e, known, sc); err != nil {
				return rep, err
			}
			known[id] = true
			fmt.Fprintf(&log, "event %q: theta = %g\n", e.Name, e.Theta.X)
			if e.Type == EventDefault {
				m.initDates(e, sc, &rep, &log)
			}
		}
	}

	for i := range m.Phases {
		p := &m.Phases[i]
		m.updateExtent(p)
		fmt.Fprintf(&log, "phase %q: alpha = %g, beta = %g, tau = %g\n", p.Name, p.Alpha.X, p.Beta.X, p.Tau)
	}
	rep.Log = log.String()
	return rep, nil
}

// eventSequence lists events by phase order, then events outside phases.
func (m *Model) eventSequence(order []PhaseID) []EventID {
	seen := make([]bool, len(m.Events))
	out := make([]EventID, 0, len(m.Events))
	for _, p := range order {
		for _, e := range m.Phases[p].Events {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	for i := range m.Events {
		if !seen[i] {
			out = append(out, EventID(i))
		}
	}
	return out
}

// initTheta places θ of e inside its bounds given the known events.
// Dated events start from the average of one draw per usable calibration.
func (m *Model) initTheta(e *Event, known map[EventID]bool, sc *sampler.Context) error {
	lo, hi := m.ThetaBounds(e.ID, known)
	if e.Type == EventBound {
		e.Theta.Kernel = "bound"
		if e.Bound == BoundFixed {
			e.Theta.X = e.Fixed
			return nil
		}
		lo, hi = math.Max(lo, e.BoundMin), math.Min(hi, e.BoundMax)
	}
	if lo > hi {
		return fmt.Errorf("event %q: interval [%g, %g] is empty: %w", e.Name, lo, hi, ErrInit)
	}
	if e.Type == EventBound {
		e.Theta.X = sampler.Uniform(lo, hi, sc.Rand)
		return nil
	}

	var sum float64
	var n int
	for _, did := range e.Dates {
		if c := m.Dates[did].Calibration; c.Usable() {
			sum += posterior.InverseCumulative(c.Repartition, sc.Rand.Float64())
			n++
		}
	}
	x := math.NaN()
	if n > 0 {
		x = sum / float64(n)
	}
	if !(x >= lo && x <= hi) {
		x = sampler.Uniform(lo, hi, sc.Rand)
	}
	e.Theta.X = x
	e.Theta.Kernel = e.Method.Label()
	return nil
}

// initDates seeds delta, ti and sigma of every date of e, then S02 and the
// proposal widths.
func (m *Model) initDates(e *Event, sc *sampler.Context, rep *InitReport, log *strings.Builder) {
	span := m.Settings.TMax - m.Settings.TMin
	var inv float64
	for _, did := range e.Dates {
		d := &m.Dates[did]
		switch d.DeltaType {
		case DeltaFixed:
			d.Delta = d.DeltaFixed
		case DeltaRange:
			d.Delta = sampler.Uniform(d.DeltaMin, d.DeltaMax, sc.Rand)
		case DeltaGaussian:
			d.Delta = d.DeltaAverage + d.DeltaError*sc.Rand.NormFloat64()
		default:
			d.Delta = 0
		}

		var variance float64
		if c := d.Calibration; c.Usable() {
			d.Ti.X = posterior.InverseCumulative(c.Repartition, sc.Rand.Float64())
			d.Sigma.X = math.Sqrt(c.Variance)
			variance = c.Variance
		} else {
			if d.Method == sampler.MethodInversion {
				rep.Substitutions = append(rep.Substitutions, Substitution{
					Date: d.ID, From: d.Method, To: sampler.MethodAdaptiveGaussMH,
				})
				m.logger.Warn("no usable calibration, switching method",
					zap.String("date", d.Name),
					zap.Stringer("from", d.Method),
					zap.Stringer("to", sampler.MethodAdaptiveGaussMH))
				d.Method = sampler.MethodAdaptiveGaussMH
			}
			// Symmetric Gaussian draw mirrored outside the study period.
			z := sc.Rand.NormFloat64()
			if z < 0 {
				d.Ti.X = m.Settings.TMin + z*span
			} else {
				d.Ti.X = m.Settings.TMax + z*span
			}
			d.Sigma.X = math.Abs(d.Ti.X - (e.Theta.X - d.Delta))
		}
		if d.Sigma.X < SigmaFloor {
			m.logger.Debug("sigma floored", zap.String("date", d.Name), zap.Float64("sigma", d.Sigma.X))
			d.Sigma.X = SigmaFloor
		}
		if !(variance > 0) {
			variance = d.Sigma.X * d.Sigma.X
		}
		inv += 1 / variance
		d.Wiggle.X = d.Ti.X + d.Delta
		d.Ti.Kernel = d.Method.Label()
		d.Sigma.Kernel = SigmaKernel
		d.Sigma.SigmaMH = 1
		fmt.Fprintf(log, "  date %q: ti = %g, sigma = %g, delta = %g\n", d.Name, d.Ti.X, d.Sigma.X, d.Delta)
	}

	e.S02 = float64(len(e.Dates)) / inv
	e.Theta.SigmaMH = math.Sqrt(e.S02)
	for _, did := range e.Dates {
		m.Dates[did].Ti.SigmaMH = e.Theta.SigmaMH
	}
	fmt.Fprintf(log, "  S02 = %g\n", e.S02)
}
