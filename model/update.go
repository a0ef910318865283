// SPDX-License-Identifier: MIT
// Package model - one MCMC iteration.
//
// Per event, per date: delta, ti, sigma_i, wiggle; then the event's theta;
// then the event's phases. After every event: phase memos, then constraint
// gammas. Cancellation is polled before each date, event and phase.

package model

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/sampler"
)

// SigmaFloor is the smallest individual standard deviation of a date.
const SigmaFloor = 1e-6

// Iterate performs one full update of every latent variable. Values are
// memoized when sc.Memo is set. Returns ctx.Err() when cancelled and the
// sampler's error when a rejection sampler gives up.
func (m *Model) Iterate(ctx context.Context, sc *sampler.Context) error {
	var i int
	for i = range m.Events {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := &m.Events[i]
		for _, did := range e.Dates {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := m.updateDate(&m.Dates[did], e, sc); err != nil {
				return err
			}
		}
		if err := m.updateTheta(e, sc); err != nil {
			return err
		}
		for _, p := range e.Phases {
			m.updateExtent(&m.Phases[p])
		}
	}
	for i = range m.Phases {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.updatePhase(&m.Phases[i], sc)
	}
	for i = range m.Constraints {
		m.updateGamma(&m.Constraints[i], sc)
	}
	return nil
}

// dateLogTarget is log p(ti | rest) up to a constant:
// log L(ti) − (ti + δ − θ)² / 2σ².
func dateLogTarget(d *Date, theta float64) sampler.LogDensity {
	v := d.Sigma.X * d.Sigma.X
	return func(x float64) float64 {
		l := d.Plugin.Likelihood(x, d.Data)
		if !(l > 0) {
			return math.Inf(-1)
		}
		r := x + d.Delta - theta
		return math.Log(l) - r*r/(2*v)
	}
}

// updateDate moves delta, ti, sigma_i and the wiggle position of d.
func (m *Model) updateDate(d *Date, e *Event, sc *sampler.Context) error {
	theta := e.Theta.X
	if err := m.updateDelta(d, theta, sc); err != nil {
		return err
	}

	x, ratio := m.dateProposer(d, e).Propose(d.Ti.X, sc.Rand)
	d.Ti.TryUpdate(x, ratio, sc)

	m.updateSigma(d, e, sc)

	d.Wiggle.X = d.Ti.X + d.Delta
	if sc.Memo {
		d.Ti.Memo()
		d.Ti.MemoRate()
		d.Sigma.Memo()
		d.Sigma.MemoRate()
		d.Wiggle.Memo()
	}
	return nil
}

// dateProposer builds the proposal strategy of d's method for this step.
func (m *Model) dateProposer(d *Date, e *Event) sampler.Proposer {
	target := dateLogTarget(d, e.Theta.X)
	switch d.Method {
	case sampler.MethodInversion:
		return sampler.Inversion{Repartition: d.Calibration.Repartition}
	case sampler.MethodIndependentMH:
		mu, sd := e.Theta.X-d.Delta, d.Sigma.X
		return sampler.IndependentMH{
			Target: target,
			Draw:   func(r *rand.Rand) float64 { return mu + sd*r.NormFloat64() },
			LogDensity: func(x float64) float64 {
				z := (x - mu) / sd
				return -z * z / 2
			},
		}
	case sampler.MethodSymmetricMH:
		return sampler.SymmetricMH{Target: target, Width: d.Ti.SigmaMH}
	default:
		return sampler.AdaptiveGaussMH{Target: target, Sigma: d.Ti.SigmaMH}
	}
}

// updateDelta draws the wiggle offset from its full conditional.
// wiggle = ti + δ ~ N(θ, σ²) gives δ | rest ~ N(θ − ti, σ²).
func (m *Model) updateDelta(d *Date, theta float64, sc *sampler.Context) error {
	switch d.DeltaType {
	case DeltaNone:
		d.Delta = 0
	case DeltaFixed:
		d.Delta = d.DeltaFixed
	case DeltaRange:
		x, err := sampler.GaussByDoubleExp(theta-d.Ti.X, d.Sigma.X, d.DeltaMin, d.DeltaMax, sc.Rand)
		if err != nil {
			return fmt.Errorf("date %q delta: %w", d.Name, err)
		}
		d.Delta = x
	case DeltaGaussian:
		w1 := 1 / (d.DeltaError * d.DeltaError)
		w2 := 1 / (d.Sigma.X * d.Sigma.X)
		mu := (d.DeltaAverage*w1 + (theta-d.Ti.X)*w2) / (w1 + w2)
		d.Delta = mu + sc.Rand.NormFloat64()/math.Sqrt(w1+w2)
	}
	return nil
}

// updateSigma moves σ_i by a log10 random walk on the variance V = σ².
// The prior is the uniform shrinkage S02/(S02+V)²; the ratio includes the
// Jacobian V2/V1 of the log-scale proposal.
func (m *Model) updateSigma(d *Date, e *Event, sc *sampler.Context) {
	v1 := d.Sigma.X * d.Sigma.X
	v2 := math.Pow(10, math.Log10(v1)+d.Sigma.SigmaMH*sc.Rand.NormFloat64())
	r := d.Ti.X + d.Delta - e.Theta.X
	lambda := r * r / 2
	s02 := e.S02
	q := (s02 + v1) / (s02 + v2)
	ratio := math.Exp(lambda*(v2-v1)/(v1*v2)) * math.Sqrt(v1/v2) * q * q * v2 / v1
	d.Sigma.TryUpdate(math.Sqrt(v2), ratio, sc)
	if d.Sigma.X < SigmaFloor {
		m.logger.Debug("sigma floored",
			zap.String("date", d.Name),
			zap.Float64("sigma", d.Sigma.X))
		d.Sigma.X = SigmaFloor
	}
}

// thetaConditional returns the mean and standard deviation of the Gaussian
// full conditional of θ: weights 1/σ_i² on the wiggle positions.
func (m *Model) thetaConditional(e *Event) (mu, sd float64) {
	var sw, swx float64
	for _, did := range e.Dates {
		d := &m.Dates[did]
		w := 1 / (d.Sigma.X * d.Sigma.X)
		sw += w
		swx += w * (d.Ti.X + d.Delta)
	}
	return swx / sw, 1 / math.Sqrt(sw)
}

// updateTheta draws θ of e with its configured method.
func (m *Model) updateTheta(e *Event, sc *sampler.Context) error {
	lo, hi := m.ThetaBounds(e.ID, nil)
	switch {
	case e.Type == EventBound && e.Bound == BoundFixed:
		e.Theta.X = e.Fixed
	case e.Type == EventBound:
		a, b := math.Max(lo, e.BoundMin), math.Min(hi, e.BoundMax)
		if a <= b {
			e.Theta.X = sampler.Uniform(a, b, sc.Rand)
		}
	case lo > hi:
		// Neighbours crossed; keep θ until they move apart.
		e.Theta.TryUpdate(e.Theta.X, 0, sc)
	default:
		mu, sd := m.thetaConditional(e)
		switch e.Method {
		case sampler.EventDoubleExp:
			x, err := sampler.GaussByDoubleExp(mu, sd, lo, hi, sc.Rand)
			if err != nil {
				return fmt.Errorf("event %q theta: %w", e.Name, err)
			}
			e.Theta.TryUpdate(x, 1, sc)
		case sampler.EventBoxMuller:
			x, err := sampler.GaussByBoxMuller(mu, sd, lo, hi, sc.Rand)
			if err != nil {
				return fmt.Errorf("event %q theta: %w", e.Name, err)
			}
			e.Theta.TryUpdate(x, 1, sc)
		default:
			target := func(x float64) float64 {
				if x < lo || x > hi {
					return math.Inf(-1)
				}
				z := (x - mu) / sd
				return -z * z / 2
			}
			p := sampler.AdaptiveGaussMH{Target: target, Sigma: e.Theta.SigmaMH}
			x, ratio := p.Propose(e.Theta.X, sc.Rand)
			e.Theta.TryUpdate(x, ratio, sc)
		}
	}
	if sc.Memo {
		e.Theta.Memo()
		e.Theta.MemoRate()
	}
	return nil
}

// updateExtent recomputes alpha, beta and duration of p.
func (m *Model) updateExtent(p *Phase) {
	first, last, n := m.phaseExtent(p.ID, -1, nil)
	if n == 0 {
		return
	}
	p.Alpha.X, p.Beta.X = first, last
	p.Duration.X = last - first
}

// updatePhase refreshes the extent and tau of p and memoizes it.
func (m *Model) updatePhase(p *Phase, sc *sampler.Context) {
	m.updateExtent(p)
	switch p.TauType {
	case TauFixed:
		p.Tau = p.TauFixed
	case TauRange:
		lo := math.Max(p.TauMin, p.Duration.X)
		if lo < p.TauMax {
			p.Tau = sampler.Uniform(lo, p.TauMax, sc.Rand)
		} else {
			p.Tau = p.TauMax
		}
	default:
		p.Tau = math.Inf(1)
	}
	if sc.Memo {
		p.Alpha.Memo()
		p.Beta.Memo()
		p.Duration.Memo()
	}
}

// updateGamma refreshes the hiatus of c:
// range gamma ~ U[γmin, min(γmax, α(To) − β(From))].
func (m *Model) updateGamma(c *Constraint, sc *sampler.Context) {
	switch c.GammaType {
	case GammaFixed:
		c.Gamma = c.GammaFixed
	case GammaRange:
		hi := math.Min(c.GammaMax, m.Phases[c.To].Alpha.X-m.Phases[c.From].Beta.X)
		if hi > c.GammaMin {
			c.Gamma = sampler.Uniform(c.GammaMin, hi, sc.Rand)
		} else {
			c.Gamma = c.GammaMin
		}
	default:
		c.Gamma = 0
	}
}
