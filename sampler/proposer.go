// SPDX-License-Identifier: MIT
// Package sampler - proposal strategies.
//
// Every method reduces to Propose(current) → (candidate, ratio); the shared
// accept rule (Accept) stays method-agnostic. Targets are given in log space
// so products of likelihoods and Gaussian terms never underflow.

package sampler

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/chronolath/posterior"
)

// LogDensity is an unnormalized log density; −Inf marks zero density.
type LogDensity func(x float64) float64

// Proposer produces a candidate and its acceptance ratio.
type Proposer interface {
	Propose(current float64, r *rand.Rand) (candidate, ratio float64)
}

// logRatio turns log densities into a ratio. A current state with zero
// density accepts any move so chains can leave impossible starting points.
func logRatio(lx, lc float64) float64 {
	if math.IsInf(lc, -1) || math.IsNaN(lc) {
		return 1
	}
	if math.IsNaN(lx) {
		return 0
	}
	return math.Exp(lx - lc)
}

// Inversion draws from a cumulative repartition by inverse transform.
// The candidate is an exact draw, so the ratio is always 1.
type Inversion struct {
	Repartition posterior.Curve
}

// Propose implements Proposer.
func (p Inversion) Propose(_ float64, r *rand.Rand) (float64, float64) {
	return posterior.InverseCumulative(p.Repartition, r.Float64()), 1
}

// IndependentMH proposes from a fixed distribution q:
// ratio = π(x)·q(current) / (π(current)·q(x)).
type IndependentMH struct {
	Target     LogDensity
	Draw       func(r *rand.Rand) float64
	LogDensity LogDensity // log q
}

// Propose implements Proposer.
func (p IndependentMH) Propose(current float64, r *rand.Rand) (float64, float64) {
	x := p.Draw(r)
	return x, logRatio(p.Target(x)+p.LogDensity(current), p.Target(current)+p.LogDensity(x))
}

// SymmetricMH proposes uniformly in [current − Width, current + Width].
type SymmetricMH struct {
	Target LogDensity
	Width  float64
}

// Propose implements Proposer.
func (p SymmetricMH) Propose(current float64, r *rand.Rand) (float64, float64) {
	x := current + p.Width*(2*r.Float64()-1)
	return x, logRatio(p.Target(x), p.Target(current))
}

// AdaptiveGaussMH proposes from N(current, Sigma²); Sigma is the variable's
// tuned sigmaMH at the time of the call.
type AdaptiveGaussMH struct {
	Target LogDensity
	Sigma  float64
}

// Propose implements Proposer.
func (p AdaptiveGaussMH) Propose(current float64, r *rand.Rand) (float64, float64) {
	x := current + p.Sigma*r.NormFloat64()
	return x, logRatio(p.Target(x), p.Target(current))
}
