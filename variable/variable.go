// SPDX-License-Identifier: MIT
// Package variable - the trace holder and its posterior analysis.

package variable

import (
	"fmt"

	"github.com/katalvlaran/chronolath/posterior"
)

// Variable is a sampled scalar with its trace and derived posterior results.
type Variable struct {
	X         float64   // current value
	Trace     []float64 // raw memoized values, engine time
	Formatted []float64 // Trace converted with Format

	Support    posterior.Support
	TMin, TMax float64 // used when Support is SupportBounded
	Format     DateFormat

	Density        posterior.Curve
	ChainDensities []posterior.Curve
	HPD            posterior.Curve
	HPDIntervals   []posterior.HPDInterval
	Credibility    posterior.Credibility
	Stats          posterior.CurveStats
	TraceStats     posterior.TraceStats
	Correlations   [][]float64 // per chain; nil for chains too short
}

// AnalysisOptions controls Analyze.
type AnalysisOptions struct {
	FFTLen       int
	Bandwidth    float64
	Threshold    float64 // HPD and credibility mass, percent
	QuantileType posterior.QuantileType
	QuartileProb float64 // Q1 at p, Q3 at 1−p
}

// DefaultAnalysisOptions returns fftLen 1024, bandwidth 1.06, threshold 95,
// quantile type 7 and quartiles at 0.25/0.75.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		FFTLen:       posterior.DefaultFFTLength,
		Bandwidth:    posterior.DefaultBandwidth,
		Threshold:    95,
		QuantileType: posterior.DefaultQuantileType,
		QuartileProb: 0.25,
	}
}

// Reset clears the trace and every derived result; X and the
// configuration (support, bounds, format) are kept.
func (v *Variable) Reset() {
	v.Trace = v.Trace[:0]
	v.Formatted = nil
	v.clearResults()
}

func (v *Variable) clearResults() {
	v.Density = nil
	v.ChainDensities = nil
	v.HPD = nil
	v.HPDIntervals = nil
	v.Credibility = posterior.Credibility{Interval: posterior.EmptyInterval}
	v.Stats = posterior.CurveStats{Std: -1}
	v.TraceStats = posterior.TraceStats{}
	v.Correlations = nil
}

// Memo appends the current value to the trace.
func (v *Variable) Memo() { v.Trace = append(v.Trace, v.X) }

// SetFormat sets the display format and recomputes the formatted trace.
func (v *Variable) SetFormat(f DateFormat) {
	v.Format = f
	if cap(v.Formatted) < len(v.Trace) {
		v.Formatted = make([]float64, len(v.Trace))
	}
	v.Formatted = v.Formatted[:len(v.Trace)]
	for i, t := range v.Trace {
		v.Formatted[i] = f.Apply(t)
	}
}

// ChainTrace returns the raw samples of chain i.
func (v *Variable) ChainTrace(chains []Chain, i int) ([]float64, error) {
	return ChainTrace(v.Trace, chains, i)
}

// RunTrace returns the raw acquisition samples of chain i.
func (v *Variable) RunTrace(chains []Chain, i int) ([]float64, error) {
	return RunTrace(v.Trace, chains, i)
}

// RunTraces returns the raw acquisition samples of every chain, concatenated.
func (v *Variable) RunTraces(chains []Chain) []float64 { return RunTraces(v.Trace, chains) }

// densityOptions maps the variable's support into display coordinates.
func (v *Variable) densityOptions(opts AnalysisOptions) posterior.DensityOptions {
	d := posterior.DefaultDensityOptions()
	if opts.FFTLen > 0 {
		d.FFTLen = opts.FFTLen
	}
	if opts.Bandwidth > 0 {
		d.Bandwidth = opts.Bandwidth
	}
	d.Support = v.Support
	lo, hi := v.Format.Apply(v.TMin), v.Format.Apply(v.TMax)
	if lo > hi {
		lo, hi = hi, lo
	}
	d.TMin, d.TMax = lo, hi
	if v.Format.Reversed() {
		d.Support = mirrorSupport(v.Support)
	}
	return d
}

// mirrorSupport swaps the half-line supports for a reversed scale.
func mirrorSupport(s posterior.Support) posterior.Support {
	switch s {
	case posterior.SupportRPlus:
		return posterior.SupportRMinus
	case posterior.SupportRMinus:
		return posterior.SupportRPlus
	case posterior.SupportRPlusStar:
		return posterior.SupportRMinusStar
	case posterior.SupportRMinusStar:
		return posterior.SupportRPlusStar
	default:
		return s
	}
}

// Analyze recomputes the formatted trace and every posterior result from
// the acquisition samples of chains. An empty acquisition trace leaves
// empty results (Stats.Std = −1) and no error.
//
// Complexity: O(n log n + fftLen log fftLen) per chain.
func (v *Variable) Analyze(chains []Chain, opts AnalysisOptions, statsOpts ...posterior.StatsOption) error {
	v.SetFormat(v.Format)
	v.clearResults()

	run := RunTraces(v.Formatted, chains)
	if len(run) == 0 {
		return nil
	}
	dopts := v.densityOptions(opts)

	var err error
	v.Density, err = posterior.Density(run, dopts)
	if err != nil {
		return fmt.Errorf("density: %w", err)
	}
	v.ChainDensities = make([]posterior.Curve, len(chains))
	var i int
	for i = range chains {
		part, _ := RunTrace(v.Formatted, chains, i)
		if v.ChainDensities[i], err = posterior.Density(part, dopts); err != nil {
			return fmt.Errorf("density of chain %d: %w", i, err)
		}
	}

	v.HPD = posterior.HPDRegion(v.Density, opts.Threshold)
	v.HPDIntervals = posterior.HPDIntervals(v.HPD, opts.Threshold)
	v.Credibility = posterior.CredibilityInterval(run, opts.Threshold)
	v.Stats = posterior.AnalyzeCurve(v.Density, statsOpts...)
	if v.TraceStats, err = posterior.AnalyzeTrace(run, opts.QuantileType, opts.QuartileProb); err != nil {
		return fmt.Errorf("trace statistics: %w", err)
	}
	return nil
}

// ComputeCorrelations fills Correlations with the autocorrelation of each
// chain's acquisition samples over posterior.AutocorrelationLags lags.
func (v *Variable) ComputeCorrelations(chains []Chain) {
	v.Correlations = make([][]float64, len(chains))
	var i int
	for i = range chains {
		part, _ := RunTrace(v.Trace, chains, i)
		v.Correlations[i] = posterior.Autocorrelation(part, posterior.AutocorrelationLags)
	}
}
