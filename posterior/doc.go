// SPDX-License-Identifier: MIT

// Package posterior turns raw MCMC traces into the quantities a chronologist
// reads: density curves, highest-posterior-density regions, credibility
// intervals, quantiles, time ranges, gaps and autocorrelations.
//
// 🚀 What is in here?
//
//   - Curve: a function sampled at increasing positions (area, cumulative,
//     inverse sampling, restriction, normalization).
//   - Quantile: the nine Hyndman–Fan conventions used by R (types 1..9).
//   - Density: FFT kernel density estimate with Silverman's bandwidth,
//     clipped to the variable's support and normalized to area 1.
//   - HPDRegion / HPDIntervals: height-thresholded region and its intervals.
//   - CredibilityInterval: shortest window of a sorted trace.
//   - TimeRange / GapRange: joint ranges between two paired traces.
//   - Autocorrelation: per-lag correlation of an acquisition trace.
//
// ⚙️ Usage:
//
//	opts := posterior.DefaultDensityOptions()
//	curve, err := posterior.Density(trace, opts)
//	hpd := posterior.HPDRegion(curve, 95)
//	cred := posterior.CredibilityInterval(trace, 95)
//
// Determinism:
//
//	Every routine is pure: same input ⇒ same output. Nothing here draws
//	random numbers.
//
// Edge cases are values, not errors: an empty curve has stddev −1, a
// degenerate credibility window is EmptyInterval, an invalid range search
// is Unbounded.
package posterior
