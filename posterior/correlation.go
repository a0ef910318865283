// SPDX-License-Identifier: MIT
// Package: posterior
//
// correlation.go — autocorrelation of an acquisition trace.

package posterior

import "gonum.org/v1/gonum/stat"

// AutocorrelationLags is the number of lags computed per chain.
const AutocorrelationLags = 40

// Autocorrelation returns ρ(h) for h ∈ [0, lags):
//
//	ρ(h) = Σ (x_i − m)(x_{i+h} − m) / Σ (x_i − m)²
//
// Traces shorter than lags yield nil. A constant trace yields ρ(0)=1 and
// zeros elsewhere.
//
// Complexity: O(n · lags).
func Autocorrelation(trace []float64, lags int) []float64 {
	n := len(trace)
	if lags <= 0 || n < lags {
		return nil
	}

	var (
		mean  = stat.Mean(trace, nil)
		denom float64
		d     float64
		i, h  int
	)
	for i = 0; i < n; i++ {
		d = trace[i] - mean
		denom += d * d
	}

	out := make([]float64, lags)
	if denom == 0 {
		out[0] = 1
		return out
	}
	var num float64
	for h = 0; h < lags; h++ {
		num = 0
		for i = 0; i+h < n; i++ {
			num += (trace[i] - mean) * (trace[i+h] - mean)
		}
		out[h] = num / denom
	}
	return out
}
