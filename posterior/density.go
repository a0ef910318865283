// SPDX-License-Identifier: MIT
// Package: posterior
//
// density.go — FFT kernel density estimation.
//
// Algorithm (Silverman 1982, linear binning):
//  1. h = bandwidth · sd · n^(−1/5); span [a,b] = [min − 4h, max + 4h].
//  2. Bin the trace on fftLen equidistant positions; every sample splits its
//     weight 1/n between its two bracketing bins.
//  3. Forward real FFT, multiply coefficient k by exp(−½(2πf_k)²h²) with
//     f_k = k / (fftLen·Δ), inverse FFT.
//  4. Clip to the variable's support, then renormalize the area to exactly 1.
//
// Degenerate input (sd == 0, e.g. a fixed bound) short-circuits to a single
// point mass; no transform is run.

package posterior

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Support is the domain a variable lives on; it clips the density.
type Support int

// Supports, in the persisted tag order.
const (
	SupportR          Support = iota // (−∞, +∞)
	SupportRPlus                     // [0, +∞)
	SupportRMinus                    // (−∞, 0]
	SupportRPlusStar                 // (0, +∞)
	SupportRMinusStar                // (−∞, 0)
	SupportBounded                   // [TMin, TMax]
)

// String returns the conventional notation of the support.
func (s Support) String() string {
	switch s {
	case SupportR:
		return "R"
	case SupportRPlus:
		return "R+"
	case SupportRMinus:
		return "R-"
	case SupportRPlusStar:
		return "R+*"
	case SupportRMinusStar:
		return "R-*"
	case SupportBounded:
		return "bounded"
	default:
		return fmt.Sprintf("Support(%d)", int(s))
	}
}

// Density defaults.
const (
	DefaultFFTLength = 1024
	DefaultBandwidth = 1.06
)

// DensityOptions configures Density.
type DensityOptions struct {
	// FFTLen is the number of grid positions (≥ 2). Powers of two are fastest.
	FFTLen int
	// Bandwidth multiplies Silverman's rule-of-thumb width.
	Bandwidth float64
	// Support clips the estimate; TMin/TMax are used by SupportBounded.
	Support    Support
	TMin, TMax float64
	// Offset moves every output position. Traces recorded relative to the
	// study start use Offset = study tmin.
	Offset float64
}

// DefaultDensityOptions returns FFTLen=1024, Bandwidth=1.06 on R.
func DefaultDensityOptions() DensityOptions {
	return DensityOptions{FFTLen: DefaultFFTLength, Bandwidth: DefaultBandwidth, Support: SupportR}
}

// Density estimates the posterior density of trace.
//
// Returns an empty curve for an empty trace and a single point
// {trace[0]+Offset, 1} when every sample is identical. A bounded support
// that overlaps the samples but holds no grid point gives a single point
// at the sample mean clamped to the support.
//
// Errors:
//   - ErrBadFFTLength if opts.FFTLen < 2.
//   - ErrBadBandwidth if opts.Bandwidth <= 0.
//
// Complexity: O(n + L log L) with L = FFTLen.
func Density(trace []float64, opts DensityOptions) (Curve, error) {
	if opts.FFTLen < 2 {
		return nil, fmt.Errorf("Density(fftLen=%d): %w", opts.FFTLen, ErrBadFFTLength)
	}
	if !(opts.Bandwidth > 0) {
		return nil, fmt.Errorf("Density(bandwidth=%g): %w", opts.Bandwidth, ErrBadBandwidth)
	}
	if len(trace) == 0 {
		return Curve{}, nil
	}

	sd := traceStdDev(trace)
	if sd == 0 {
		return Curve{{T: trace[0] + opts.Offset, Y: 1}}, nil
	}

	var (
		n     = float64(len(trace))
		size  = opts.FFTLen
		h     = opts.Bandwidth * sd * math.Pow(n, -0.2)
		a     = floats.Min(trace) - 4*h
		b     = floats.Max(trace) + 4*h
		delta = (b - a) / float64(size-1)
	)

	// Stage 1: linear binning.
	input := make([]float64, size)
	var (
		idx, lo float64
		k       int
	)
	for _, t := range trace {
		idx = (t - a) / delta
		lo = math.Floor(idx)
		k = int(lo)
		input[k] += (lo + 1 - idx) / n
		if k+1 < size {
			input[k+1] += (idx - lo) / n
		}
	}

	// Stage 2: smooth in the frequency domain.
	fft := fourier.NewFFT(size)
	coeff := fft.Coefficients(nil, input)
	var f, s, factor float64
	for i := range coeff {
		f = float64(i) / (float64(size) * delta)
		s = 2 * math.Pi * f
		factor = math.Exp(-0.5 * s * s * h * h)
		coeff[i] *= complex(factor, 0)
	}
	smoothed := fft.Sequence(nil, coeff)

	// Stage 3: back to positions, clipped to the support.
	out := make(Curve, size)
	var y float64
	for i := 0; i < size; i++ {
		y = smoothed[i]
		if y < 0 { // ringing of the periodic transform
			y = 0
		}
		out[i] = Point{T: a + float64(i)*delta, Y: y}
	}
	tBegin, tEnd := supportBounds(opts, a, b)
	out = out.Restrict(tBegin, tEnd)
	if len(out) == 0 {
		if tBegin > tEnd {
			return Curve{}, nil
		}
		// support narrower than one grid step
		m := math.Min(math.Max(stat.Mean(trace, nil), tBegin), tEnd)
		return Curve{{T: m + opts.Offset, Y: 1}}, nil
	}

	out = out.Normalized(1)
	if opts.Offset != 0 {
		out = out.Shift(opts.Offset)
	}
	return out, nil
}

// supportBounds resolves the clipping window for the estimate span [a,b].
func supportBounds(opts DensityOptions, a, b float64) (float64, float64) {
	switch opts.Support {
	case SupportRPlus, SupportRPlusStar:
		return math.Max(a, 0), b
	case SupportRMinus, SupportRMinusStar:
		return a, math.Min(b, 0)
	case SupportBounded:
		return math.Max(a, opts.TMin), math.Min(b, opts.TMax)
	default:
		return a, b
	}
}

// traceStdDev is the sample standard deviation; fewer than two samples give 0.
func traceStdDev(trace []float64) float64 {
	if len(trace) < 2 {
		return 0
	}
	_, sd := stat.MeanStdDev(trace, nil)
	if math.IsNaN(sd) {
		return 0
	}
	return sd
}
