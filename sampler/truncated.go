// SPDX-License-Identifier: MIT
// Package sampler - truncated Gaussian and uniform draws.
//
// GaussByDoubleExp works on the standardized interval [a,b]:
//   - a ≥ 0 (or b ≤ 0, mirrored): uniform proposal when the interval is
//     narrow, otherwise a shifted exponential with the optimal rate
//     λ = (a + √(a²+4)) / 2;
//   - a < 0 < b: uniform proposal when b − a < √(2π), otherwise a
//     double-exponential (Laplace) envelope.
//
// GaussByBoxMuller draws plain Gaussian candidates until one lands in bounds.
// Both give up after MaxTrials and report ErrNoSolution.

package sampler

import (
	"fmt"
	"math"
	"math/rand"
)

// MaxTrials bounds every rejection loop in this package.
const MaxTrials = 100000

var sqrt2Pi = math.Sqrt(2 * math.Pi)

// Uniform returns a draw from U[min, max].
func Uniform(min, max float64, r *rand.Rand) float64 {
	return min + (max-min)*r.Float64()
}

// checkTruncated validates a truncated-Gaussian request. done reports that
// the result is already determined (degenerate interval or zero sigma).
func checkTruncated(mu, sigma, min, max float64) (x float64, done bool, err error) {
	if math.IsNaN(mu) || math.IsNaN(sigma) || math.IsNaN(min) || math.IsNaN(max) || sigma < 0 || min > max {
		return 0, true, fmt.Errorf("truncated N(%g, %g²) on [%g, %g]: %w", mu, sigma, min, max, ErrInvalidBounds)
	}
	if min == max {
		return min, true, nil
	}
	if sigma == 0 {
		return math.Max(min, math.Min(max, mu)), true, nil
	}
	return 0, false, nil
}

// GaussByDoubleExp draws from N(mu, sigma²) truncated to [min, max].
// Infinite bounds are allowed.
//
// Complexity: O(1) expected trials for every interval.
func GaussByDoubleExp(mu, sigma, min, max float64, r *rand.Rand) (float64, error) {
	x, done, err := checkTruncated(mu, sigma, min, max)
	if done {
		return x, err
	}
	a := (min - mu) / sigma
	b := (max - mu) / sigma

	var z float64
	switch {
	case a >= 0:
		z, err = oneSided(a, b, r)
	case b <= 0:
		z, err = oneSided(-b, -a, r)
		z = -z
	default:
		z, err = straddling(a, b, r)
	}
	if err != nil {
		return 0, fmt.Errorf("truncated N(%g, %g²) on [%g, %g]: %w", mu, sigma, min, max, err)
	}
	x = mu + sigma*z
	// Rounding of mu + sigma·z may step just outside.
	return math.Max(min, math.Min(max, x)), nil
}

// oneSided samples a standard normal truncated to [a, b] with 0 ≤ a < b.
func oneSided(a, b float64, r *rand.Rand) (float64, error) {
	lambda := (a + math.Sqrt(a*a+4)) / 2
	// Narrow intervals: the uniform envelope beats the exponential one.
	narrow := b-a < 2*math.Sqrt(math.E)/(a+math.Sqrt(a*a+4))*math.Exp((a*a-a*math.Sqrt(a*a+4))/4)

	var trial int
	for trial = 0; trial < MaxTrials; trial++ {
		if narrow {
			z := Uniform(a, b, r)
			if r.Float64() <= math.Exp((a*a-z*z)/2) {
				return z, nil
			}
			continue
		}
		z := a + r.ExpFloat64()/lambda
		if z > b {
			continue
		}
		if r.Float64() <= math.Exp(-(z-lambda)*(z-lambda)/2) {
			return z, nil
		}
	}
	return 0, ErrNoSolution
}

// straddling samples a standard normal truncated to [a, b] with a < 0 < b.
func straddling(a, b float64, r *rand.Rand) (float64, error) {
	narrow := b-a < sqrt2Pi

	var trial int
	for trial = 0; trial < MaxTrials; trial++ {
		if narrow {
			z := Uniform(a, b, r)
			if r.Float64() <= math.Exp(-z*z/2) {
				return z, nil
			}
			continue
		}
		z := r.ExpFloat64()
		if r.Intn(2) == 0 {
			z = -z
		}
		if z < a || z > b {
			continue
		}
		d := math.Abs(z) - 1
		if r.Float64() <= math.Exp(-d*d/2) {
			return z, nil
		}
	}
	return 0, ErrNoSolution
}

// GaussByBoxMuller draws N(mu, sigma²) candidates until one falls in
// [min, max]. Efficient only when the interval holds a fair share of the mass.
func GaussByBoxMuller(mu, sigma, min, max float64, r *rand.Rand) (float64, error) {
	x, done, err := checkTruncated(mu, sigma, min, max)
	if done {
		return x, err
	}
	var trial int
	for trial = 0; trial < MaxTrials; trial++ {
		x = mu + sigma*r.NormFloat64()
		if x >= min && x <= max {
			return x, nil
		}
	}
	return 0, fmt.Errorf("truncated N(%g, %g²) on [%g, %g]: %w", mu, sigma, min, max, ErrNoSolution)
}
