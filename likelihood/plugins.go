// SPDX-License-Identifier: MIT
// Package likelihood - reference plugins.

package likelihood

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/chronolath/sampler"
)

// Field names of the reference plugins.
const (
	FieldMeasure = "measure"
	FieldError   = "error"
	FieldA       = "a"
	FieldB       = "b"
	FieldC       = "c"
	FieldMin     = "min"
	FieldMax     = "max"
)

// Gauss compares a measurement ± error with the reference curve
// g(t) = a·t² + b·t + c. With a = 0, b = 1, c = 0 it is a plain Gaussian
// date N(measure, error²) in calendar time.
//
// Data: measure, error (> 0), a, b, c (a and b not both zero; a, b, c
// default to 0, 1, 0).
type Gauss struct{}

// ID implements Plugin.
func (Gauss) ID() string { return "gauss" }

// coefficients returns a, b, c with defaults applied.
func (Gauss) coefficients(d Data) (a, b, c float64) {
	b = 1
	if v, ok := d[FieldA]; ok {
		a = v
	}
	if v, ok := d[FieldB]; ok {
		b = v
	}
	if v, ok := d[FieldC]; ok {
		c = v
	}
	return a, b, c
}

// Likelihood implements Plugin.
func (g Gauss) Likelihood(t float64, d Data) float64 {
	a, b, c := g.coefficients(d)
	n := distuv.Normal{Mu: a*t*t + b*t + c, Sigma: d[FieldError]}
	return n.Prob(d[FieldMeasure])
}

// DataMethod implements Plugin.
func (Gauss) DataMethod() sampler.Method { return sampler.MethodInversion }

// AllowedMethods implements Plugin.
func (Gauss) AllowedMethods() []sampler.Method {
	return []sampler.Method{
		sampler.MethodInversion,
		sampler.MethodIndependentMH,
		sampler.MethodSymmetricMH,
		sampler.MethodAdaptiveGaussMH,
	}
}

// Validate implements Plugin.
func (g Gauss) Validate(d Data) error {
	m, err := d.Get(FieldMeasure)
	if err != nil {
		return err
	}
	e, err := d.Get(FieldError)
	if err != nil {
		return err
	}
	if math.IsNaN(m) || !(e > 0) {
		return fmt.Errorf("gauss measure %g ± %g: %w", m, e, ErrBadData)
	}
	if a, b, _ := g.coefficients(d); a == 0 && b == 0 {
		return fmt.Errorf("gauss reference curve is constant: %w", ErrBadData)
	}
	return nil
}

// Unif is a uniform typological date on [min, max].
//
// Data: min < max.
type Unif struct{}

// ID implements Plugin.
func (Unif) ID() string { return "unif" }

// Likelihood implements Plugin.
func (Unif) Likelihood(t float64, d Data) float64 {
	u := distuv.Uniform{Min: d[FieldMin], Max: d[FieldMax]}
	return u.Prob(t)
}

// DataMethod implements Plugin.
func (Unif) DataMethod() sampler.Method { return sampler.MethodInversion }

// AllowedMethods implements Plugin.
func (Unif) AllowedMethods() []sampler.Method {
	return []sampler.Method{sampler.MethodInversion, sampler.MethodAdaptiveGaussMH}
}

// Validate implements Plugin.
func (Unif) Validate(d Data) error {
	lo, err := d.Get(FieldMin)
	if err != nil {
		return err
	}
	hi, err := d.Get(FieldMax)
	if err != nil {
		return err
	}
	if !(lo < hi) {
		return fmt.Errorf("unif [%g, %g]: %w", lo, hi, ErrBadData)
	}
	return nil
}
