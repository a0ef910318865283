// SPDX-License-Identifier: MIT
// Package likelihood - calibration on the study grid.

package likelihood

import (
	"fmt"
	"math"

	"github.com/katalvlaran/chronolath/posterior"
)

// Grid is the study period sampled every Step years.
type Grid struct {
	TMin, TMax float64
	Step       float64
}

// Validate reports ErrBadGrid for an empty or unordered grid.
func (g Grid) Validate() error {
	if !(g.TMin < g.TMax) || !(g.Step > 0) || math.IsInf(g.TMin, 0) || math.IsInf(g.TMax, 0) {
		return fmt.Errorf("grid [%g, %g] step %g: %w", g.TMin, g.TMax, g.Step, ErrBadGrid)
	}
	return nil
}

// Calibration is a date's likelihood normalized on the grid.
type Calibration struct {
	Curve       posterior.Curve // area 1
	Repartition posterior.Curve // cumulative, last point 1
	Mean        float64
	Variance    float64
}

// Usable reports whether the repartition can be inverted.
func (c Calibration) Usable() bool { return len(c.Repartition) >= 2 }

// Calibrate evaluates p on g and normalizes the result. Plugins that
// implement Calibrator supply the curve themselves.
//
// Errors:
//   - ErrBadGrid for an invalid grid.
//   - the plugin's validation error (wrapping ErrBadData).
//   - ErrEmptyCalibration when the likelihood is zero everywhere on g.
//
// Complexity: O((TMax−TMin)/Step).
func Calibrate(p Plugin, d Data, g Grid) (Calibration, error) {
	if err := g.Validate(); err != nil {
		return Calibration{}, err
	}
	if err := p.Validate(d); err != nil {
		return Calibration{}, fmt.Errorf("calibrate %s: %w", p.ID(), err)
	}

	var (
		curve posterior.Curve
		err   error
	)
	if c, ok := p.(Calibrator); ok {
		if curve, err = c.Calibrate(d, g); err != nil {
			return Calibration{}, fmt.Errorf("calibrate %s: %w", p.ID(), err)
		}
	} else {
		curve = posterior.CurveFromFunc(g.TMin, g.TMax, g.Step, func(t float64) float64 {
			return p.Likelihood(t, d)
		})
	}

	area := curve.Area()
	if !(area > 0) || math.IsInf(area, 0) {
		return Calibration{}, fmt.Errorf("calibrate %s on [%g, %g]: %w", p.ID(), g.TMin, g.TMax, ErrEmptyCalibration)
	}
	curve = curve.Normalized(1)
	stats := posterior.AnalyzeCurve(curve)
	return Calibration{
		Curve:       curve,
		Repartition: curve.Cumulative(),
		Mean:        stats.Mean,
		Variance:    stats.Std * stats.Std,
	}, nil
}
