// SPDX-License-Identifier: MIT
// Package: posterior
//
// stats.go — summary statistics of a density curve and of a raw trace.

package posterior

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CurveStats summarizes a density curve. Std is −1 for an empty curve.
type CurveStats struct {
	Max  float64 // highest density value
	Mode float64 // position of Max
	Mean float64
	Std  float64
}

// TraceStats summarizes a raw trace.
type TraceStats struct {
	Min, Max  float64
	Mean, Std float64
	Quartiles Quartiles
}

// StatsOption configures the summary routines.
type StatsOption func(*statsConfig)

type statsConfig struct {
	logger *zap.Logger
}

// WithStatsLogger routes numeric warnings (negative variance clamps) to l.
// Panics on nil.
func WithStatsLogger(l *zap.Logger) StatsOption {
	if l == nil {
		panic("posterior: WithStatsLogger(nil)")
	}
	return func(c *statsConfig) { c.logger = l }
}

func newStatsConfig(opts ...StatsOption) statsConfig {
	cfg := statsConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// AnalyzeCurve computes max, mode, mean and standard deviation of density
// treating it as piecewise linear. Rounding can make the variance slightly
// negative; it is then replaced by its absolute value and a warning is logged.
func AnalyzeCurve(density Curve, opts ...StatsOption) CurveStats {
	if len(density) == 0 {
		return CurveStats{Std: -1}
	}
	cfg := newStatsConfig(opts...)

	top := density.MaxPoint()
	res := CurveStats{Max: top.Y, Mode: top.T}
	if len(density) == 1 {
		res.Mean = density[0].T
		return res
	}

	var (
		m0, m1, m2 float64
		dt, y      float64
	)
	for i := 1; i < len(density); i++ {
		dt = density[i].T - density[i-1].T
		// trapezoid on y, t·y and t²·y
		y = 0.5 * (density[i-1].Y + density[i].Y) * dt
		m0 += y
		m1 += 0.5 * (density[i-1].T*density[i-1].Y + density[i].T*density[i].Y) * dt
		m2 += 0.5 * (density[i-1].T*density[i-1].T*density[i-1].Y + density[i].T*density[i].T*density[i].Y) * dt
	}
	if m0 == 0 {
		res.Std = -1
		return res
	}
	res.Mean = m1 / m0
	variance := m2/m0 - res.Mean*res.Mean
	if variance < 0 {
		cfg.logger.Warn("negative variance clamped",
			zap.Float64("variance", variance),
			zap.Float64("mean", res.Mean))
		variance = -variance
	}
	res.Std = math.Sqrt(variance)
	return res
}

// AnalyzeTrace computes min, max, mean, standard deviation and quartiles at
// confidence p of trace. An empty trace yields the zero value with Std −1.
func AnalyzeTrace(trace []float64, typ QuantileType, p float64) (TraceStats, error) {
	if len(trace) == 0 {
		return TraceStats{Std: -1}, nil
	}
	q, err := QuartilesFromTrace(trace, typ, p)
	if err != nil {
		return TraceStats{}, err
	}
	res := TraceStats{
		Min:       floats.Min(trace),
		Max:       floats.Max(trace),
		Mean:      stat.Mean(trace, nil),
		Std:       traceStdDev(trace),
		Quartiles: q,
	}
	return res, nil
}
