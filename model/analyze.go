// SPDX-License-Identifier: MIT
// Package model - posterior analysis of a finished run.

package model

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/variable"
)

// Analyze computes densities, HPD regions, credibility intervals and
// statistics of every variable over the acquisition samples of m.Chains,
// then the time range of each phase and the gap of each constraint.
// Returns ctx.Err() when cancelled.
func (m *Model) Analyze(ctx context.Context, opts variable.AnalysisOptions) error {
	statsOpt := posterior.WithStatsLogger(m.logger)
	for _, v := range m.Variables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.Analyze(m.Chains, opts, statsOpt); err != nil {
			return err
		}
	}
	for _, v := range m.MHVariables() {
		v.ComputeGlobalRate()
	}

	f := m.Settings.Format
	for i := range m.Phases {
		p := &m.Phases[i]
		alpha := p.Alpha.RunTraces(m.Chains)
		beta := p.Beta.RunTraces(m.Chains)
		p.TimeRange = formatInterval(f, posterior.TimeRange(alpha, beta, opts.Threshold))
	}
	for i := range m.Constraints {
		c := &m.Constraints[i]
		end := m.Phases[c.From].Beta.RunTraces(m.Chains)
		start := m.Phases[c.To].Alpha.RunTraces(m.Chains)
		c.Gap = formatInterval(f, posterior.GapRange(end, start, opts.Threshold))
	}
	return nil
}

// formatInterval converts an engine-time interval to the display scale.
// Sentinels (unbounded, empty) pass through unchanged. Reversed scales swap
// the bounds so an inverted gap (b < a) stays inverted.
func formatInterval(f variable.DateFormat, iv posterior.Interval) posterior.Interval {
	if iv.IsUnbounded() || iv.IsEmpty() || math.IsInf(iv.Lo, 0) || math.IsInf(iv.Hi, 0) {
		return iv
	}
	lo, hi := f.Apply(iv.Lo), f.Apply(iv.Hi)
	if f.Reversed() {
		lo, hi = hi, lo
	}
	return posterior.Interval{Lo: lo, Hi: hi}
}

// ComputeCorrelations fills the per-chain autocorrelations of every variable.
func (m *Model) ComputeCorrelations(ctx context.Context) error {
	for _, v := range m.Variables() {
		if err := ctx.Err(); err != nil {
			return err
		}
		v.ComputeCorrelations(m.Chains)
	}
	return nil
}

// ResultLine is a one-line summary of a variable, for logs and reports.
// An empty credibility interval prints as "cred none".
func ResultLine(name string, v *variable.Variable) string {
	cred := "none"
	if !v.Credibility.IsEmpty() {
		cred = fmt.Sprintf("[%.2f, %.2f]", v.Credibility.Lo, v.Credibility.Hi)
	}
	return fmt.Sprintf("%s: mean %.2f sd %.2f mode %.2f cred %s",
		name, v.Stats.Mean, v.Stats.Std, v.Stats.Mode, cred)
}
