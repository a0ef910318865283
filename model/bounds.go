// SPDX-License-Identifier: MIT
// Package model - admissible interval of an event's theta.

package model

import "math"

// ThetaBounds returns the interval theta of e may take given the current
// state of every other event:
//
//	lo = max(tmin, max θ(From) + γ for constraints entering e's phases,
//	         max θ(phase without e) − τ)
//	hi = min(tmax, min θ(To) − γ for constraints leaving e's phases,
//	         min θ(phase without e) + τ)
//
// When known is non-nil only events it marks are taken into account; the
// initializer uses it before every theta has a value.
func (m *Model) ThetaBounds(e EventID, known map[EventID]bool) (lo, hi float64) {
	lo, hi = m.Settings.TMin, m.Settings.TMax
	for _, p := range m.Events[e].Phases {
		ph := &m.Phases[p]
		for _, cid := range ph.Backward {
			c := &m.Constraints[cid]
			if _, last, n := m.phaseExtent(c.From, e, known); n > 0 {
				lo = math.Max(lo, last+c.Gamma)
			}
		}
		for _, cid := range ph.Forward {
			c := &m.Constraints[cid]
			if first, _, n := m.phaseExtent(c.To, e, known); n > 0 {
				hi = math.Min(hi, first-c.Gamma)
			}
		}
		if ph.TauType != TauUnknown && !math.IsInf(ph.Tau, 1) {
			if first, last, n := m.phaseExtent(p, e, known); n > 0 {
				lo = math.Max(lo, last-ph.Tau)
				hi = math.Min(hi, first+ph.Tau)
			}
		}
	}
	return lo, hi
}
