// SPDX-License-Identifier: MIT
// Package model - topological order of phases.
//
// PhaseOrder computes a linear ordering of phases such that for every
// constraint From → To, From appears before To. Constraint cycles make the
// model unsatisfiable and are reported as ErrCycle.
//
// Complexity:
//
//   - Time:   O(P + C) (each phase and constraint visited once)
//   - Memory: O(P)     (recursion stack and state slice)

package model

import (
	"context"
	"fmt"
)

// Visitation states of the depth-first traversal.
const (
	white = iota // not visited yet
	gray         // on the recursion stack
	black        // fully explored
)

// phaseSorter encapsulates state for one traversal.
type phaseSorter struct {
	m     *Model
	ctx   context.Context
	state []int
	order []PhaseID // post-order
}

// PhaseOrder returns the phases in constraint order. Phases without
// constraints keep their id order relative to each other.
func (m *Model) PhaseOrder(ctx context.Context) ([]PhaseID, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s := &phaseSorter{
		m:     m,
		ctx:   ctx,
		state: make([]int, len(m.Phases)),
		order: make([]PhaseID, 0, len(m.Phases)),
	}
	// Visit from the highest id so the reversed post-order keeps id order
	// among unconstrained phases.
	var i int
	for i = len(m.Phases) - 1; i >= 0; i-- {
		if s.state[i] == white {
			if err := s.visit(PhaseID(i)); err != nil {
				return nil, err
			}
		}
	}
	for i, j := 0, len(s.order)-1; i < j; i, j = i+1, j-1 {
		s.order[i], s.order[j] = s.order[j], s.order[i]
	}
	return s.order, nil
}

// visit explores the successors of p, detecting back edges.
func (s *phaseSorter) visit(p PhaseID) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}
	switch s.state[p] {
	case gray:
		return fmt.Errorf("phase %q: %w", s.m.Phases[p].Name, ErrCycle)
	case black:
		return nil
	}
	s.state[p] = gray
	// Reverse order so successors come out in constraint order.
	fwd := s.m.Phases[p].Forward
	var k int
	for k = len(fwd) - 1; k >= 0; k-- {
		if err := s.visit(s.m.Constraints[fwd[k]].To); err != nil {
			return err
		}
	}
	s.state[p] = black
	s.order = append(s.order, p)
	return nil
}
