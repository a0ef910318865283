// SPDX-License-Identifier: MIT
// Package sampler - RNG policy shared by every sampling call of a run.
//
// Goals:
//   - Determinism: same seed ⇒ identical chains across platforms.
//   - Every draw of a run comes from the *rand.Rand carried by Context.
//   - One stream per study run, seeded once and shared by all chains.

package sampler

import "math/rand"

// DefaultSeed is the fixed seed used when callers pass seed==0.
const DefaultSeed int64 = 1

// NewRand returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ DefaultSeed; otherwise the provided seed verbatim.
//
// Complexity: O(1).
func NewRand(seed int64) *rand.Rand {
	var s int64
	s = seed
	if s == 0 {
		s = DefaultSeed
	}
	return rand.New(rand.NewSource(s))
}

// Context is the explicit run context handed to every update: the run RNG
// and the flags of the current stage.
type Context struct {
	// Rand is the single stream of the run.
	Rand *rand.Rand
	// Acquire is true during the acquisition (run) stage only; accept/reject
	// outcomes are then also recorded in the full history.
	Acquire bool
	// Memo is true when the current iteration is memoized.
	Memo bool
}

// NewContext wraps r in a Context with every flag cleared.
func NewContext(r *rand.Rand) *Context {
	if r == nil {
		r = NewRand(0)
	}
	return &Context{Rand: r}
}

// Accept is the Metropolis–Hastings decision shared by every method:
// ratio ≥ 1 accepts unconditionally, otherwise accept iff ratio ≥ u with
// u ~ U(0,1). A NaN ratio rejects.
func Accept(ratio float64, r *rand.Rand) bool {
	if ratio >= 1 {
		return true
	}
	if !(ratio > 0) {
		return false
	}
	return ratio >= r.Float64()
}
