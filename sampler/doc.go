// SPDX-License-Identifier: MIT

// Package sampler holds the random machinery of the engine: the run RNG
// policy, the sampling-method catalogue, the proposal strategies behind the
// Metropolis–Hastings step and bounded-retry truncated-Gaussian samplers.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. One *rand.Rand is created per
//     study run and threaded through every call via Context.
//
// Failure policy:
//   - Rejection samplers give up after MaxTrials draws with ErrNoSolution.
//   - Nothing here panics on user input.
package sampler
