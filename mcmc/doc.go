// SPDX-License-Identifier: MIT
// Package mcmc drives the adaptive Metropolis–Hastings engine over a
// model.Model.
//
// A run calibrates every date once, then runs each chain in turn through
//
//	Initializing → Burning → Adapting → Running
//
// and finally computes autocorrelations and the posterior analysis. Every
// state polls the context; cancellation ends the run with StatusAborted and
// keeps the partial traces.
//
// Trace layout: chain j contributes Burn + BatchesUsed·BatchSize +
// ⌊Run/Thinning⌋ memoized samples to every variable, chains concatenated in
// order. The controller is single-threaded and owns the model while Run is
// in progress.
package mcmc
