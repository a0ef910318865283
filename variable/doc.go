// SPDX-License-Identifier: MIT
// Package variable holds the sampled parameters of a chronological model.
//
// A Variable is a trace holder: its current value X, the raw trace of
// memoized values, a formatted copy of that trace, and the posterior
// results derived from it (density, HPD region, credibility interval,
// statistics, autocorrelations).
//
// An MHVariable extends Variable with Metropolis–Hastings bookkeeping:
// adaptive proposal width, sliding accept window, full acquisition-stage
// accept history, per-batch acceptance rates.
//
// Trace layout:
//
//	chain 0: [burn B0][adapt k0·S0][run ⌊R0/t0⌋] chain 1: [burn B1]...
//
// Every slicing routine in this package honours that layout (see Chain).
//
// Variables are not safe for concurrent use; the engine that owns them
// mutates them from a single goroutine.
package variable
