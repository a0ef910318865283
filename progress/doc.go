// SPDX-License-Identifier: MIT
// Package progress carries one-way progress notifications from the MCMC
// controller to whoever watches it.
//
// The controller only ever calls Observer methods and never waits on them:
// Channel drops events when its buffer is full, Logger writes through zap
// and Metrics updates Prometheus collectors. Fanout combines several.
package progress
