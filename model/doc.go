// SPDX-License-Identifier: MIT
// Package model is the hierarchical parameter graph of a chronological
// study: events dated by one or more dates, phases grouping events, and
// constraints ordering phases in time.
//
// Entities live in an arena and refer to each other by integer ids
// (EventID, DateID, PhaseID, ConstraintID); a Model is built once, then
// calibrated, initialized and iterated by the MCMC controller, and finally
// analyzed. Every latent quantity is a variable.Variable (or
// variable.MHVariable) whose trace is appended in place.
//
// Time runs forward: a constraint From → To requires every event of From to
// precede every event of To by at least the constraint's gamma.
//
// A Model is not safe for concurrent use.
package model
