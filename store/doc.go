// SPDX-License-Identifier: MIT
// Package store persists finished or aborted runs in SQLite.
//
// A run row keeps the status, seed, chain layout and the study file it came
// from. Every variable of the model is stored as the binary layout of
// variable.Variable or variable.MHVariable, and each variable also gets a
// result row with its summary statistics for quick listing.
package store
