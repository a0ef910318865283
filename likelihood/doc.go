// SPDX-License-Identifier: MIT
// Package likelihood defines the dating-method plugin contract consumed by
// the engine, a Registry of plugins, and calibration of a date on a study
// grid.
//
// A Plugin evaluates the pointwise likelihood of a date's Data at a calendar
// time t. Plugins that can do better than pointwise evaluation implement
// Calibrator and return the whole curve.
//
// Two reference plugins ship with the package:
//   - Gauss: a measurement ± error against the reference g(t) = a·t² + b·t + c;
//   - Unif:  a uniform typological interval [min, max].
package likelihood
