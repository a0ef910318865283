// SPDX-License-Identifier: MIT
// Package config reads a study file: the study period, MCMC and analysis
// settings, events with their dates, phases and phase constraints.
//
// A study is YAML:
//
//	settings: {tmin: -1000, tmax: 1000, step: 1, format: bc-ad}
//	mcmc: {chains: 3, seed: 7, burn: 1000, batch_size: 500, max_batches: 20, run: 10000, thinning: 10}
//	phases:
//	  - {name: A}
//	  - {name: B, tau: {type: range, min: 0, max: 300}}
//	constraints:
//	  - {from: A, to: B, gamma: {type: fixed, value: 10}}
//	events:
//	  - name: e1
//	    phases: [A]
//	    dates:
//	      - {name: d1, plugin: gauss, data: {measure: -200, error: 30}}
//	  - {name: start, type: bound, bound: {fixed: -500}}
//
// Load parses and validates; Study.Build turns a study into a model.Model
// and the chain specs of the run.
package config
