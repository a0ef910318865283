// Package chronolath fits Bayesian chronological models to archaeological
// dating data with an adaptive Markov-Chain-Monte-Carlo engine.
//
// A study is a graph of dated events grouped into phases, with ordering
// constraints between phases. The engine calibrates every date, runs one or
// more chains through burn-in, adaptation and acquisition, then turns the
// traces into posterior densities, HPD regions, credibility intervals and
// quartiles.
//
// Packages:
//
//	posterior/  — curves, quantiles, FFT kernel density, HPD, credibility, time and gap ranges
//	variable/   — trace holders, MH acceptance bookkeeping, chain slicing, binary layout
//	sampler/    — RNG policy, sampling methods, proposers, truncated Gaussian samplers
//	likelihood/ — plugin contract and registry, calibration, reference plugins
//	model/      — events, dates, phases, constraints; validation, updates, analysis
//	mcmc/       — the chain state machine and its report
//	progress/   — progress observers: channel, zap, Prometheus
//	config/     — YAML study files
//	store/      — SQLite run archive
//
// The chronolath command (cmd/chronolath) runs a study file and summarizes
// archived runs:
//
//	chronolath run study.yaml --metrics-addr :9090
//	chronolath summary <run-id> --trace event/e1/theta
package chronolath
