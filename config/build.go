// SPDX-License-Identifier: MIT
// Package config - conversion of a study into a model and chain specs.

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/mcmc"
	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/variable"
)

// ChainSpecs returns one spec per configured chain. Only the first carries
// the seed: the run is seeded once.
func (s Study) ChainSpecs() []mcmc.ChainSpec {
	out := make([]mcmc.ChainSpec, s.MCMC.Chains)
	for i := range out {
		out[i] = mcmc.ChainSpec{
			Burn:       s.MCMC.Burn,
			BatchSize:  s.MCMC.BatchSize,
			MaxBatches: s.MCMC.MaxBatches,
			Run:        s.MCMC.Run,
			Thinning:   s.MCMC.Thinning,
		}
	}
	if len(out) > 0 {
		out[0].Seed = s.MCMC.Seed
	}
	return out
}

// AnalysisOptions converts the analysis section.
func (s Study) AnalysisOptions() variable.AnalysisOptions {
	return variable.AnalysisOptions{
		FFTLen:       s.Analysis.FFTLen,
		Bandwidth:    s.Analysis.Bandwidth,
		Threshold:    s.Analysis.Threshold,
		QuantileType: posterior.QuantileType(s.Analysis.QuantileType),
		QuartileProb: s.Analysis.QuartileProb,
	}
}

// Build resolves plugins in reg and returns the model and chain specs.
// Every resolution problem is reported, joined. The model is validated.
func (s Study) Build(reg *likelihood.Registry, opts ...model.Option) (*model.Model, []mcmc.ChainSpec, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	format, _ := variable.ParseDateFormat(s.Settings.Format)
	m := model.New(model.Settings{
		TMin:   s.Settings.TMin,
		TMax:   s.Settings.TMax,
		Step:   s.Settings.Step,
		Format: format,
	}, opts...)

	var errs []error
	fail := func(err error) { errs = append(errs, fmt.Errorf("%w: %w", err, ErrInvalidStudy)) }

	for _, p := range s.Phases {
		ph := model.Phase{Name: p.Name}
		if err := applyPrior(p.Tau, &ph.TauType, &ph.TauFixed, &ph.TauMin, &ph.TauMax,
			model.TauUnknown, model.TauFixed, model.TauRange); err != nil {
			fail(fmt.Errorf("phase %q tau: %w", p.Name, err))
		}
		m.AddPhase(ph)
	}
	for _, c := range s.Constraints {
		from, _ := m.PhaseByName(c.From)
		to, _ := m.PhaseByName(c.To)
		var mc model.Constraint
		if err := applyPrior(c.Gamma, &mc.GammaType, &mc.GammaFixed, &mc.GammaMin, &mc.GammaMax,
			model.GammaUnknown, model.GammaFixed, model.GammaRange); err != nil {
			fail(fmt.Errorf("constraint %s→%s gamma: %w", c.From, c.To, err))
		}
		if _, err := m.AddConstraint(from, to, mc); err != nil {
			fail(err)
		}
	}
	for _, e := range s.Events {
		if err := buildEvent(m, reg, e); err != nil {
			fail(err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, nil, err
	}
	return m, s.ChainSpecs(), nil
}

func buildEvent(m *model.Model, reg *likelihood.Registry, e Event) error {
	ev := model.Event{Name: e.Name}
	if e.Type == "bound" {
		ev.Type = model.EventBound
		if e.Bound.Fixed != nil {
			ev.Bound, ev.Fixed = model.BoundFixed, *e.Bound.Fixed
		} else {
			ev.Bound, ev.BoundMin, ev.BoundMax = model.BoundUniform, e.Bound.Min, e.Bound.Max
		}
	} else if e.Method != "" {
		method, err := sampler.ParseEventMethod(e.Method)
		if err != nil {
			return fmt.Errorf("event %q: %w", e.Name, err)
		}
		ev.Method = method
	}
	id := m.AddEvent(ev)
	for _, name := range e.Phases {
		p, _ := m.PhaseByName(name)
		if err := m.AddToPhase(id, p); err != nil {
			return err
		}
	}

	var errs []error
	for _, d := range e.Dates {
		md, err := buildDate(reg, d)
		if err != nil {
			errs = append(errs, fmt.Errorf("event %q: %w", e.Name, err))
			continue
		}
		if _, err := m.AddDate(id, md); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildDate(reg *likelihood.Registry, d Date) (model.Date, error) {
	p, err := reg.Get(d.Plugin)
	if err != nil {
		return model.Date{}, fmt.Errorf("date %q: %w", d.Name, err)
	}
	md := model.Date{
		Name:   d.Name,
		Plugin: p,
		Data:   likelihood.Data(d.Data),
		Method: p.DataMethod(),
	}
	if d.Method != "" {
		if md.Method, err = sampler.ParseMethod(d.Method); err != nil {
			return model.Date{}, fmt.Errorf("date %q: %w", d.Name, err)
		}
	}
	if d.Delta != nil {
		switch strings.ToLower(d.Delta.Type) {
		case "", "none":
		case "fixed":
			md.DeltaType, md.DeltaFixed = model.DeltaFixed, d.Delta.Value
		case "range":
			md.DeltaType, md.DeltaMin, md.DeltaMax = model.DeltaRange, d.Delta.Min, d.Delta.Max
		case "gaussian":
			md.DeltaType, md.DeltaAverage, md.DeltaError = model.DeltaGaussian, d.Delta.Average, d.Delta.Error
		default:
			return model.Date{}, fmt.Errorf("date %q: unknown delta type %q", d.Name, d.Delta.Type)
		}
	}
	return md, nil
}

// applyPrior fills a tau or gamma prior of the model from p.
func applyPrior[T ~int](p *Prior, typ *T, fixed, lo, hi *float64, unknown, fixedT, rangeT T) error {
	if p == nil {
		*typ = unknown
		return nil
	}
	switch strings.ToLower(p.Type) {
	case "", "unknown":
		*typ = unknown
	case "fixed":
		*typ, *fixed = fixedT, p.Value
	case "range":
		*typ, *lo, *hi = rangeT, p.Min, p.Max
	default:
		return fmt.Errorf("unknown prior type %q", p.Type)
	}
	return nil
}
