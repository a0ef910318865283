// SPDX-License-Identifier: MIT
// Package config - study file schema and loading.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/chronolath/variable"
)

// Study is the root of a study file.
type Study struct {
	Settings    Settings     `yaml:"settings"`
	MCMC        MCMC         `yaml:"mcmc"`
	Analysis    Analysis     `yaml:"analysis"`
	Events      []Event      `yaml:"events,omitempty"`
	Phases      []Phase      `yaml:"phases,omitempty"`
	Constraints []Constraint `yaml:"constraints,omitempty"`
}

// Settings is the study period, calibration step and display format.
type Settings struct {
	TMin   float64 `yaml:"tmin"`
	TMax   float64 `yaml:"tmax"`
	Step   float64 `yaml:"step"`
	Format string  `yaml:"format"`
}

// MCMC is the chain layout. Every chain shares the same settings; the seed
// seeds the single stream of the run.
type MCMC struct {
	Chains     int   `yaml:"chains"`
	Seed       int64 `yaml:"seed"`
	Burn       int   `yaml:"burn"`
	BatchSize  int   `yaml:"batch_size"`
	MaxBatches int   `yaml:"max_batches"`
	Run        int   `yaml:"run"`
	Thinning   int   `yaml:"thinning"`
}

// Analysis mirrors variable.AnalysisOptions.
type Analysis struct {
	FFTLen       int     `yaml:"fft_len"`
	Bandwidth    float64 `yaml:"bandwidth"`
	Threshold    float64 `yaml:"threshold"`
	QuantileType int     `yaml:"quantile_type"`
	QuartileProb float64 `yaml:"quartile_prob"`
}

// Event is a dated event (type "default" or empty) or a bound.
type Event struct {
	Name   string   `yaml:"name"`
	Type   string   `yaml:"type,omitempty"`
	Method string   `yaml:"method,omitempty"`
	Phases []string `yaml:"phases,omitempty"`
	Bound  *Bound   `yaml:"bound,omitempty"`
	Dates  []Date   `yaml:"dates,omitempty"`
}

// Bound is either Fixed or the range [Min, Max].
type Bound struct {
	Fixed *float64 `yaml:"fixed,omitempty"`
	Min   float64  `yaml:"min"`
	Max   float64  `yaml:"max"`
}

// Date is one measurement. An empty Method selects the plugin's default.
type Date struct {
	Name   string             `yaml:"name"`
	Plugin string             `yaml:"plugin"`
	Method string             `yaml:"method,omitempty"`
	Data   map[string]float64 `yaml:"data"`
	Delta  *Delta             `yaml:"delta,omitempty"`
}

// Delta is the wiggle offset prior: "fixed" uses Value, "range" Min and
// Max, "gaussian" Average and Error.
type Delta struct {
	Type    string  `yaml:"type"`
	Value   float64 `yaml:"value"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Average float64 `yaml:"average"`
	Error   float64 `yaml:"error"`
}

// Phase groups events; Tau bounds its duration.
type Phase struct {
	Name string `yaml:"name"`
	Tau  *Prior `yaml:"tau,omitempty"`
}

// Constraint orders two phases by name; Gamma is the minimum hiatus.
type Constraint struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Gamma *Prior `yaml:"gamma,omitempty"`
}

// Prior is a fixed value or a range; type "unknown" (or no prior) means
// unconstrained.
type Prior struct {
	Type  string  `yaml:"type"`
	Value float64 `yaml:"value"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
}

// Default returns a study with default settings and no entities.
func Default() Study {
	a := variable.DefaultAnalysisOptions()
	return Study{
		Settings: Settings{TMin: -1000, TMax: 1000, Step: 1, Format: variable.FormatBCAD.String()},
		MCMC: MCMC{
			Chains:     3,
			Burn:       1000,
			BatchSize:  500,
			MaxBatches: 20,
			Run:        10000,
			Thinning:   10,
		},
		Analysis: Analysis{
			FFTLen:       a.FFTLen,
			Bandwidth:    a.Bandwidth,
			Threshold:    a.Threshold,
			QuantileType: int(a.QuantileType),
			QuartileProb: a.QuartileProb,
		},
	}
}

// Parse decodes a study over Default and validates it. Unknown keys are
// rejected.
func Parse(data []byte) (Study, error) {
	s := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Study{}, fmt.Errorf("config: decode study: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Study{}, err
	}
	return s, nil
}

// Load reads and parses the study file at path.
func Load(path string) (Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Study{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal encodes s as YAML.
func (s Study) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("config: encode study: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks names and references. Numeric consistency of the model
// and of the chains is left to model.Validate and mcmc.ValidateChains, run
// on the built values.
func (s Study) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidStudy))
	}
	unknown := func(what string) {
		errs = append(errs, fmt.Errorf("%s: %w: %w", what, ErrUnknownName, ErrInvalidStudy))
	}
	if _, err := variable.ParseDateFormat(s.Settings.Format); err != nil {
		bad("settings: %v", err)
	}
	if s.MCMC.Chains < 1 {
		bad("mcmc: chains %d < 1", s.MCMC.Chains)
	}

	phases := make(map[string]bool, len(s.Phases))
	for i, p := range s.Phases {
		if p.Name == "" {
			bad("phase %d: no name", i)
		} else if phases[p.Name] {
			bad("phase %q: duplicate name", p.Name)
		}
		phases[p.Name] = true
	}
	events := make(map[string]bool, len(s.Events))
	dates := make(map[string]bool)
	for i, e := range s.Events {
		if e.Name == "" {
			bad("event %d: no name", i)
		} else if events[e.Name] {
			bad("event %q: duplicate name", e.Name)
		}
		events[e.Name] = true
		for _, d := range e.Dates {
			if d.Name == "" {
				bad("event %q: date without name", e.Name)
			} else if dates[d.Name] {
				bad("date %q: duplicate name", d.Name)
			}
			dates[d.Name] = true
		}
		for _, p := range e.Phases {
			if !phases[p] {
				unknown(fmt.Sprintf("event %q: phase %q", e.Name, p))
			}
		}
		switch e.Type {
		case "", "default":
			if e.Bound != nil {
				bad("event %q: bound given on a dated event", e.Name)
			}
		case "bound":
			if e.Bound == nil {
				bad("event %q: bound event without bound", e.Name)
			}
			if len(e.Dates) > 0 {
				bad("event %q: bound event with dates", e.Name)
			}
		default:
			bad("event %q: unknown type %q", e.Name, e.Type)
		}
	}
	for i, c := range s.Constraints {
		if !phases[c.From] {
			unknown(fmt.Sprintf("constraint %d: from %q", i, c.From))
		}
		if !phases[c.To] {
			unknown(fmt.Sprintf("constraint %d: to %q", i, c.To))
		}
	}
	return errors.Join(errs...)
}
