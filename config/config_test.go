// SPDX-License-Identifier: MIT

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronolath/config"
	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/variable"
)

const studyYAML = `
settings: {tmin: -1000, tmax: 1000, step: 2, format: cal-bp}
mcmc: {chains: 2, seed: 42, burn: 100, batch_size: 50, max_batches: 5, run: 200, thinning: 4}
analysis: {threshold: 68}
phases:
  - {name: A}
  - {name: B, tau: {type: range, min: 0, max: 300}}
constraints:
  - {from: A, to: B, gamma: {type: fixed, value: 10}}
events:
  - name: e1
    phases: [A]
    dates:
      - {name: d1, plugin: gauss, data: {measure: -200, error: 30}}
  - name: e2
    method: mh-adaptive-gauss
    phases: [B]
    dates:
      - name: d2
        plugin: unif
        method: mh-adaptive-gauss
        data: {min: 50, max: 150}
        delta: {type: range, min: 0, max: 20}
  - {name: start, type: bound, bound: {fixed: -500}}
`

func TestParse(t *testing.T) {
	s, err := config.Parse([]byte(studyYAML))
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Settings.Step)
	assert.Equal(t, 68.0, s.Analysis.Threshold)
	// untouched keys keep their defaults
	assert.Equal(t, variable.DefaultAnalysisOptions().FFTLen, s.Analysis.FFTLen)
	assert.Len(t, s.Events, 3)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := config.Parse([]byte("settings: {tmin: 0, tmax: 10, stepp: 1}\n"))
	assert.Error(t, err)
}

func TestValidate_References(t *testing.T) {
	s := config.Default()
	s.Phases = []config.Phase{{Name: "A"}, {Name: "A"}}
	s.Events = []config.Event{
		{Name: "e", Phases: []string{"Z"}},
		{Name: "b", Type: "bound"},
	}
	s.Constraints = []config.Constraint{{From: "A", To: "Q"}}

	err := s.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidStudy)
	assert.ErrorIs(t, err, config.ErrUnknownName)
}

func TestBuild(t *testing.T) {
	s, err := config.Parse([]byte(studyYAML))
	require.NoError(t, err)
	m, chains, err := s.Build(likelihood.DefaultRegistry())
	require.NoError(t, err)

	assert.Equal(t, variable.FormatCalBP, m.Settings.Format)
	require.Len(t, chains, 2)
	assert.EqualValues(t, 42, chains[0].Seed)
	assert.Zero(t, chains[1].Seed)
	assert.Equal(t, 4, chains[1].Thinning)

	b, ok := m.PhaseByName("B")
	require.True(t, ok)
	assert.Equal(t, model.TauRange, m.Phases[b].TauType)
	assert.Equal(t, 300.0, m.Phases[b].TauMax)
	require.Len(t, m.Constraints, 1)
	assert.Equal(t, model.GammaFixed, m.Constraints[0].GammaType)

	e1, _ := m.EventByName("e1")
	assert.Equal(t, sampler.MethodInversion, m.Dates[m.Events[e1].Dates[0]].Method, "plugin default")
	e2, _ := m.EventByName("e2")
	assert.Equal(t, sampler.EventAdaptiveGaussMH, m.Events[e2].Method)
	d2 := m.Dates[m.Events[e2].Dates[0]]
	assert.Equal(t, model.DeltaRange, d2.DeltaType)
	assert.Equal(t, 20.0, d2.DeltaMax)

	start, _ := m.EventByName("start")
	assert.Equal(t, model.EventBound, m.Events[start].Type)
	assert.Equal(t, -500.0, m.Events[start].Fixed)

	opts := s.AnalysisOptions()
	assert.Equal(t, 68.0, opts.Threshold)
}

func TestBuild_UnknownPlugin(t *testing.T) {
	s, err := config.Parse([]byte(studyYAML))
	require.NoError(t, err)
	s.Events[0].Dates[0].Plugin = "c14"
	_, _, err = s.Build(likelihood.DefaultRegistry())
	assert.ErrorIs(t, err, likelihood.ErrUnknownPlugin)
	assert.ErrorIs(t, err, config.ErrInvalidStudy)
}

func TestBuild_InvalidModel(t *testing.T) {
	s, err := config.Parse([]byte(studyYAML))
	require.NoError(t, err)
	s.Settings.TMin = 2000
	_, _, err = s.Build(likelihood.DefaultRegistry())
	assert.ErrorIs(t, err, model.ErrInvalidModel)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "study.yaml")
	require.NoError(t, os.WriteFile(path, []byte(studyYAML), 0o644))
	s, err := config.Load(path)
	require.NoError(t, err)

	out, err := s.Marshal()
	require.NoError(t, err)
	again, err := config.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, s, again)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
