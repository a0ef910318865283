// SPDX-License-Identifier: MIT

package store_test

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/mcmc"
	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/store"
)

// finished runs a small one-phase study plus a fixed bound to completion.
func finished(t *testing.T) (*model.Model, mcmc.Report) {
	t.Helper()
	m := model.New(model.Settings{TMin: -500, TMax: 500, Step: 1})
	p := m.AddPhase(model.Phase{Name: "P"})
	for _, ev := range []struct {
		name    string
		measure float64
	}{{"e1", -50}, {"e2", 60}} {
		e := m.AddEvent(model.Event{Name: ev.name})
		require.NoError(t, m.AddToPhase(e, p))
		_, err := m.AddDate(e, model.Date{
			Name:   ev.name + "-d",
			Plugin: likelihood.Gauss{},
			Data:   likelihood.Data{likelihood.FieldMeasure: ev.measure, likelihood.FieldError: 20},
			Method: sampler.MethodInversion,
		})
		require.NoError(t, err)
	}
	m.AddEvent(model.Event{Name: "start", Type: model.EventBound, Bound: model.BoundFixed, Fixed: -400})
	spec := []mcmc.ChainSpec{{Seed: 9, Burn: 10, BatchSize: 10, MaxBatches: 1, Run: 40, Thinning: 2}}
	rep, err := mcmc.New(m, spec).Run(context.Background())
	require.NoError(t, err)
	return m, rep
}

func open(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveRun_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	m, rep := finished(t)

	id, err := s.SaveRun(ctx, m, rep, 9, []byte("settings: {}\n"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	run, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "finished", run.Status)
	assert.EqualValues(t, 9, run.Seed)
	assert.Equal(t, rep.Chains, run.Chains)

	theta, err := s.LoadVariable(ctx, id, "event/e1/theta")
	require.NoError(t, err)
	assert.Equal(t, m.Events[0].Theta.Trace, theta.Trace)
	assert.Equal(t, m.Events[0].Theta.Accepts, theta.Accepts)
	assert.Equal(t, m.Events[0].Theta.SigmaMH, theta.SigmaMH)

	alpha, err := s.LoadVariable(ctx, id, "phase/P/alpha")
	require.NoError(t, err)
	assert.Equal(t, m.Phases[0].Alpha.Trace, alpha.Trace)
	assert.Empty(t, alpha.Accepts)

	study, err := s.Study(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "settings: {}\n", string(study))

	results, err := s.Results(ctx, id)
	require.NoError(t, err)
	// 3 thetas + 2·(ti, sigma, wiggle) + alpha, beta, duration
	assert.Len(t, results, 12)
	for _, r := range results {
		if r.Name == "event/e2/theta" {
			assert.InDelta(t, m.Events[1].Theta.Stats.Mean, r.Mean, 1e-9)
			require.NotNil(t, r.Rate)
		}
		if r.Name == "phase/P/duration" {
			assert.Nil(t, r.Rate)
		}
	}
}

// TestSaveRun_FixedBound stores a constant bound without an acceptance
// rate or a credibility interval.
func TestSaveRun_FixedBound(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	m, rep := finished(t)
	start := m.Events[2].Theta
	require.True(t, start.Credibility.IsEmpty())

	id, err := s.SaveRun(ctx, m, rep, 9, nil)
	require.NoError(t, err)
	results, err := s.Results(ctx, id)
	require.NoError(t, err)
	var found bool
	for _, r := range results {
		if r.Name != "event/start/theta" {
			continue
		}
		found = true
		assert.Nil(t, r.Rate)
		assert.True(t, math.IsNaN(r.CredLo))
		assert.True(t, math.IsNaN(r.CredHi))
		assert.InDelta(t, -400, r.Mean, 1e-9)
	}
	require.True(t, found)

	theta, err := s.LoadVariable(ctx, id, "event/start/theta")
	require.NoError(t, err)
	assert.Equal(t, start.Trace, theta.Trace)
	assert.Empty(t, theta.Accepts)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	m, rep := finished(t)

	first, err := s.SaveRun(ctx, m, rep, 1, nil)
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, m, rep, 2, nil)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first")

	require.NoError(t, s.DeleteRun(ctx, first))
	assert.ErrorIs(t, s.DeleteRun(ctx, first), store.ErrNotFound)
	_, err = s.LoadVariable(ctx, first, "event/e1/theta")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetRun(ctx, first)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestResults_NonFinite(t *testing.T) {
	ctx := context.Background()
	s := open(t)
	m, rep := finished(t)
	m.Events[0].Theta.Stats.Mean = math.NaN()
	m.Events[0].Theta.Credibility.Hi = math.Inf(1)

	id, err := s.SaveRun(ctx, m, rep, 0, nil)
	require.NoError(t, err)
	results, err := s.Results(ctx, id)
	require.NoError(t, err)
	for _, r := range results {
		if r.Name == "event/e1/theta" {
			assert.True(t, math.IsNaN(r.Mean))
			assert.True(t, math.IsNaN(r.CredHi))
		}
	}
}
