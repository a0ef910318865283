// SPDX-License-Identifier: MIT

package mcmc_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/chronolath/likelihood"
	"github.com/katalvlaran/chronolath/mcmc"
	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/variable"
)

// study builds one phase holding two events, one dated by inversion and one
// by adaptive Gaussian MH.
func study(t testing.TB) *model.Model {
	t.Helper()
	m := model.New(model.Settings{TMin: -1000, TMax: 1000, Step: 1})
	p := m.AddPhase(model.Phase{Name: "P"})
	dates := []struct {
		name    string
		measure float64
		method  sampler.Method
	}{
		{"e1", -120, sampler.MethodInversion},
		{"e2", 80, sampler.MethodAdaptiveGaussMH},
	}
	for _, d := range dates {
		e := m.AddEvent(model.Event{Name: d.name})
		require.NoError(t, m.AddToPhase(e, p))
		_, err := m.AddDate(e, model.Date{
			Name:   d.name + "/d",
			Plugin: likelihood.Gauss{},
			Data:   likelihood.Data{likelihood.FieldMeasure: d.measure, likelihood.FieldError: 40},
			Method: d.method,
		})
		require.NoError(t, err)
	}
	return m
}

func chains() []mcmc.ChainSpec {
	return []mcmc.ChainSpec{
		{Seed: 11, Burn: 20, BatchSize: 10, MaxBatches: 3, Run: 30, Thinning: 3},
		{Burn: 15, BatchSize: 10, MaxBatches: 2, Run: 20, Thinning: 2},
	}
}

// recorder counts notifications and can cancel on a chosen step.
type recorder struct {
	steps    []string
	updates  int
	cancelOn string
	cancel   context.CancelFunc
	armed    bool
}

func (r *recorder) StepChanged(label string, _, _ int) {
	r.steps = append(r.steps, label)
	r.armed = r.cancelOn != "" && strings.HasPrefix(label, r.cancelOn)
}

func (r *recorder) StepProgressed(int) {
	r.updates++
	if r.armed {
		r.cancel()
		r.armed = false
	}
}

// TestRun_TraceLength checks the per-chain layout B + k·S + ⌊R/t⌋.
func TestRun_TraceLength(t *testing.T) {
	m := study(t)
	rec := &recorder{}
	rep, err := mcmc.New(m, chains(), mcmc.WithObserver(rec)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, mcmc.StatusFinished, rep.Status)
	assert.Equal(t, mcmc.StateFinished, rep.State)
	require.Len(t, rep.Chains, 2)
	assert.Len(t, rep.InitLogs, 2)
	assert.Equal(t, rep.Chains, m.Chains)

	var want int
	for i, c := range rep.Chains {
		assert.GreaterOrEqual(t, c.BatchesUsed, 1)
		assert.LessOrEqual(t, c.BatchesUsed, chains()[i].MaxBatches)
		want += c.Burn + c.BatchesUsed*c.BatchSize + c.Run/c.Thinning
	}
	for _, v := range m.Variables() {
		assert.Len(t, v.Trace, want)
	}
	for _, v := range m.MHVariables() {
		assert.Len(t, v.Accepts, 30+20, "every acquisition iteration is recorded")
	}
	// 10 + 10 run samples feed the analysis
	assert.Len(t, m.Events[0].Theta.RunTraces(m.Chains), 20)
	assert.InDelta(t, 1, m.Events[0].Theta.Density.Area(), 1e-6)

	assert.Equal(t, "Calibrating", rec.steps[0])
	assert.Contains(t, rec.steps, "Burn-in chain 2/2")
	assert.Contains(t, rec.steps, "Acquisition chain 1/2")
}

func TestRun_Deterministic(t *testing.T) {
	run := func() *model.Model {
		m := study(t)
		_, err := mcmc.New(m, chains(), mcmc.WithoutAnalysis()).Run(context.Background())
		require.NoError(t, err)
		return m
	}
	a, b := run(), run()
	assert.Equal(t, a.Events[1].Theta.Trace, b.Events[1].Theta.Trace)
	assert.Equal(t, a.Dates[1].Sigma.Trace, b.Dates[1].Sigma.Trace)

	m := study(t)
	_, err := mcmc.New(m, chains(), mcmc.WithoutAnalysis(), mcmc.WithSeed(99)).Run(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Events[1].Theta.Trace, m.Events[1].Theta.Trace)
}

// TestRun_AdaptationStops expects every adaptive variable inside the target
// band after the last batch whenever adaptation ended before MaxBatches.
func TestRun_AdaptationStops(t *testing.T) {
	m := study(t)
	spec := []mcmc.ChainSpec{{Seed: 3, Burn: 50, BatchSize: 50, MaxBatches: 40, Run: 10, Thinning: 1}}
	rep, err := mcmc.New(m, spec, mcmc.WithoutAnalysis()).Run(context.Background())
	require.NoError(t, err)

	used := rep.Chains[0].BatchesUsed
	for _, v := range m.AdaptiveVariables() {
		require.Len(t, v.BatchRates, used)
		if used < spec[0].MaxBatches {
			last := v.BatchRates[used-1]
			assert.GreaterOrEqual(t, last, 100*variable.TargetRateMin-1e-9)
			assert.LessOrEqual(t, last, 100*variable.TargetRateMax+1e-9)
		}
	}
}

func TestRun_Abort(t *testing.T) {
	m := study(t)
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recorder{cancelOn: "Burn-in", cancel: cancel}

	rep, err := mcmc.New(m, chains(), mcmc.WithObserver(rec), mcmc.WithLogger(zap.New(core))).Run(ctx)
	require.NoError(t, err, "cancellation is a status")
	assert.Equal(t, mcmc.StatusAborted, rep.Status)
	assert.Equal(t, mcmc.StateBurning, rep.State)
	assert.Equal(t, "aborted by user", rep.Status.String())
	assert.Equal(t, 1, logs.FilterMessage("run aborted").Len())

	// the first burn-in iteration completed before the cancel
	assert.Len(t, m.Events[0].Theta.Trace, 1)
	assert.Len(t, rep.Chains, 1)
}

func TestRun_Invalid(t *testing.T) {
	m := model.New(model.Settings{TMin: 10, TMax: 0, Step: 1})
	bad := []mcmc.ChainSpec{{Burn: -1, BatchSize: 0, Run: 1, Thinning: 2}}
	_, err := mcmc.New(m, bad).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, mcmc.ErrInvalidChain)
	assert.ErrorIs(t, err, model.ErrInvalidModel)

	_, err = mcmc.New(study(t), nil).Run(context.Background())
	assert.ErrorIs(t, err, mcmc.ErrNoChains)
}

func TestValidateChains(t *testing.T) {
	assert.NoError(t, mcmc.ValidateChains(chains()))

	err := mcmc.ValidateChains([]mcmc.ChainSpec{{Burn: -1, BatchSize: 0, MaxBatches: -1, Run: 1, Thinning: 2}})
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 4)
}

func TestOptions_PanicOnNil(t *testing.T) {
	assert.Panics(t, func() { mcmc.WithLogger(nil) })
	assert.Panics(t, func() { mcmc.WithObserver(nil) })
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "adapting", mcmc.StateAdapting.String())
	assert.Equal(t, "State(42)", mcmc.State(42).String())
}
