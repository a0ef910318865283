// SPDX-License-Identifier: MIT
// Package mcmc - the chain state machine.

package mcmc

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/chronolath/model"
	"github.com/katalvlaran/chronolath/progress"
	"github.com/katalvlaran/chronolath/sampler"
	"github.com/katalvlaran/chronolath/variable"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger. Panics on nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("mcmc: WithLogger(nil)")
	}
	return func(c *Controller) { c.logger = l }
}

// WithObserver sets the progress observer. Panics on nil.
func WithObserver(o progress.Observer) Option {
	if o == nil {
		panic("mcmc: WithObserver(nil)")
	}
	return func(c *Controller) { c.observer = o }
}

// WithAnalysis sets the options of the final posterior analysis.
func WithAnalysis(opts variable.AnalysisOptions) Option {
	return func(c *Controller) { c.analysis = opts }
}

// WithSeed overrides the run seed, which otherwise comes from the first
// chain spec. 0 means sampler.DefaultSeed.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithoutAnalysis stops the run after the last chain and its
// autocorrelations.
func WithoutAnalysis() Option {
	return func(c *Controller) { c.skipAnalysis = true }
}

// Controller runs the chains of one study over a model.
type Controller struct {
	model  *model.Model
	chains []ChainSpec

	logger       *zap.Logger
	observer     progress.Observer
	analysis     variable.AnalysisOptions
	seed         int64
	seedSet      bool
	skipAnalysis bool

	state State
	sc    *sampler.Context
}

// New returns a controller for m and chains. The chain slice is copied.
func New(m *model.Model, chains []ChainSpec, opts ...Option) *Controller {
	c := &Controller{
		model:    m,
		chains:   append([]ChainSpec(nil), chains...),
		logger:   zap.NewNop(),
		observer: progress.Nop{},
		analysis: variable.DefaultAnalysisOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state. Not safe to call concurrently with Run.
func (c *Controller) State() State { return c.state }

func (c *Controller) enter(s State, label string, max int) {
	c.state = s
	c.observer.StepChanged(label, 0, max)
	c.logger.Debug("state", zap.Stringer("state", s), zap.String("step", label))
}

// Run validates the model and chains, then runs every chain and the final
// analysis. Validation problems are returned joined, before anything runs.
// Cancellation is not an error: the report then has StatusAborted.
func (c *Controller) Run(ctx context.Context) (Report, error) {
	var rep Report
	if err := errors.Join(ValidateChains(c.chains), c.model.Validate()); err != nil {
		return rep, err
	}

	seed := c.chains[0].Seed
	if c.seedSet {
		seed = c.seed
	}
	c.sc = sampler.NewContext(sampler.NewRand(seed))
	m := c.model
	m.Reset(c.chains[0].BatchSize)
	m.Chains = m.Chains[:0]

	c.enter(StateCalibrating, "Calibrating", len(m.Dates))
	failed, err := m.Calibrate(ctx, c.observer.StepProgressed)
	rep.FailedDates = failed
	if err != nil {
		return c.stop(rep, err)
	}

	for i := range c.chains {
		if err := c.runChain(ctx, i, &rep); err != nil {
			return c.stop(rep, err)
		}
	}

	if err := m.ComputeCorrelations(ctx); err != nil {
		return c.stop(rep, err)
	}
	if !c.skipAnalysis {
		if err := m.Analyze(ctx, c.analysis); err != nil {
			return c.stop(rep, err)
		}
	}
	c.state = StateFinished
	rep.State = StateFinished
	rep.Status = StatusFinished
	c.logger.Info("run finished", zap.Int("chains", len(rep.Chains)))
	return rep, nil
}

// stop ends a run early. A context error becomes StatusAborted with a nil
// error; anything else is returned.
func (c *Controller) stop(rep Report, err error) (Report, error) {
	rep.State = c.state
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.logger.Info("run aborted", zap.Stringer("state", c.state), zap.Int("chains", len(rep.Chains)))
		c.state = StateAborted
		rep.Status = StatusAborted
		return rep, nil
	}
	return rep, fmt.Errorf("mcmc: %s: %w", rep.State, err)
}

func (c *Controller) runChain(ctx context.Context, i int, rep *Report) error {
	var (
		m     = c.model
		spec  = c.chains[i]
		n     = len(c.chains)
		sc    = c.sc
		label = func(step string) string { return fmt.Sprintf("%s chain %d/%d", step, i+1, n) }
	)
	spec.BatchesUsed = 0
	m.Chains = append(m.Chains, spec)
	rep.Chains = append(rep.Chains, spec)
	layout := &m.Chains[len(m.Chains)-1]
	for _, v := range m.MHVariables() {
		v.WindowLen = spec.BatchSize
		v.Window = v.Window[:0]
	}

	c.enter(StateInitializing, label("Initializing"), 1)
	sc.Acquire, sc.Memo = false, false
	ir, err := m.Initialize(ctx, sc)
	if err != nil {
		return fmt.Errorf("chain %d: %w", i, err)
	}
	rep.InitLogs = append(rep.InitLogs, ir.Log)
	rep.Substitutions = append(rep.Substitutions, ir.Substitutions...)
	c.observer.StepProgressed(1)

	c.enter(StateBurning, label("Burn-in"), spec.Burn)
	sc.Memo = true
	var it int
	for it = 1; it <= spec.Burn; it++ {
		if err := m.Iterate(ctx, sc); err != nil {
			return fmt.Errorf("chain %d: %w", i, err)
		}
		c.observer.StepProgressed(it)
	}

	c.enter(StateAdapting, label("Adapting"), spec.MaxBatches*spec.BatchSize)
	adaptive := m.AdaptiveVariables()
	var k int
	for k = 1; k <= spec.MaxBatches; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for it = 1; it <= spec.BatchSize; it++ {
			if err := m.Iterate(ctx, sc); err != nil {
				return fmt.Errorf("chain %d: %w", i, err)
			}
			c.observer.StepProgressed((k-1)*spec.BatchSize + it)
		}
		layout.BatchesUsed = k
		rep.Chains[i].BatchesUsed = k

		stable := true
		for _, v := range adaptive {
			if !v.Adapt(k) {
				stable = false
			}
		}
		if stable {
			break
		}
	}
	c.logger.Debug("adaptation done",
		zap.Int("chain", i),
		zap.Int("batches", layout.BatchesUsed),
		zap.Int("max", spec.MaxBatches))

	c.enter(StateRunning, label("Acquisition"), spec.Run)
	sc.Acquire = true
	for it = 1; it <= spec.Run; it++ {
		sc.Memo = it%spec.Thinning == 0
		if err := m.Iterate(ctx, sc); err != nil {
			return fmt.Errorf("chain %d: %w", i, err)
		}
		c.observer.StepProgressed(it)
	}
	sc.Acquire, sc.Memo = false, false
	return nil
}
