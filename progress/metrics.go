// SPDX-License-Identifier: MIT
// Package progress - Prometheus observer.

package progress

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the controller's progress as Prometheus collectors:
//
//	chronolath_mcmc_steps_total{step}  steps started, by step kind
//	chronolath_mcmc_step_position       position within the current step
//	chronolath_mcmc_step_size           max of the current step
//	chronolath_mcmc_updates_total       progress notifications received
type Metrics struct {
	steps    *prometheus.CounterVec
	position prometheus.Gauge
	size     prometheus.Gauge
	updates  prometheus.Counter

	mu   sync.Mutex
	last int
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chronolath",
			Subsystem: "mcmc",
			Name:      "steps_total",
			Help:      "Steps started by the MCMC controller",
		}, []string{"step"}),
		position: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chronolath",
			Subsystem: "mcmc",
			Name:      "step_position",
			Help:      "Position within the current step",
		}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chronolath",
			Subsystem: "mcmc",
			Name:      "step_size",
			Help:      "Upper bound of the current step",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chronolath",
			Subsystem: "mcmc",
			Name:      "updates_total",
			Help:      "Progress notifications received",
		}),
	}
	for _, c := range []prometheus.Collector{m.steps, m.position, m.size, m.updates} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// StepKind reduces a step label to its first word ("Burn-in 3/4" → "Burn-in")
// so the label set stays bounded.
func StepKind(label string) string {
	for i, r := range label {
		if r == ' ' {
			return label[:i]
		}
	}
	return label
}

// StepChanged implements Observer.
func (m *Metrics) StepChanged(label string, min, max int) {
	m.steps.WithLabelValues(StepKind(label)).Inc()
	m.size.Set(float64(max))
	m.position.Set(float64(min))
	m.mu.Lock()
	m.last = min
	m.mu.Unlock()
}

// StepProgressed implements Observer.
func (m *Metrics) StepProgressed(i int) {
	m.position.Set(float64(i))
	m.updates.Inc()
	m.mu.Lock()
	m.last = i
	m.mu.Unlock()
}

// Position returns the last reported position.
func (m *Metrics) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
