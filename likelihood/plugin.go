// SPDX-License-Identifier: MIT
// Package likelihood - plugin contract and registry.

package likelihood

import (
	"fmt"
	"sort"
	"sync"

	"github.com/katalvlaran/chronolath/posterior"
	"github.com/katalvlaran/chronolath/sampler"
)

// Data is the method-specific payload of a date, keyed by field name.
type Data map[string]float64

// Get returns d[key] or ErrBadData when it is missing.
func (d Data) Get(key string) (float64, error) {
	v, ok := d[key]
	if !ok {
		return 0, fmt.Errorf("field %q missing: %w", key, ErrBadData)
	}
	return v, nil
}

// Plugin is one dating method.
type Plugin interface {
	// ID is the registry key, e.g. "gauss".
	ID() string
	// Likelihood returns the unnormalized density of d at calendar time t.
	Likelihood(t float64, d Data) float64
	// DataMethod is the default sampling method for dates of this plugin.
	DataMethod() sampler.Method
	// AllowedMethods lists every sampling method the plugin supports.
	AllowedMethods() []sampler.Method
	// Validate checks d before any evaluation.
	Validate(d Data) error
}

// Calibrator is implemented by plugins that compute the whole calibration
// curve themselves.
type Calibrator interface {
	Calibrate(d Data, g Grid) (posterior.Curve, error)
}

// Allows reports whether m is among p's allowed methods.
func Allows(p Plugin, m sampler.Method) bool {
	for _, a := range p.AllowedMethods() {
		if a == m {
			return true
		}
	}
	return false
}

// Registry maps plugin ids to plugins. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry returns a registry holding ps. Panics on duplicate ids.
func NewRegistry(ps ...Plugin) *Registry {
	r := &Registry{plugins: make(map[string]Plugin, len(ps))}
	for _, p := range ps {
		if err := r.Register(p); err != nil {
			panic(err)
		}
	}
	return r
}

// DefaultRegistry returns a registry with the reference plugins.
func DefaultRegistry() *Registry { return NewRegistry(Gauss{}, Unif{}) }

// Register adds p. Returns ErrDuplicatePlugin if the id is taken.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plugins[p.ID()]; ok {
		return fmt.Errorf("Register(%q): %w", p.ID(), ErrDuplicatePlugin)
	}
	r.plugins[p.ID()] = p
	return nil
}

// Get returns the plugin registered under id.
func (r *Registry) Get(id string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[id]
	if !ok {
		return nil, fmt.Errorf("Get(%q): %w", id, ErrUnknownPlugin)
	}
	return p, nil
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
