// SPDX-License-Identifier: MIT
// Package progress - zap observer.

package progress

import "go.uber.org/zap"

// Logger writes step announcements at Info and progress at Debug, the
// latter only every Every-th position and at the end of a step.
type Logger struct {
	l     *zap.Logger
	every int
	label string
	max   int
}

// NewLogger returns a Logger. every <= 0 logs only step ends. Panics on a
// nil logger.
func NewLogger(l *zap.Logger, every int) *Logger {
	if l == nil {
		panic("progress: NewLogger(nil)")
	}
	return &Logger{l: l, every: every}
}

// StepChanged implements Observer.
func (o *Logger) StepChanged(label string, min, max int) {
	o.label, o.max = label, max
	o.l.Info("step", zap.String("label", label), zap.Int("min", min), zap.Int("max", max))
}

// StepProgressed implements Observer.
func (o *Logger) StepProgressed(i int) {
	if i == o.max || (o.every > 0 && i%o.every == 0) {
		o.l.Debug("progress", zap.String("label", o.label), zap.Int("i", i), zap.Int("max", o.max))
	}
}
