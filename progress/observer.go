// SPDX-License-Identifier: MIT
// Package progress - observer contract and fan-out.

package progress

// Observer receives progress notifications. Implementations must return
// quickly and must not block.
type Observer interface {
	// StepChanged announces a new step whose progress runs from min to max.
	StepChanged(label string, min, max int)
	// StepProgressed reports the current position within the step.
	StepProgressed(i int)
}

// Nop ignores every notification.
type Nop struct{}

// StepChanged implements Observer.
func (Nop) StepChanged(string, int, int) {}

// StepProgressed implements Observer.
func (Nop) StepProgressed(int) {}

type fanout []Observer

func (f fanout) StepChanged(label string, min, max int) {
	for _, o := range f {
		o.StepChanged(label, min, max)
	}
}

func (f fanout) StepProgressed(i int) {
	for _, o := range f {
		o.StepProgressed(i)
	}
}

// Fanout forwards every notification to each non-nil observer in order.
func Fanout(obs ...Observer) Observer {
	out := make(fanout, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
