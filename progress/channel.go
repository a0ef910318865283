// SPDX-License-Identifier: MIT
// Package progress - non-blocking channel observer.

package progress

import (
	"sync"
	"sync/atomic"
)

// Kind tells step announcements from progress updates.
type Kind int

const (
	KindStep Kind = iota
	KindProgress
)

// Event is one notification as delivered by Channel.
type Event struct {
	Kind     Kind
	Label    string // KindStep
	Min, Max int    // KindStep
	Value    int    // KindProgress
}

// Channel is an Observer that forwards notifications to a buffered
// channel. Sends never block: when the buffer is full the event is dropped
// and counted. Step announcements are dropped like any other event, so
// consumers must tolerate gaps.
type Channel struct {
	ch      chan Event
	dropped atomic.Int64
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
}

// NewChannel returns a Channel with the given buffer size. Panics if
// size < 1.
func NewChannel(size int) *Channel {
	if size < 1 {
		panic("progress: NewChannel size must be >= 1")
	}
	return &Channel{ch: make(chan Event, size)}
}

// C returns the receive side.
func (c *Channel) C() <-chan Event { return c.ch }

// Dropped returns the number of events lost to a full buffer.
func (c *Channel) Dropped() int64 { return c.dropped.Load() }

// Close closes the receive side. Later notifications are discarded.
// Safe to call more than once.
func (c *Channel) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.ch)
		c.mu.Unlock()
	})
}

func (c *Channel) send(e Event) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.ch <- e:
	default:
		c.dropped.Add(1)
	}
}

// StepChanged implements Observer.
func (c *Channel) StepChanged(label string, min, max int) {
	c.send(Event{Kind: KindStep, Label: label, Min: min, Max: max})
}

// StepProgressed implements Observer.
func (c *Channel) StepProgressed(i int) {
	c.send(Event{Kind: KindProgress, Value: i})
}
