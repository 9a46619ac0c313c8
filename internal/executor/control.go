// Package executor drives a finalized plan against injected breed and
// accumulate operations: a strictly sequential post-order traversal with
// cooperative pause/abort control. At most one physical operation is ever
// outstanding; that is an invariant of the single apparatus the executor
// mirrors, not an optimization choice.
package executor

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAborted is returned when the host aborts execution through a Control.
var ErrAborted = errors.New("execution aborted")

// Control is the cooperative pause/abort signal shared between the
// executor and its host. The executor suspends in place while paused,
// polling at a bounded interval, rather than being preemptively
// interrupted.
type Control struct {
	mu      sync.Mutex
	paused  bool
	aborted bool
}

// NewControl returns a control in the running state.
func NewControl() *Control {
	return &Control{}
}

// Pause suspends execution before the next operation.
func (c *Control) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// Resume lifts a pause.
func (c *Control) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

// Abort stops execution at the next poll. An aborted control cannot be
// resumed.
func (c *Control) Abort() {
	c.mu.Lock()
	c.aborted = true
	c.mu.Unlock()
}

// Paused reports whether the control is currently paused.
func (c *Control) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Aborted reports whether the control has been aborted.
func (c *Control) Aborted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

// Wait blocks while the control is paused, polling at interval. It
// returns ErrAborted once aborted and the context error once ctx ends.
func (c *Control) Wait(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	for {
		c.mu.Lock()
		paused, aborted := c.paused, c.aborted
		c.mu.Unlock()
		if aborted {
			return ErrAborted
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !paused {
			return nil
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
