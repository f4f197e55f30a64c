// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package stopper contains a utility for coordinating the graceful
// shutdown of long-running tasks.
package stopper

import (
	"context"
	"sync"
	"time"
)

// A Context manages a collection of tasks and is canceled in two
// phases. Calling [Context.Stop] announces the intent to shut down by
// closing the [Context.Stopping] channel. Tasks are expected to notice
// and return on their own; the underlying [context.Context] is only
// canceled once they have all exited, or once the grace period given
// to Stop has elapsed.
//
// A Context whose parent is canceled behaves as though Stop were
// called with no grace period.
type Context struct {
	context.Context
	cancel   context.CancelFunc
	stopping chan struct{} // Closed by Stop.
	stopped  chan struct{} // Closed once stopping and no tasks remain.

	mu struct {
		sync.Mutex
		count    int   // Tasks started and not yet finished.
		err      error // The first error returned by any task.
		finished bool  // The stopped channel has been closed.
		soft     bool  // Stop has been called.
	}
}

var _ context.Context = (*Context)(nil)

// WithContext creates a new Context whose lifecycle is bounded by the
// parent context.
func WithContext(parent context.Context) *Context {
	inner, cancel := context.WithCancel(parent)
	c := &Context{
		cancel:   cancel,
		stopping: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	c.Context = inner
	// Treat cancellation of the parent as a hard stop.
	context.AfterFunc(inner, func() { c.Stop(0) })
	return c
}

// Go starts a task in a new goroutine. It returns false if the Context
// has already begun stopping, in which case the task is not started.
//
// If the task returns a non-nil error, the error will be reported by
// [Context.Wait] and the Context performs a hard stop, canceling any
// remaining tasks.
func (c *Context) Go(fn func(*Context) error) bool {
	c.mu.Lock()
	if c.mu.soft {
		c.mu.Unlock()
		return false
	}
	c.mu.count++
	c.mu.Unlock()
	go func() {
		defer c.exit()
		if err := fn(c); err != nil {
			c.noteError(err)
			c.Stop(0)
		}
	}()
	return true
}

// IsStopping returns true once [Context.Stop] has been called.
func (c *Context) IsStopping() bool {
	select {
	case <-c.stopping:
		return true
	default:
		return false
	}
}

// Len returns the number of tasks that have not yet finished.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.count
}

// Stop begins a graceful shutdown. The [Context.Stopping] channel is
// closed immediately and no further tasks can be started. The
// underlying context is canceled once every task has exited, or after
// the grace period has elapsed, whichever comes first. A zero or
// negative grace period cancels immediately.
//
// Stop may be called multiple times; calls after the first have no
// effect.
func (c *Context) Stop(gracePeriod time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mu.soft {
		return
	}
	c.mu.soft = true
	close(c.stopping)
	switch {
	case c.mu.count == 0:
		c.finishLocked()
	case gracePeriod <= 0:
		c.cancel()
	default:
		time.AfterFunc(gracePeriod, c.cancel)
	}
}

// Stopping returns a channel that is closed when [Context.Stop] has
// been called. Tasks should monitor this channel and exit when it
// closes.
func (c *Context) Stopping() <-chan struct{} {
	return c.stopping
}

// Wait blocks until the Context has fully stopped: Stop was called,
// every task has exited, and the underlying context is canceled. It
// returns the first error reported by any task.
func (c *Context) Wait() error {
	<-c.stopped
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mu.err
}

// exit records the completion of a task started by [Context.Go].
func (c *Context) exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mu.count--
	if c.mu.soft && c.mu.count == 0 {
		c.finishLocked()
	}
}

// finishLocked transitions to the fully-stopped state. Callers must
// hold mu.
func (c *Context) finishLocked() {
	if c.mu.finished {
		return
	}
	c.mu.finished = true
	close(c.stopped)
	c.cancel()
}

func (c *Context) noteError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mu.err == nil {
		c.mu.err = err
	}
}
