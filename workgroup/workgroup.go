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

// Package workgroup contains a bounded pool of worker goroutines fed
// from a bounded queue.
package workgroup

import (
	"context"
	"fmt"
	"sync"

	"github.com/cockroachdb/gridlock/notify"
)

// A Group runs submitted functions on a limited number of goroutines.
// Workers are started on demand and exit once the queue is empty, so
// an idle Group holds no resources beyond its queue slice.
type Group struct {
	ctx   context.Context
	size  int // Maximum number of concurrent workers.
	depth int // Maximum queue length, negative for unbounded.

	// Queued plus executing functions; [Group.Wait] blocks on this.
	outstanding *notify.Var[int]

	mu struct {
		sync.Mutex
		queue   []func(context.Context)
		workers int
	}
}

// WithSize returns a Group that runs up to size functions concurrently
// and holds up to depth more in its queue. A negative depth removes
// the queue bound. The context is passed to every submitted function;
// once it is canceled, [Group.Go] rejects further work.
func WithSize(ctx context.Context, size, depth int) *Group {
	if size < 1 {
		size = 1
	}
	return &Group{
		ctx:         ctx,
		size:        size,
		depth:       depth,
		outstanding: notify.VarOf(0),
	}
}

// Go submits a function to the pool. It returns an error if every
// worker is busy and the queue is at capacity, or if the Group's
// context has been canceled. The function may begin executing before
// Go returns. Functions already queued when the context is canceled
// are still invoked, and are expected to notice the canceled context
// and return promptly.
func (g *Group) Go(fn func(context.Context)) error {
	if err := g.ctx.Err(); err != nil {
		return err
	}
	g.apply(1)
	g.mu.Lock()
	// The queue bound applies only to work that must wait: a function
	// that a fresh worker can take immediately is always admitted.
	spawn := g.mu.workers < g.size
	if !spawn && g.depth >= 0 && len(g.mu.queue) >= g.depth {
		g.mu.Unlock()
		g.apply(-1)
		return fmt.Errorf("queue depth %d exceeded", g.depth)
	}
	g.mu.queue = append(g.mu.queue, fn)
	if spawn {
		g.mu.workers++
	}
	g.mu.Unlock()
	if spawn {
		go g.work()
	}
	return nil
}

// Len returns the number of queued and executing functions.
func (g *Group) Len() int {
	return g.outstanding.Peek()
}

// Wait blocks until the pool is idle or the given context is canceled.
func (g *Group) Wait(ctx context.Context) error {
	for {
		count, changed := g.outstanding.Get()
		if count == 0 {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (g *Group) apply(delta int) {
	g.outstanding.Update(func(old int) int { return old + delta })
}

// work drains the queue. The empty-queue check and the worker-count
// decrement happen under the same critical section, so a concurrent
// [Group.Go] either sees the queued function picked up or starts a
// replacement worker.
func (g *Group) work() {
	for {
		g.mu.Lock()
		if len(g.mu.queue) == 0 {
			g.mu.workers--
			g.mu.Unlock()
			return
		}
		fn := g.mu.queue[0]
		g.mu.queue = g.mu.queue[1:]
		g.mu.Unlock()
		fn(g.ctx)
		g.apply(-1)
	}
}
