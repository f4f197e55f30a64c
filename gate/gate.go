// Copyright 2026 The Cockroach Authors
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

// Package gate coordinates many short-lived operations with occasional
// exclusive maintenance work.
//
// Routine operations bracket themselves with [Gate.Enter] and
// [Gate.Leave]. Maintenance calls [Gate.Exclusive], which seals the
// gate so that no new operation may enter, waits for the in-flight
// count to drain to zero, and then runs with the guarantee that it is
// alone. Operations that arrive while the gate is sealed queue until
// the maintenance work reopens it.
package gate

import (
	"context"
	"sync"
)

// A Gate tracks in-flight operations and lets an exclusive caller
// drain them. The zero value is an open Gate. A Gate must not be
// copied after first use.
type Gate struct {
	mu struct {
		sync.Mutex
		inflight int
		sealed   bool
		admit    chan struct{} // Non-nil while sealed; closed on reopen.
		drained  chan struct{} // Non-nil while sealed with entrants; closed at zero.
	}
}

// Enter registers the caller as an in-flight operation. If the gate is
// sealed, Enter blocks until it reopens, or returns the context's
// cause if ctx ends first. A successful Enter must be paired with
// [Gate.Leave].
func (g *Gate) Enter(ctx context.Context) error {
	for {
		g.mu.Lock()
		if !g.mu.sealed {
			g.mu.inflight++
			g.mu.Unlock()
			return nil
		}
		admit := g.mu.admit
		g.mu.Unlock()

		select {
		case <-admit:
		case <-ctx.Done():
			return context.Cause(ctx)
		}
	}
}

// Leave retires an in-flight operation. It panics if the gate has no
// entrants.
func (g *Gate) Leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.mu.inflight <= 0 {
		panic("gate: Leave without Enter")
	}
	g.mu.inflight--
	if g.mu.inflight == 0 && g.mu.drained != nil {
		close(g.mu.drained)
		g.mu.drained = nil
	}
}

// Exclusive seals the gate, waits for all in-flight operations to
// leave, and returns a function that reopens it. Callers must invoke
// the returned function exactly once; it is safe to defer. If ctx ends
// before the gate drains, the gate is reopened and the context's cause
// is returned.
//
// Concurrent Exclusive calls serialize against one another, though not
// in any particular order relative to blocked [Gate.Enter] calls.
func (g *Gate) Exclusive(ctx context.Context) (func(), error) {
	for {
		g.mu.Lock()
		if !g.mu.sealed {
			g.mu.sealed = true
			g.mu.admit = make(chan struct{})
			var drained chan struct{}
			if g.mu.inflight > 0 {
				drained = make(chan struct{})
				g.mu.drained = drained
			}
			g.mu.Unlock()

			if drained != nil {
				select {
				case <-drained:
				case <-ctx.Done():
					g.reopen()
					return nil, context.Cause(ctx)
				}
			}
			var once sync.Once
			return func() { once.Do(g.reopen) }, nil
		}
		admit := g.mu.admit
		g.mu.Unlock()

		select {
		case <-admit:
		case <-ctx.Done():
			return nil, context.Cause(ctx)
		}
	}
}

func (g *Gate) reopen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mu.sealed = false
	close(g.mu.admit)
	g.mu.admit = nil
	// Only the sealing caller waits on drained; it is done with it.
	g.mu.drained = nil
}

// inflight reports the number of entrants. For testing.
func (g *Gate) inflight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mu.inflight
}

// isSealed reports whether an exclusive caller owns the gate. For
// testing.
func (g *Gate) isSealed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mu.sealed
}
