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

// Package rwlock provides a reader-writer mutex whose blocking
// acquisitions honor a [context.Context].
//
// The locking discipline differs from [sync.RWMutex] in two ways that
// matter to callers coordinating many small resources:
//
//   - Acquisition is abortable. RLock and Lock return early with the
//     context's cause when the caller's deadline expires or the caller
//     is canceled, leaving the lock in a consistent state.
//   - Writers are preferred. Once a writer is waiting, later readers
//     queue behind it instead of piling onto the current read
//     generation, so a steady stream of readers cannot starve a
//     writer.
//
// Blocked acquirers form a single FIFO queue. When an exclusive holder
// releases, the longest-waiting acquirer runs next; if that acquirer
// is a reader, the entire leading run of readers is admitted as one
// batch. Readers therefore wait for at most one writer turn, and a
// writer waits for at most the readers admitted ahead of it.
package rwlock

import (
	"context"
	"sync"
)

// waiter represents one blocked acquisition. The ready channel is
// closed after the lock has been handed to the waiter; granted
// distinguishes a grant from a cancellation when both race.
type waiter struct {
	exclusive bool
	granted   bool
	ready     chan struct{}
}

// A Mutex is a writer-preferring reader/writer lock. The zero value is
// an unlocked Mutex. A Mutex must not be copied after first use.
type Mutex struct {
	mu struct {
		sync.Mutex
		readers int // Active shared holders.
		writer  bool
		queue   []*waiter // Blocked acquirers in arrival order.
	}
}

// RLock acquires the lock in shared mode, blocking while an exclusive
// holder or a queued writer is ahead of the caller. It returns nil
// once the lock is held, or the context's cause if ctx ends first.
func (m *Mutex) RLock(ctx context.Context) error {
	m.mu.Lock()
	if !m.mu.writer && len(m.mu.queue) == 0 {
		m.mu.readers++
		m.mu.Unlock()
		return nil
	}
	w := &waiter{ready: make(chan struct{})}
	m.mu.queue = append(m.mu.queue, w)
	m.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return m.abandon(ctx, w)
	}
}

// RUnlock releases one shared hold. It panics if the lock is not held
// in shared mode.
func (m *Mutex) RUnlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rUnlockLocked()
}

// Lock acquires the lock in exclusive mode, blocking until all prior
// holders and queued acquirers have had their turn. It returns nil
// once the lock is held, or the context's cause if ctx ends first.
func (m *Mutex) Lock(ctx context.Context) error {
	m.mu.Lock()
	if !m.mu.writer && m.mu.readers == 0 && len(m.mu.queue) == 0 {
		m.mu.writer = true
		m.mu.Unlock()
		return nil
	}
	w := &waiter{exclusive: true, ready: make(chan struct{})}
	m.mu.queue = append(m.mu.queue, w)
	m.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return m.abandon(ctx, w)
	}
}

// Unlock releases the exclusive hold. It panics if the lock is not
// held in exclusive mode.
func (m *Mutex) Unlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unlockLocked()
}

// abandon withdraws a blocked waiter after its context ended. If the
// grant landed before the cancellation could be acted upon, the grant
// is surrendered so that other acquirers may proceed.
func (m *Mutex) abandon(ctx context.Context, w *waiter) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w.granted {
		if w.exclusive {
			m.unlockLocked()
		} else {
			m.rUnlockLocked()
		}
		return context.Cause(ctx)
	}

	for i, q := range m.mu.queue {
		if q == w {
			m.mu.queue = append(m.mu.queue[:i], m.mu.queue[i+1:]...)
			break
		}
	}
	// Removing a queued writer may expose a run of readers that no
	// longer conflicts with the current holders.
	m.admitLocked()
	return context.Cause(ctx)
}

func (m *Mutex) rUnlockLocked() {
	if m.mu.readers <= 0 {
		panic("rwlock: RUnlock of unlocked Mutex")
	}
	m.mu.readers--
	if m.mu.readers == 0 {
		m.admitLocked()
	}
}

func (m *Mutex) unlockLocked() {
	if !m.mu.writer {
		panic("rwlock: Unlock of unlocked Mutex")
	}
	m.mu.writer = false
	m.admitLocked()
}

// admitLocked hands the lock to as many queued waiters as the current
// state allows: the head writer once all readers have drained, or the
// entire leading run of readers as a single batch.
func (m *Mutex) admitLocked() {
	if m.mu.writer || len(m.mu.queue) == 0 {
		return
	}
	if m.mu.queue[0].exclusive {
		if m.mu.readers > 0 {
			return
		}
		w := m.mu.queue[0]
		m.mu.queue = m.mu.queue[1:]
		m.mu.writer = true
		w.granted = true
		close(w.ready)
		return
	}
	n := 0
	for n < len(m.mu.queue) && !m.mu.queue[n].exclusive {
		w := m.mu.queue[n]
		w.granted = true
		close(w.ready)
		n++
	}
	m.mu.readers += n
	m.mu.queue = m.mu.queue[n:]
}

// queued reports the number of blocked acquirers. For testing.
func (m *Mutex) queued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mu.queue)
}
