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

package grid

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// overlapChecker records lock grants through [Events] and flags any
// overlap the per-cell locks must rule out: a writer alongside any
// other holder of the same cell.
type overlapChecker struct {
	mu         sync.Mutex
	readers    map[Coord]int
	writers    map[Coord]int
	violations []string
}

func newOverlapChecker() *overlapChecker {
	return &overlapChecker{
		readers: make(map[Coord]int),
		writers: make(map[Coord]int),
	}
}

func (o *overlapChecker) events() *Events {
	return &Events{
		OnAcquire: func(c Coord, exclusive bool) {
			o.mu.Lock()
			defer o.mu.Unlock()
			if exclusive {
				if o.readers[c] > 0 || o.writers[c] > 0 {
					o.violations = append(o.violations,
						fmt.Sprintf("writer joined %d readers, %d writers at %v",
							o.readers[c], o.writers[c], c))
				}
				o.writers[c]++
			} else {
				if o.writers[c] > 0 {
					o.violations = append(o.violations,
						fmt.Sprintf("reader joined a writer at %v", c))
				}
				o.readers[c]++
			}
		},
		OnRelease: func(c Coord, exclusive bool) {
			o.mu.Lock()
			defer o.mu.Unlock()
			if exclusive {
				o.writers[c]--
			} else {
				o.readers[c]--
			}
		},
	}
}

func (o *overlapChecker) check(t *testing.T) {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, v := range o.violations {
		t.Error(v)
	}
}

// Readers of one cell proceed together; a writer waits them out.
func TestConcurrentReaders(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(2, 2)
	r.NoError(err)
	r.NoError(tbl.Set(ctx, 0, 0, "v"))

	// The first shared acquisition of (0,0) parks inside its critical
	// section until released.
	started := make(chan struct{})
	release := make(chan struct{})
	var captured atomic.Bool
	tbl.SetEvents(&Events{
		OnAcquire: func(c Coord, exclusive bool) {
			if !exclusive && c == (Coord{}) && captured.CompareAndSwap(false, true) {
				close(started)
				<-release
			}
		},
	})

	slowDone := make(chan error, 1)
	go func() {
		_, err := tbl.Get(ctx, 0, 0)
		slowDone <- err
	}()
	select {
	case <-started:
	case <-ctx.Done():
		r.Fail("slow reader never acquired the cell")
	}

	// Other readers of the same cell are not blocked.
	for i := 0; i < 3; i++ {
		quick, quickCancel := context.WithTimeout(ctx, time.Second)
		v, err := tbl.Get(quick, 0, 0)
		quickCancel()
		r.NoError(err)
		r.Equal("v", v)
	}

	// A writer is.
	short, shortCancel := context.WithTimeout(ctx, 50*time.Millisecond)
	err = tbl.Set(short, 0, 0, "w")
	shortCancel()
	r.ErrorIs(err, ErrTimeout)
	r.ErrorIs(err, context.DeadlineExceeded)

	// Unrelated cells never waited.
	r.NoError(tbl.Set(ctx, 1, 1, "elsewhere"))

	close(release)
	r.NoError(<-slowDone)

	// The timed-out writer left no residue on the lock.
	r.NoError(tbl.Set(ctx, 0, 0, "w"))
	v, err := tbl.Get(ctx, 0, 0)
	r.NoError(err)
	r.Equal("w", v)
}

func TestInterrupted(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(1, 1)
	r.NoError(err)

	// Park a writer in its critical section.
	started := make(chan struct{})
	release := make(chan struct{})
	var captured atomic.Bool
	tbl.SetEvents(&Events{
		OnAcquire: func(c Coord, exclusive bool) {
			if exclusive && captured.CompareAndSwap(false, true) {
				close(started)
				<-release
			}
		},
	})
	holderDone := make(chan error, 1)
	go func() {
		holderDone <- tbl.Set(ctx, 0, 0, "held")
	}()
	select {
	case <-started:
	case <-ctx.Done():
		r.Fail("holder never acquired the cell")
	}

	waitCtx, waitCancel := context.WithCancel(ctx)
	interrupted := make(chan error, 1)
	go func() {
		_, err := tbl.Get(waitCtx, 0, 0)
		interrupted <- err
	}()
	// Let the reader reach the lock queue, then cancel it.
	time.Sleep(50 * time.Millisecond)
	waitCancel()
	err = <-interrupted
	r.ErrorIs(err, ErrInterrupted)
	r.ErrorIs(err, context.Canceled)

	close(release)
	r.NoError(<-holderDone)

	v, err := tbl.Get(ctx, 0, 0)
	r.NoError(err)
	r.Equal("held", v)
}

// A storm of readers and writers on a small table must never overlap
// a writer with any other holder of the same cell.
func TestMutualExclusion(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(2, 2)
	r.NoError(err)
	checker := newOverlapChecker()
	tbl.SetEvents(checker.events())

	const (
		workers    = 8
		iterations = 400
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		eg.Go(func() error {
			for j := 0; j < iterations; j++ {
				row, col := j%2, (j/2)%2
				if i%2 == 0 {
					if err := tbl.Set(egCtx, row, col, fmt.Sprintf("%d.%d", i, j)); err != nil {
						return err
					}
				} else if _, err := tbl.Get(egCtx, row, col); err != nil {
					return err
				}
			}
			return nil
		})
	}
	r.NoError(eg.Wait())
	checker.check(t)
}
