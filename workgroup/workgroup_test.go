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

package workgroup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConcurrencyLimit(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const size = 3
	const tasks = 24
	g := WithSize(ctx, size, -1)

	var active, peak, ran atomic.Int32
	for i := 0; i < tasks; i++ {
		r.NoError(g.Go(func(context.Context) {
			now := active.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
			ran.Add(1)
		}))
	}

	r.NoError(g.Wait(ctx))
	r.Equal(int32(tasks), ran.Load())
	r.LessOrEqual(peak.Load(), int32(size))
	r.Zero(g.Len())
}

func TestQueueDepth(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g := WithSize(ctx, 1, 1)

	// Park the single worker.
	release := make(chan struct{})
	started := make(chan struct{})
	r.NoError(g.Go(func(context.Context) {
		close(started)
		<-release
	}))
	select {
	case <-started:
	case <-ctx.Done():
		r.Fail("timed out waiting for worker")
	}

	// One slot in the queue, then rejection.
	r.NoError(g.Go(func(context.Context) {}))
	err := g.Go(func(context.Context) {})
	r.ErrorContains(err, "queue depth 1 exceeded")

	close(release)
	r.NoError(g.Wait(ctx))
}

// A zero-depth Group still runs one function per worker slot; only
// work that would have to wait behind a busy worker is refused.
func TestZeroQueueDepth(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g := WithSize(ctx, 1, 0)

	release := make(chan struct{})
	started := make(chan struct{})
	r.NoError(g.Go(func(context.Context) {
		close(started)
		<-release
	}))
	select {
	case <-started:
	case <-ctx.Done():
		r.Fail("timed out waiting for worker")
	}

	err := g.Go(func(context.Context) {})
	r.ErrorContains(err, "queue depth 0 exceeded")

	close(release)
	r.NoError(g.Wait(ctx))
}

func TestWaitContext(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	g := WithSize(ctx, 1, -1)
	release := make(chan struct{})
	r.NoError(g.Go(func(context.Context) { <-release }))

	waitCtx, waitCancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer waitCancel()
	r.ErrorIs(g.Wait(waitCtx), context.DeadlineExceeded)

	close(release)
	r.NoError(g.Wait(ctx))
}

// TestCanceledContext verifies that new work is rejected after the
// Group's context is canceled, while queued functions still run and
// observe the cancellation.
func TestCanceledContext(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())

	g := WithSize(ctx, 1, -1)
	release := make(chan struct{})
	r.NoError(g.Go(func(context.Context) { <-release }))

	sawCancel := make(chan error, 1)
	r.NoError(g.Go(func(ctx context.Context) {
		sawCancel <- ctx.Err()
	}))

	cancel()
	r.ErrorIs(g.Go(func(context.Context) {}), context.Canceled)

	close(release)
	select {
	case err := <-sawCancel:
		r.ErrorIs(err, context.Canceled)
	case <-time.After(10 * time.Second):
		r.Fail("timed out waiting for queued function")
	}
	r.NoError(g.Wait(context.Background()))
}
