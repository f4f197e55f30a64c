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

package stopper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestStop verifies the two-phase shutdown: tasks see the stopping
// channel close while the context is still live, and the context is
// only canceled once the last task has exited.
func TestStop(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := WithContext(ctx)
	const tasks = 3
	live := make(chan error, tasks)
	for i := 0; i < tasks; i++ {
		r.True(s.Go(func(s *Context) error {
			<-s.Stopping()
			// The context must not be canceled before we return.
			live <- s.Err()
			return nil
		}))
	}
	r.Equal(tasks, s.Len())
	r.False(s.IsStopping())

	s.Stop(10 * time.Second)
	r.True(s.IsStopping())
	r.False(s.Go(func(*Context) error { return nil }))

	r.NoError(s.Wait())
	for i := 0; i < tasks; i++ {
		r.NoError(<-live)
	}
	r.ErrorIs(s.Err(), context.Canceled)
	r.Equal(0, s.Len())
}

// TestStopGracePeriod verifies that a task which ignores the stopping
// channel is canceled once the grace period elapses.
func TestStopGracePeriod(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := WithContext(ctx)
	r.True(s.Go(func(s *Context) error {
		<-s.Done()
		return nil
	}))

	s.Stop(10 * time.Millisecond)
	r.NoError(s.Wait())
}

// TestHardStop verifies that a zero grace period cancels immediately.
func TestHardStop(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s := WithContext(ctx)
	r.True(s.Go(func(s *Context) error {
		<-s.Done()
		return nil
	}))

	s.Stop(0)
	r.NoError(s.Wait())
	r.ErrorIs(s.Err(), context.Canceled)
}

// TestTaskError verifies that a failing task stops the Context and
// that its error is reported by Wait.
func TestTaskError(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	boom := errors.New("boom")
	s := WithContext(ctx)
	r.True(s.Go(func(s *Context) error {
		// Park until the failing task below brings the Context down.
		<-s.Done()
		return nil
	}))
	r.True(s.Go(func(*Context) error { return boom }))

	r.ErrorIs(s.Wait(), boom)
	r.True(s.IsStopping())
}

// TestParentCancel verifies that canceling the parent context behaves
// like a hard stop.
func TestParentCancel(t *testing.T) {
	r := require.New(t)
	parent, cancel := context.WithCancel(context.Background())

	s := WithContext(parent)
	r.True(s.Go(func(s *Context) error {
		<-s.Stopping()
		return nil
	}))

	cancel()
	r.NoError(s.Wait())
	r.True(s.IsStopping())
}

// TestStopWithoutTasks verifies that an idle Context stops cleanly.
func TestStopWithoutTasks(t *testing.T) {
	r := require.New(t)

	s := WithContext(context.Background())
	s.Stop(time.Second)
	s.Stop(time.Second) // Idempotent.
	r.NoError(s.Wait())
	r.ErrorIs(s.Err(), context.Canceled)
}
