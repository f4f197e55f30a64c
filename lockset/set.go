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

package lockset

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

// Locker is the lock protocol a guarded resource must provide. The
// blocking acquisitions return nil once the lock is held, or a context
// error if the caller gave up waiting.
type Locker interface {
	RLock(ctx context.Context) error
	RUnlock()
	Lock(ctx context.Context) error
	Unlock()
}

// Mode selects how a resource is locked.
type Mode int

const (
	// Shared admits any number of concurrent holders.
	Shared Mode = iota
	// Exclusive admits a single holder.
	Exclusive
)

func (m Mode) String() string {
	switch m {
	case Shared:
		return "shared"
	case Exclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// A Request names a resource, the lock that guards it, and the mode to
// acquire it in.
type Request[K any] struct {
	Key  K
	Mode Mode
	Lock Locker
}

// These errors report misuse of a [Set]. They indicate a programming
// error in the caller rather than a transient condition.
var (
	// ErrAlreadyHeld is returned when an acquisition names a key the
	// Set already holds.
	ErrAlreadyHeld = errors.New("key is already held")
	// ErrOrder is returned when an acquisition names a key that does
	// not sort after every key the Set already holds.
	ErrOrder = errors.New("acquisition violates the key order")
)

// A Set acquires and releases groups of locks in a single total order
// over their keys. The zero value is not usable; call [New].
//
// A Set is intended to be owned by one operation at a time and is not
// internally synchronized. The locks it manages may be contended by
// any number of Sets, provided they are constructed with the same
// comparison function.
type Set[K comparable] struct {
	compare func(K, K) int
	held    []Request[K] // In ascending key order.
	modes   map[K]Mode
}

// New constructs an empty [Set]. The comparison function defines the
// total order of keys: negative when a sorts before b, zero for equal
// keys, positive otherwise.
func New[K comparable](compare func(K, K) int) *Set[K] {
	return &Set[K]{
		compare: compare,
		modes:   make(map[K]Mode),
	}
}

// Acquire locks every requested resource, taking the locks in
// ascending key order regardless of the order of the arguments. On
// success, all requested locks are held until [Set.Release]. If any
// acquisition fails, the locks taken by this call are released before
// the error is returned; locks from earlier calls remain held.
//
// A key may be acquired at most once per Set, and when the Set already
// holds locks, the new keys must all sort after the held ones. These
// misuses are reported as [ErrAlreadyHeld] and [ErrOrder].
func (s *Set[K]) Acquire(ctx context.Context, reqs ...Request[K]) error {
	if len(reqs) == 0 {
		return nil
	}

	sorted := slices.Clone(reqs)
	slices.SortFunc(sorted, func(a, b Request[K]) int {
		return s.compare(a.Key, b.Key)
	})

	for i, req := range sorted {
		if i > 0 && s.compare(sorted[i-1].Key, req.Key) == 0 {
			return fmt.Errorf("%w: %v requested twice", ErrAlreadyHeld, req.Key)
		}
		if _, held := s.modes[req.Key]; held {
			return fmt.Errorf("%w: %v", ErrAlreadyHeld, req.Key)
		}
	}
	if len(s.held) > 0 {
		if high := s.held[len(s.held)-1].Key; s.compare(sorted[0].Key, high) <= 0 {
			return fmt.Errorf("%w: %v does not sort after held key %v",
				ErrOrder, sorted[0].Key, high)
		}
	}

	for i, req := range sorted {
		var err error
		switch req.Mode {
		case Shared:
			err = req.Lock.RLock(ctx)
		case Exclusive:
			err = req.Lock.Lock(ctx)
		default:
			err = fmt.Errorf("unknown lock mode %v", req.Mode)
		}
		if err != nil {
			s.unwind(sorted[:i])
			return err
		}
	}

	s.held = append(s.held, sorted...)
	for _, req := range sorted {
		s.modes[req.Key] = req.Mode
	}
	return nil
}

// Release unlocks every held lock, leaving the Set empty and ready for
// reuse. Releasing an empty Set is a no-op.
func (s *Set[K]) Release() {
	held := s.held
	s.held = nil
	clear(s.modes)
	s.unwind(held)
}

// Holds reports whether the key is held, and in which mode.
func (s *Set[K]) Holds(key K) (Mode, bool) {
	mode, ok := s.modes[key]
	return mode, ok
}

// Len returns the number of held locks.
func (s *Set[K]) Len() int {
	return len(s.held)
}

// unwind releases acquired locks in reverse order.
func (s *Set[K]) unwind(reqs []Request[K]) {
	for i := len(reqs) - 1; i >= 0; i-- {
		switch reqs[i].Mode {
		case Shared:
			reqs[i].Lock.RUnlock()
		case Exclusive:
			reqs[i].Lock.Unlock()
		}
	}
}
