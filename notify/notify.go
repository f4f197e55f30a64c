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

// Package notify contains a utility type to broadcast variable updates
// to an arbitrary number of waiters.
package notify

import "sync"

// A Var holds a value of type T and wakes any number of goroutines
// that are waiting for the value to be replaced. The zero value of a
// Var is ready to use and holds the zero value of T. A Var must not be
// copied after first use.
type Var[T any] struct {
	mu struct {
		sync.Mutex
		value   T
		updated chan struct{} // Closed and cleared when the value changes.
	}
}

// VarOf returns a new [Var] holding the given value.
func VarOf[T any](value T) *Var[T] {
	v := &Var[T]{}
	v.mu.value = value
	return v
}

// Get returns the current value and a channel that will be closed the
// next time [Var.Set] is called. Callers that only want the value can
// use [Var.Peek] instead.
func (v *Var[T]) Get() (T, <-chan struct{}) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mu.updated == nil {
		v.mu.updated = make(chan struct{})
	}
	return v.mu.value, v.mu.updated
}

// Peek returns the current value without arming a notification.
func (v *Var[T]) Peek() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mu.value
}

// Set replaces the current value and wakes all goroutines that are
// blocked on a channel previously returned from [Var.Get]. Waiters are
// not guaranteed to observe every intermediate value if Set is called
// in rapid succession.
func (v *Var[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mu.value = value
	v.notifyLocked()
}

// Update replaces the current value with the result of fn, atomically
// with respect to other Var methods, and wakes waiters as [Var.Set]
// does. It returns the new value. The callback must not call back into
// the Var.
func (v *Var[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mu.value = fn(v.mu.value)
	v.notifyLocked()
	return v.mu.value
}

func (v *Var[T]) notifyLocked() {
	if v.mu.updated != nil {
		close(v.mu.updated)
		v.mu.updated = nil
	}
}
