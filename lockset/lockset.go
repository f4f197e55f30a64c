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

/*
Package lockset contains utilities for ordering access to
potentially-overlapping resources.

Operations that hold several locks at once deadlock when two of them
acquire the same locks in different orders. A [Set] rules this out by
funneling every acquisition through a single total order over the
resource keys:

	locks := lockset.New(cmp.Compare[int])
	defer locks.Release()
	err := locks.Acquire(ctx,
		lockset.Request[int]{Key: 1, Mode: lockset.Exclusive, Lock: m1},
		lockset.Request[int]{Key: 7, Mode: lockset.Exclusive, Lock: m7},
	)
	if err != nil {
		return err
	}
	// Both locks are held until Release.

The requests within one Acquire call are sorted before any lock is
taken, and successive Acquire calls on the same Set must ascend past
the keys it already holds. A blocked acquirer therefore waits only for
keys greater than every key it holds, so as long as all collaborating
operations share the same comparison function, a cycle of waiters
would require a key to exceed itself.

The locks themselves are supplied by the caller through the [Locker]
interface; the Set tracks which keys are held and in which [Mode], and
unwinds cleanly when an acquisition fails partway through.
*/
package lockset
