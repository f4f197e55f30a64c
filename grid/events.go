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

// Events provides optional callbacks to monitor the locking and
// structural activity of a [Table]. Callbacks run synchronously on
// the goroutine performing the operation; a callback that blocks
// stalls that operation.
//
// See [Table.SetEvents].
type Events struct {
	// OnAcquire is called after a cell lock has been granted to an
	// operation.
	OnAcquire func(c Coord, exclusive bool)

	// OnRelease is called as an operation surrenders a cell lock,
	// before the next holder is admitted.
	OnRelease func(c Coord, exclusive bool)

	// OnVisit is called after a scan has examined one cell and let go
	// of both the cell lock and the table gate.
	OnVisit func(op string, c Coord)

	// OnRestart is called when a scan abandons its progress because
	// the structural epoch advanced from one value to another.
	OnRestart func(op string, from, to uint64)

	// OnStructural is called after a structural change commits, while
	// the table is still quiesced.
	OnStructural func(old, next Shape)
}

func (e *Events) doAcquire(c Coord, exclusive bool) {
	if e != nil && e.OnAcquire != nil {
		e.OnAcquire(c, exclusive)
	}
}

func (e *Events) doRelease(c Coord, exclusive bool) {
	if e != nil && e.OnRelease != nil {
		e.OnRelease(c, exclusive)
	}
}

func (e *Events) doVisit(op string, c Coord) {
	if e != nil && e.OnVisit != nil {
		e.OnVisit(op, c)
	}
}

func (e *Events) doRestart(op string, from, to uint64) {
	if e != nil && e.OnRestart != nil {
		e.OnRestart(op, from, to)
	}
}

func (e *Events) doStructural(old, next Shape) {
	if e != nil && e.OnStructural != nil {
		e.OnStructural(old, next)
	}
}
