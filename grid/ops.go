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
)

// Get returns the text stored at the coordinate. It blocks while a
// writer holds the cell, but runs concurrently with other readers of
// the same cell and with any operation on other cells.
func (t *Table) Get(ctx context.Context, row, col int) (string, error) {
	if err := t.gate.Enter(ctx); err != nil {
		return "", waitFailure("get: table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	if !s.Contains(row, col) {
		return "", errOutOfBounds(Coord{Row: row, Col: col}, s)
	}
	c := t.cells[row][col]
	cd := Coord{Row: row, Col: col}
	if err := c.lock.RLock(ctx); err != nil {
		return "", waitFailure(fmt.Sprintf("get %v", cd), err)
	}
	defer c.lock.RUnlock()
	t.events.doAcquire(cd, false)
	defer t.events.doRelease(cd, false)
	return c.value, nil
}

// Set stores text at the coordinate, replacing the previous value. It
// blocks while any other operation holds the cell. Once Set returns,
// the value is visible to every subsequent Get of the coordinate
// until another write changes it.
func (t *Table) Set(ctx context.Context, row, col int, value string) error {
	if err := t.gate.Enter(ctx); err != nil {
		return waitFailure("set: table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	if !s.Contains(row, col) {
		return errOutOfBounds(Coord{Row: row, Col: col}, s)
	}
	c := t.cells[row][col]
	cd := Coord{Row: row, Col: col}
	if err := c.lock.Lock(ctx); err != nil {
		return waitFailure(fmt.Sprintf("set %v", cd), err)
	}
	defer c.lock.Unlock()
	t.events.doAcquire(cd, true)
	defer t.events.doRelease(cd, true)
	c.value = value
	return nil
}
