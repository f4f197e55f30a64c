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

	"github.com/cockroachdb/gridlock/lockset"
)

// SwapRows exchanges the contents of two rows. The rows are walked in
// ascending column order and each column's pair of cells is exchanged
// under both exclusive locks, so an exchanged pair is never observed
// half-written. The swap is atomic per column pair, not across the
// whole row: a concurrent snapshot may see some columns exchanged and
// others not yet.
//
// Swapping a row with itself is a no-op. Each cell's lock stays bound
// to its coordinate; only the text moves. The table's shape cannot
// change while a swap is in flight; a structural change waits for it
// to finish.
func (t *Table) SwapRows(ctx context.Context, row1, row2 int) error {
	const op = "swap-rows"
	if row2 < row1 {
		row1, row2 = row2, row1
	}
	if err := t.gate.Enter(ctx); err != nil {
		return waitFailure(op+": table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	if row1 < 0 || row1 >= s.Rows {
		return errRowOutOfBounds(row1, s)
	}
	if row2 >= s.Rows {
		return errRowOutOfBounds(row2, s)
	}
	if row1 == row2 {
		return nil
	}

	locks := lockset.New(Coord.Compare)
	defer locks.Release()
	for col := 0; col < s.Cols; col++ {
		a, b := t.cells[row1][col], t.cells[row2][col]
		ca := Coord{Row: row1, Col: col}
		cb := Coord{Row: row2, Col: col}
		if err := locks.Acquire(ctx,
			lockset.Request[Coord]{Key: ca, Mode: lockset.Exclusive, Lock: &a.lock},
			lockset.Request[Coord]{Key: cb, Mode: lockset.Exclusive, Lock: &b.lock},
		); err != nil {
			return waitFailure(fmt.Sprintf("%s %v/%v", op, ca, cb), err)
		}
		t.events.doAcquire(ca, true)
		t.events.doAcquire(cb, true)
		a.value, b.value = b.value, a.value
		t.events.doRelease(ca, true)
		t.events.doRelease(cb, true)
		locks.Release()
	}
	return nil
}

// SwapCols exchanges the contents of two columns, walking the rows in
// ascending order. Its atomicity matches [Table.SwapRows]: per cell
// pair, not across the whole column.
func (t *Table) SwapCols(ctx context.Context, col1, col2 int) error {
	const op = "swap-cols"
	if col2 < col1 {
		col1, col2 = col2, col1
	}
	if err := t.gate.Enter(ctx); err != nil {
		return waitFailure(op+": table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	if col1 < 0 || col1 >= s.Cols {
		return errColOutOfBounds(col1, s)
	}
	if col2 >= s.Cols {
		return errColOutOfBounds(col2, s)
	}
	if col1 == col2 {
		return nil
	}

	locks := lockset.New(Coord.Compare)
	defer locks.Release()
	for row := 0; row < s.Rows; row++ {
		a, b := t.cells[row][col1], t.cells[row][col2]
		ca := Coord{Row: row, Col: col1}
		cb := Coord{Row: row, Col: col2}
		if err := locks.Acquire(ctx,
			lockset.Request[Coord]{Key: ca, Mode: lockset.Exclusive, Lock: &a.lock},
			lockset.Request[Coord]{Key: cb, Mode: lockset.Exclusive, Lock: &b.lock},
		); err != nil {
			return waitFailure(fmt.Sprintf("%s %v/%v", op, ca, cb), err)
		}
		t.events.doAcquire(ca, true)
		t.events.doAcquire(cb, true)
		a.value, b.value = b.value, a.value
		t.events.doRelease(ca, true)
		t.events.doRelease(cb, true)
		locks.Release()
	}
	return nil
}
