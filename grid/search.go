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

// SearchRow scans one row in ascending column order for an exact
// match and returns the first matching column. The bool result
// reports whether a match was found; its absence is not an error.
//
// The scan inspects one cell at a time under its shared lock and
// never holds more than one lock, so writers and other scans make
// progress alongside it. The result describes where the value was at
// the moment its cell was inspected; a concurrent writer may have
// moved it by the time the caller acts.
//
// If a structural change lands while the scan is in flight, the scan
// restarts from the beginning under the new shape.
func (t *Table) SearchRow(ctx context.Context, row int, value string) (int, bool, error) {
	const op = "search-row"
restart:
	for {
		s := t.shape.Peek()
		if row < 0 || row >= s.Rows {
			return 0, false, errRowOutOfBounds(row, s)
		}
		for col := 0; col < s.Cols; col++ {
			match, stale, now, err := t.visitOne(ctx, op, s.Epoch, row, col, value)
			switch {
			case err != nil:
				return 0, false, err
			case stale:
				t.events.doRestart(op, s.Epoch, now)
				continue restart
			case match:
				return col, true, nil
			}
		}
		return 0, false, nil
	}
}

// SearchCol is the column-wise analog of [Table.SearchRow]: it scans
// one column in ascending row order and returns the first matching
// row.
func (t *Table) SearchCol(ctx context.Context, col int, value string) (int, bool, error) {
	const op = "search-col"
restart:
	for {
		s := t.shape.Peek()
		if col < 0 || col >= s.Cols {
			return 0, false, errColOutOfBounds(col, s)
		}
		for row := 0; row < s.Rows; row++ {
			match, stale, now, err := t.visitOne(ctx, op, s.Epoch, row, col, value)
			switch {
			case err != nil:
				return 0, false, err
			case stale:
				t.events.doRestart(op, s.Epoch, now)
				continue restart
			case match:
				return row, true, nil
			}
		}
		return 0, false, nil
	}
}

// Search scans the whole table in row-major order and returns the
// coordinate of the first match. On an empty table it reports no
// match.
func (t *Table) Search(ctx context.Context, value string) (Coord, bool, error) {
	const op = "search"
restart:
	for {
		s := t.shape.Peek()
		for row := 0; row < s.Rows; row++ {
			for col := 0; col < s.Cols; col++ {
				match, stale, now, err := t.visitOne(ctx, op, s.Epoch, row, col, value)
				switch {
				case err != nil:
					return Coord{}, false, err
				case stale:
					t.events.doRestart(op, s.Epoch, now)
					continue restart
				case match:
					return Coord{Row: row, Col: col}, true, nil
				}
			}
		}
		return Coord{}, false, nil
	}
}

// visitOne examines a single cell under its shared lock. The cell is
// addressed by a scan that captured the structural epoch wanted; if
// the table's epoch no longer matches, the coordinate may be invalid
// and visitOne reports stale without touching the cell. The epoch
// check and the cell inspection happen under one gate entry, so a
// structural change cannot slip between them.
func (t *Table) visitOne(
	ctx context.Context, op string, wanted uint64, row, col int, value string,
) (match, stale bool, now uint64, err error) {
	if err := t.gate.Enter(ctx); err != nil {
		return false, false, 0, waitFailure(op+": table sealed", err)
	}
	now = t.shape.Peek().Epoch
	if now != wanted {
		t.gate.Leave()
		return false, true, now, nil
	}
	c := t.cells[row][col]
	cd := Coord{Row: row, Col: col}
	if err := c.lock.RLock(ctx); err != nil {
		t.gate.Leave()
		return false, false, 0, waitFailure(fmt.Sprintf("%s %v", op, cd), err)
	}
	t.events.doAcquire(cd, false)
	match = c.value == value
	t.events.doRelease(cd, false)
	c.lock.RUnlock()
	t.gate.Leave()

	// The hook runs with no locks held so that it may block or call
	// back into the table.
	t.events.doVisit(op, cd)
	return match, false, now, nil
}
