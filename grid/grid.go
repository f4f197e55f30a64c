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
Package grid provides a spreadsheet-shaped table of text cells that
many goroutines may read, write, scan, and reshape concurrently.

A [Table] is a dense rows-by-columns arrangement of cells, each
holding an uninterpreted string. Every cell is guarded by its own
writer-preferring reader/writer lock, so operations on distinct cells
never contend and readers of the same cell proceed in parallel:

	tbl, err := grid.New(3, 4)
	if err != nil {
		return err
	}
	if err := tbl.Set(ctx, 0, 0, "hello"); err != nil {
		return err
	}
	v, err := tbl.Get(ctx, 0, 0)

All potentially-blocking operations accept a [context.Context]; a
deadline or cancellation while waiting for a lock surfaces as
[ErrTimeout] or [ErrInterrupted] with the context's error wrapped
inside.

# Multi-cell operations

Operations that hold several cell locks at once ([Table.SwapRows],
[Table.SwapCols], and the snapshot family) acquire them in ascending
row-major coordinate order through a [lockset.Set]. Since every such
operation waits only for coordinates greater than any it already
holds, no cycle of waiters can form regardless of how operations
interleave.

# Structural changes

[Table.Resize], [Table.InsertRow], [Table.InsertCol],
[Table.RemoveRow] and [Table.RemoveCol] change the table's shape. A
structural change seals the table's gate, waits for in-flight cell
operations to drain, rewires the cell arrays, increments the
structural epoch, and reopens the gate. Cell operations that arrive
during the change queue until it completes.

Scans ([Table.SearchRow], [Table.SearchCol], [Table.Search]) hold at
most one cell lock at a time and release the gate between visits, so
they do not delay structural changes. A scan that observes an epoch
advance abandons its progress and restarts under the new shape.
[Table.Shape] exposes the current shape along with a channel for
watching structural changes.
*/
package grid

import (
	"github.com/cockroachdb/gridlock/gate"
	"github.com/cockroachdb/gridlock/notify"
	"github.com/cockroachdb/gridlock/rwlock"
)

// A cell is one slot of a [Table]. The value is guarded by the lock.
// A cell stays bound to its coordinate for as long as the coordinate
// exists, so lock identity follows the coordinate, not the text.
type cell struct {
	lock  rwlock.Mutex
	value string
}

// A Table is a concurrently-usable rows-by-columns arrangement of
// text cells. Construct one with [New]. A Table must not be copied.
//
// A Table is internally synchronized and is safe for concurrent use.
type Table struct {
	events *Events // Injectable callbacks.
	gate   gate.Gate
	shape  *notify.Var[Shape]

	// cells is indexed [row][col]. Cell operations read it while
	// holding a gate entry; structural operations replace it while
	// holding the gate exclusively, which orders those reads after
	// the replacement.
	cells [][]*cell
}

// New constructs a Table with the given extent. Both dimensions must
// be non-negative, and a dimension may be zero only if both are: a
// shape with rows but no columns has no cells to address.
func New(rows, cols int) (*Table, error) {
	if err := checkShape(rows, cols); err != nil {
		return nil, err
	}
	return &Table{
		shape: notify.VarOf(Shape{Rows: rows, Cols: cols}),
		cells: freshCells(rows, cols),
	}, nil
}

// SetEvents allows monitoring callbacks to be injected into the
// Table. This method should be called before the Table is shared.
func (t *Table) SetEvents(events *Events) {
	t.events = events
}

// Size returns the table's current extent. The answer may be stale by
// the time the caller acts on it if a structural change races.
func (t *Table) Size() (rows, cols int) {
	s := t.shape.Peek()
	return s.Rows, s.Cols
}

// Epoch returns the current structural epoch. The epoch starts at
// zero and increments each time a structural change commits.
func (t *Table) Epoch() uint64 {
	return t.shape.Peek().Epoch
}

// Shape returns the table's current shape and a channel that is
// closed after the next structural change commits.
func (t *Table) Shape() (Shape, <-chan struct{}) {
	return t.shape.Get()
}

func checkShape(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return errInvalidShape(rows, cols, "negative dimension")
	}
	if (rows == 0) != (cols == 0) {
		return errInvalidShape(rows, cols, "a nonzero extent with no cells")
	}
	return nil
}

func freshCells(rows, cols int) [][]*cell {
	cells := make([][]*cell, rows)
	for r := range cells {
		cells[r] = make([]*cell, cols)
		for c := range cells[r] {
			cells[r][c] = new(cell)
		}
	}
	return cells
}
