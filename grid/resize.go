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
	"slices"
)

// Resize reshapes the table to the given extent. Cells at coordinates
// common to the old and new shapes keep their values; cells outside
// the new shape are discarded, and newly-created cells start empty.
//
// Like every structural operation, Resize waits for in-flight cell
// operations to drain and holds the table exclusively while it
// rewires the cell arrays. The structural epoch advances when the
// change commits, even if the extent is unchanged.
func (t *Table) Resize(ctx context.Context, rows, cols int) error {
	if err := checkShape(rows, cols); err != nil {
		return err
	}
	release, err := t.gate.Exclusive(ctx)
	if err != nil {
		return waitFailure("resize: drain", err)
	}
	defer release()

	old := t.shape.Peek()
	next := make([][]*cell, rows)
	for r := range next {
		next[r] = make([]*cell, cols)
		for c := range next[r] {
			if r < old.Rows && c < old.Cols {
				next[r][c] = t.cells[r][c]
			} else {
				next[r][c] = new(cell)
			}
		}
	}
	t.cells = next
	t.commit(old, Shape{Rows: rows, Cols: cols, Epoch: old.Epoch + 1})
	return nil
}

// InsertRow adds an empty row at the given index, shifting that row
// and the ones below it down by one. The index may equal the current
// row count to append. Inserting into a table with no columns is
// rejected, since the new row would have no cells; establish the
// first extent with [Table.Resize].
func (t *Table) InsertRow(ctx context.Context, at int) error {
	release, err := t.gate.Exclusive(ctx)
	if err != nil {
		return waitFailure("insert-row: drain", err)
	}
	defer release()

	old := t.shape.Peek()
	if at < 0 || at > old.Rows {
		return errRowOutOfBounds(at, old)
	}
	if old.Cols == 0 {
		return fmt.Errorf("%w: a row needs at least one column", ErrInvalidDimensions)
	}
	row := make([]*cell, old.Cols)
	for c := range row {
		row[c] = new(cell)
	}
	t.cells = slices.Insert(t.cells, at, row)
	t.commit(old, Shape{Rows: old.Rows + 1, Cols: old.Cols, Epoch: old.Epoch + 1})
	return nil
}

// InsertCol adds an empty column at the given index, shifting that
// column and the ones to its right over by one. The index may equal
// the current column count to append. Inserting into a table with no
// rows is rejected; establish the first extent with [Table.Resize].
func (t *Table) InsertCol(ctx context.Context, at int) error {
	release, err := t.gate.Exclusive(ctx)
	if err != nil {
		return waitFailure("insert-col: drain", err)
	}
	defer release()

	old := t.shape.Peek()
	if at < 0 || at > old.Cols {
		return errColOutOfBounds(at, old)
	}
	if old.Rows == 0 {
		return fmt.Errorf("%w: a column needs at least one row", ErrInvalidDimensions)
	}
	for r := range t.cells {
		t.cells[r] = slices.Insert(t.cells[r], at, new(cell))
	}
	t.commit(old, Shape{Rows: old.Rows, Cols: old.Cols + 1, Epoch: old.Epoch + 1})
	return nil
}

// RemoveRow deletes the row at the given index; the rows below it
// shift up by one, so their coordinates change. Removing the last row
// collapses the table to 0x0, since a shape with columns but no rows
// has no cells to address.
func (t *Table) RemoveRow(ctx context.Context, at int) error {
	release, err := t.gate.Exclusive(ctx)
	if err != nil {
		return waitFailure("remove-row: drain", err)
	}
	defer release()

	old := t.shape.Peek()
	if at < 0 || at >= old.Rows {
		return errRowOutOfBounds(at, old)
	}
	next := Shape{Rows: old.Rows - 1, Cols: old.Cols, Epoch: old.Epoch + 1}
	t.cells = slices.Delete(t.cells, at, at+1)
	if next.Rows == 0 {
		next.Cols = 0
		t.cells = nil
	}
	t.commit(old, next)
	return nil
}

// RemoveCol deletes the column at the given index; the columns to its
// right shift left by one. Removing the last column collapses the
// table to 0x0.
func (t *Table) RemoveCol(ctx context.Context, at int) error {
	release, err := t.gate.Exclusive(ctx)
	if err != nil {
		return waitFailure("remove-col: drain", err)
	}
	defer release()

	old := t.shape.Peek()
	if at < 0 || at >= old.Cols {
		return errColOutOfBounds(at, old)
	}
	next := Shape{Rows: old.Rows, Cols: old.Cols - 1, Epoch: old.Epoch + 1}
	if next.Cols == 0 {
		next.Rows = 0
		t.cells = nil
	} else {
		for r := range t.cells {
			t.cells[r] = slices.Delete(t.cells[r], at, at+1)
		}
	}
	t.commit(old, next)
	return nil
}

// commit publishes the new shape and notifies watchers. Callers hold
// the gate exclusively.
func (t *Table) commit(old, next Shape) {
	t.shape.Set(next)
	t.events.doStructural(old, next)
}
