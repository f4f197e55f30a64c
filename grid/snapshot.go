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

	"github.com/cockroachdb/gridlock/lockset"
)

// SnapshotRow returns a copy of one row as of a single instant: all
// of the row's cells are locked in shared mode before any value is
// read, so the copy reflects a state the row actually passed through.
// Writers of those cells wait until the snapshot releases them;
// readers are unaffected.
func (t *Table) SnapshotRow(ctx context.Context, row int) ([]string, error) {
	const op = "snapshot-row"
	if err := t.gate.Enter(ctx); err != nil {
		return nil, waitFailure(op+": table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	if row < 0 || row >= s.Rows {
		return nil, errRowOutOfBounds(row, s)
	}
	reqs := make([]lockset.Request[Coord], 0, s.Cols)
	for col := 0; col < s.Cols; col++ {
		reqs = append(reqs, lockset.Request[Coord]{
			Key:  Coord{Row: row, Col: col},
			Mode: lockset.Shared,
			Lock: &t.cells[row][col].lock,
		})
	}
	locks := lockset.New(Coord.Compare)
	defer locks.Release()
	if err := locks.Acquire(ctx, reqs...); err != nil {
		return nil, waitFailure(op, err)
	}
	t.noteAcquired(reqs)
	defer t.noteReleased(reqs)

	out := make([]string, s.Cols)
	for col := 0; col < s.Cols; col++ {
		out[col] = t.cells[row][col].value
	}
	return out, nil
}

// SnapshotCol returns a copy of one column as of a single instant,
// with the same locking behavior as [Table.SnapshotRow].
func (t *Table) SnapshotCol(ctx context.Context, col int) ([]string, error) {
	const op = "snapshot-col"
	if err := t.gate.Enter(ctx); err != nil {
		return nil, waitFailure(op+": table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	if col < 0 || col >= s.Cols {
		return nil, errColOutOfBounds(col, s)
	}
	reqs := make([]lockset.Request[Coord], 0, s.Rows)
	for row := 0; row < s.Rows; row++ {
		reqs = append(reqs, lockset.Request[Coord]{
			Key:  Coord{Row: row, Col: col},
			Mode: lockset.Shared,
			Lock: &t.cells[row][col].lock,
		})
	}
	locks := lockset.New(Coord.Compare)
	defer locks.Release()
	if err := locks.Acquire(ctx, reqs...); err != nil {
		return nil, waitFailure(op, err)
	}
	t.noteAcquired(reqs)
	defer t.noteReleased(reqs)

	out := make([]string, s.Rows)
	for row := 0; row < s.Rows; row++ {
		out[row] = t.cells[row][col].value
	}
	return out, nil
}

// Snapshot returns a copy of the whole table as of a single instant.
// Every cell is locked in shared mode before any value is read; on a
// large busy table this briefly contends with every writer, so
// callers that can tolerate a fuzzier picture should prefer the row
// or column variants.
func (t *Table) Snapshot(ctx context.Context) ([][]string, error) {
	const op = "snapshot"
	if err := t.gate.Enter(ctx); err != nil {
		return nil, waitFailure(op+": table sealed", err)
	}
	defer t.gate.Leave()

	s := t.shape.Peek()
	reqs := make([]lockset.Request[Coord], 0, s.Rows*s.Cols)
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			reqs = append(reqs, lockset.Request[Coord]{
				Key:  Coord{Row: row, Col: col},
				Mode: lockset.Shared,
				Lock: &t.cells[row][col].lock,
			})
		}
	}
	locks := lockset.New(Coord.Compare)
	defer locks.Release()
	if err := locks.Acquire(ctx, reqs...); err != nil {
		return nil, waitFailure(op, err)
	}
	t.noteAcquired(reqs)
	defer t.noteReleased(reqs)

	out := make([][]string, s.Rows)
	for row := 0; row < s.Rows; row++ {
		out[row] = make([]string, s.Cols)
		for col := 0; col < s.Cols; col++ {
			out[row][col] = t.cells[row][col].value
		}
	}
	return out, nil
}

func (t *Table) noteAcquired(reqs []lockset.Request[Coord]) {
	for _, req := range reqs {
		t.events.doAcquire(req.Key, req.Mode == lockset.Exclusive)
	}
}

func (t *Table) noteReleased(reqs []lockset.Request[Coord]) {
	for _, req := range reqs {
		t.events.doRelease(req.Key, req.Mode == lockset.Exclusive)
	}
}
