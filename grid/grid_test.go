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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tcs := []struct {
		rows, cols int
		ok         bool
	}{
		{rows: 3, cols: 4, ok: true},
		{rows: 1, cols: 1, ok: true},
		{rows: 0, cols: 0, ok: true},
		{rows: 0, cols: 5},
		{rows: 5, cols: 0},
		{rows: -1, cols: 2},
		{rows: 2, cols: -1},
	}
	for _, tc := range tcs {
		t.Run(fmt.Sprintf("%dx%d", tc.rows, tc.cols), func(t *testing.T) {
			a := assert.New(t)
			tbl, err := New(tc.rows, tc.cols)
			if !tc.ok {
				a.ErrorIs(err, ErrInvalidDimensions)
				a.Nil(tbl)
				return
			}
			a.NoError(err)
			rows, cols := tbl.Size()
			a.Equal(tc.rows, rows)
			a.Equal(tc.cols, cols)
			a.Zero(tbl.Epoch())
		})
	}
}

func TestGetSet(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(2, 3)
	r.NoError(err)

	// Cells start empty.
	v, err := tbl.Get(ctx, 1, 2)
	r.NoError(err)
	r.Empty(v)

	r.NoError(tbl.Set(ctx, 1, 2, "hello"))
	v, err = tbl.Get(ctx, 1, 2)
	r.NoError(err)
	r.Equal("hello", v)

	// A write replaces the value wholesale.
	r.NoError(tbl.Set(ctx, 1, 2, "world"))
	v, err = tbl.Get(ctx, 1, 2)
	r.NoError(err)
	r.Equal("world", v)

	// Neighbors are untouched.
	v, err = tbl.Get(ctx, 1, 1)
	r.NoError(err)
	r.Empty(v)
}

// A completed write is visible to a read that starts afterwards, even
// from another goroutine.
func TestWriteVisibility(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(1, 1)
	r.NoError(err)

	done := make(chan error, 1)
	go func() {
		done <- tbl.Set(ctx, 0, 0, "flag")
	}()
	r.NoError(<-done)

	v, err := tbl.Get(ctx, 0, 0)
	r.NoError(err)
	r.Equal("flag", v)
}

func TestBounds(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(2, 2)
	r.NoError(err)

	for _, c := range []Coord{
		{Row: -1, Col: 0},
		{Row: 0, Col: -1},
		{Row: 2, Col: 0},
		{Row: 0, Col: 2},
	} {
		_, err := tbl.Get(ctx, c.Row, c.Col)
		r.ErrorIs(err, ErrOutOfBounds, "get %v", c)
		r.ErrorIs(tbl.Set(ctx, c.Row, c.Col, "x"), ErrOutOfBounds, "set %v", c)
	}

	// The empty table rejects every coordinate.
	empty, err := New(0, 0)
	r.NoError(err)
	_, err = empty.Get(ctx, 0, 0)
	r.ErrorIs(err, ErrOutOfBounds)
}

func TestShapeWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	r := require.New(t)

	tbl, err := New(2, 2)
	r.NoError(err)

	s, changed := tbl.Shape()
	r.Equal(Shape{Rows: 2, Cols: 2}, s)

	r.NoError(tbl.Resize(ctx, 3, 3))
	select {
	case <-changed:
	case <-ctx.Done():
		r.Fail("watcher was not notified of the resize")
	}

	s, _ = tbl.Shape()
	r.Equal(Shape{Rows: 3, Cols: 3, Epoch: 1}, s)
}

func TestCoordCompare(t *testing.T) {
	a := assert.New(t)

	// Row-major: every cell of a row precedes every cell of the next.
	a.Negative(Coord{Row: 0, Col: 9}.Compare(Coord{Row: 1, Col: 0}))
	a.Negative(Coord{Row: 1, Col: 1}.Compare(Coord{Row: 1, Col: 2}))
	a.Positive(Coord{Row: 2, Col: 0}.Compare(Coord{Row: 1, Col: 9}))
	a.Zero(Coord{Row: 3, Col: 3}.Compare(Coord{Row: 3, Col: 3}))
}
