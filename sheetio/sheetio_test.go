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

package sheetio

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cockroachdb/gridlock/grid"
	"github.com/cockroachdb/gridlock/subfs"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src, err := grid.New(3, 4)
	r.NoError(err)
	r.NoError(src.Set(ctx, 0, 0, "plain"))
	r.NoError(src.Set(ctx, 0, 1, "comma, inside"))
	r.NoError(src.Set(ctx, 1, 2, `say "hi"`))
	r.NoError(src.Set(ctx, 2, 0, "line\nbreak"))
	r.NoError(src.Set(ctx, 2, 3, "corner"))

	var buf bytes.Buffer
	r.NoError(SaveCSV(ctx, src, &buf))

	// Load over a dirty table; none of its contents may survive.
	dst, err := grid.New(5, 5)
	r.NoError(err)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			r.NoError(dst.Set(ctx, row, col, "stale"))
		}
	}
	r.NoError(LoadCSV(ctx, dst, &buf))

	want, err := src.Snapshot(ctx)
	r.NoError(err)
	got, err := dst.Snapshot(ctx)
	r.NoError(err)
	r.Equal(want, got)
}

func TestLoadCSVRagged(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tbl, err := grid.New(0, 0)
	r.NoError(err)
	r.NoError(LoadCSV(ctx, tbl, strings.NewReader("a,b,c\nd\n,e")))

	rows, cols := tbl.Size()
	r.Equal(3, rows)
	r.Equal(3, cols)

	for _, tc := range []struct {
		row, col int
		want     string
	}{
		{0, 0, "a"}, {0, 1, "b"}, {0, 2, "c"},
		{1, 0, "d"}, {1, 1, ""}, {1, 2, ""},
		{2, 0, ""}, {2, 1, "e"}, {2, 2, ""},
	} {
		value, err := tbl.Get(ctx, tc.row, tc.col)
		r.NoError(err)
		r.Equal(tc.want, value, "cell (%d,%d)", tc.row, tc.col)
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src, err := grid.New(4, 3)
	r.NoError(err)
	r.NoError(src.Set(ctx, 0, 0, "alpha"))
	r.NoError(src.Set(ctx, 1, 1, "beta"))
	// The corner cell pins the saved dimensions: GetRows drops
	// trailing empty rows and columns.
	r.NoError(src.Set(ctx, 3, 2, "omega"))

	var buf bytes.Buffer
	r.NoError(SaveXLSX(ctx, src, &buf, "data"))

	dst, err := grid.New(0, 0)
	r.NoError(err)
	var structural atomic.Int32
	dst.SetEvents(&grid.Events{
		OnStructural: func(grid.Shape, grid.Shape) { structural.Add(1) },
	})
	r.NoError(LoadXLSX(ctx, dst, bytes.NewReader(buf.Bytes()), "data"))

	want, err := src.Snapshot(ctx)
	r.NoError(err)
	got, err := dst.Snapshot(ctx)
	r.NoError(err)
	r.Equal(want, got)
	// A load is exactly two structural changes: the clear and the fit.
	r.Equal(int32(2), structural.Load())

	// An empty sheet name selects the workbook's only sheet.
	other, err := grid.New(0, 0)
	r.NoError(err)
	r.NoError(LoadXLSX(ctx, other, bytes.NewReader(buf.Bytes()), ""))
	got, err = other.Snapshot(ctx)
	r.NoError(err)
	r.Equal(want, got)
}

func TestLoadXLSXMissingSheet(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	src, err := grid.New(1, 1)
	r.NoError(err)
	var buf bytes.Buffer
	r.NoError(SaveXLSX(ctx, src, &buf, ""))

	dst, err := grid.New(0, 0)
	r.NoError(err)
	r.ErrorContains(LoadXLSX(ctx, dst, bytes.NewReader(buf.Bytes()), "nope"), "nope")
}

// TestLoadFixture reads a templated CSV through a substituting
// filesystem, the way test fixtures are seeded.
func TestLoadFixture(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fixtures := &subfs.SubstitutingFS{
		FS: fstest.MapFS{
			"seed.csv": &fstest.MapFile{
				Data: []byte("region,owner\nus-east-1,__OWNER__\n"),
			},
		},
		Replacer: strings.NewReplacer("__OWNER__", "sre-team"),
	}
	file, err := fixtures.Open("seed.csv")
	r.NoError(err)
	defer file.Close()

	tbl, err := grid.New(0, 0)
	r.NoError(err)
	r.NoError(LoadCSV(ctx, tbl, file))

	rows, cols := tbl.Size()
	r.Equal(2, rows)
	r.Equal(2, cols)
	value, err := tbl.Get(ctx, 1, 1)
	r.NoError(err)
	r.Equal("sre-team", value)
}

func TestSaveEmptyTable(t *testing.T) {
	r := require.New(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tbl, err := grid.New(0, 0)
	r.NoError(err)

	var csvBuf bytes.Buffer
	r.NoError(SaveCSV(ctx, tbl, &csvBuf))
	r.Zero(csvBuf.Len())

	var xlsxBuf bytes.Buffer
	r.NoError(SaveXLSX(ctx, tbl, &xlsxBuf, ""))
	dst, err := grid.New(2, 2)
	r.NoError(err)
	r.NoError(LoadXLSX(ctx, dst, bytes.NewReader(xlsxBuf.Bytes()), ""))
	rows, cols := dst.Size()
	r.Zero(rows)
	r.Zero(cols)
}
