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

// Package sheetio imports and exports tables in common spreadsheet
// formats.
//
// All access to the table goes through its public operations, so a
// file can be loaded into, or saved from, a table that other
// goroutines are concurrently using. A load is not atomic: concurrent
// readers may observe the table part-way through being filled.
package sheetio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/cockroachdb/gridlock/grid"
)

// LoadCSV replaces the contents of the table with the parsed contents
// of the reader. Short rows are padded with empty cells to the width
// of the longest row.
func LoadCSV(ctx context.Context, tbl *grid.Table, r io.Reader) error {
	reader := csv.NewReader(r)
	// Accept ragged input.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("reading csv: %w", err)
	}
	return load(ctx, tbl, records)
}

// SaveCSV writes the contents of the table to the writer. The rows and
// columns present when the save begins are written; cells are read one
// at a time, so a save that overlaps other writers sees each cell's
// latest value rather than a single point-in-time image.
func SaveCSV(ctx context.Context, tbl *grid.Table, w io.Writer) error {
	rows, cols := tbl.Size()
	writer := csv.NewWriter(w)
	record := make([]string, cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			value, err := tbl.Get(ctx, row, col)
			if err != nil {
				return err
			}
			record[col] = value
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// load sizes the table to fit the given rows and writes every
// non-empty field. The table is cleared first: a plain resize
// preserves surviving cells, and the loaded sheet must not show values
// from the previous contents.
func load(ctx context.Context, tbl *grid.Table, rows [][]string) error {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if err := tbl.Resize(ctx, 0, 0); err != nil {
		return err
	}
	if len(rows) == 0 || cols == 0 {
		return nil
	}
	if err := tbl.Resize(ctx, len(rows), cols); err != nil {
		return err
	}
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			if err := tbl.Set(ctx, rowIdx, colIdx, value); err != nil {
				return err
			}
		}
	}
	return nil
}
