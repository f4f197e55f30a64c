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
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cockroachdb/gridlock/grid"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name excelize gives a new workbook.
const DefaultSheet = "Sheet1"

// LoadXLSX replaces the contents of the table with the named worksheet
// of an XLSX workbook. An empty sheet name selects the workbook's
// first sheet. The loaded dimensions follow excelize's GetRows, which
// omits trailing empty rows and columns.
func LoadXLSX(ctx context.Context, tbl *grid.Table, r io.Reader, sheet string) error {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("opening workbook: %w", err)
	}
	defer book.Close()
	if sheet == "" {
		list := book.GetSheetList()
		if len(list) == 0 {
			return errors.New("workbook has no sheets")
		}
		sheet = list[0]
	}
	rows, err := book.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}
	return load(ctx, tbl, rows)
}

// SaveXLSX writes a point-in-time snapshot of the table as a
// single-sheet XLSX workbook. An empty sheet name selects
// [DefaultSheet].
func SaveXLSX(ctx context.Context, tbl *grid.Table, w io.Writer, sheet string) error {
	snap, err := tbl.Snapshot(ctx)
	if err != nil {
		return err
	}
	if sheet == "" {
		sheet = DefaultSheet
	}
	book := excelize.NewFile()
	defer book.Close()
	if sheet != DefaultSheet {
		if err := book.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}
	for rowIdx, row := range snap {
		for colIdx, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}
			if err := book.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	if err := book.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
