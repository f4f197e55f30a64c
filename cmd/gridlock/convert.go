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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/gridlock/grid"
	"github.com/cockroachdb/gridlock/sheetio"
	"github.com/spf13/cobra"
)

func convertCmd() *cobra.Command {
	var sheet string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert between CSV and XLSX spreadsheets",
		Long: `convert reads the input spreadsheet into a table and writes it back out
in the format implied by the output file's extension.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			tbl, err := grid.New(0, 0)
			if err != nil {
				return err
			}
			if err := loadPath(ctx, tbl, args[0], sheet); err != nil {
				return err
			}
			return savePath(ctx, tbl, args[1], sheet)
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (XLSX only)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall deadline for the conversion")
	return cmd
}

// loadPath fills the table from a file, choosing the format by
// extension.
func loadPath(ctx context.Context, tbl *grid.Table, path, sheet string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return sheetio.LoadCSV(ctx, tbl, f)
	case ".xlsx":
		return sheetio.LoadXLSX(ctx, tbl, f, sheet)
	default:
		return fmt.Errorf("unsupported input format %q", ext)
	}
}

// savePath writes the table to a file, choosing the format by
// extension.
func savePath(ctx context.Context, tbl *grid.Table, path, sheet string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	var saveErr error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		saveErr = sheetio.SaveCSV(ctx, tbl, f)
	case ".xlsx":
		saveErr = sheetio.SaveXLSX(ctx, tbl, f, sheet)
	default:
		saveErr = fmt.Errorf("unsupported output format %q", ext)
	}
	if saveErr != nil {
		_ = f.Close()
		return saveErr
	}
	return f.Close()
}
