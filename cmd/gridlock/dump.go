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
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/gridlock/grid"
	"github.com/spf13/cobra"
)

func dumpCmd() *cobra.Command {
	var sheet string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "dump <input>",
		Short: "Print a spreadsheet as aligned text",
		Args:  cobra.ExactArgs(1),
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
			snap, err := tbl.Snapshot(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, row := range snap {
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name (XLSX only; default: first sheet)")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "Overall deadline for the dump")
	return cmd
}
