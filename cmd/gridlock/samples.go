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
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/cockroachdb/gridlock/fscopy"
	"github.com/cockroachdb/gridlock/subfs"
	"github.com/spf13/cobra"
)

//go:embed samples/*.csv
var sampleFS embed.FS

func samplesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples <dir>",
		Short: "Write bundled sample spreadsheets into a directory",
		Long: `samples extracts the sample CSV files bundled with gridlock, stamping
them with the current date. The files are handy seeds for convert,
dump, and ad-hoc experiments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := fs.Sub(sampleFS, "samples")
			if err != nil {
				return err
			}
			stamped := &subfs.SubstitutingFS{
				FS:       sub,
				Replacer: strings.NewReplacer("__DATE__", time.Now().Format(time.DateOnly)),
			}
			if err := fscopy.Copy(stamped, args[0]); err != nil {
				return err
			}
			names, err := fs.Glob(sampleFS, "samples/*.csv")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sample files to %s\n", len(names), args[0])
			return nil
		},
	}
	return cmd
}
