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

// Package main provides the CLI entry point for gridlock.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridlock",
		Short: "Work with spreadsheet-shaped data behind per-cell locks",
		Long: `gridlock loads, converts, inspects, and stress-tests spreadsheet-shaped
data held in a table with per-cell reader/writer locks.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(convertCmd(), dumpCmd(), samplesCmd(), simulateCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
