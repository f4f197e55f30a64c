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
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/cockroachdb/gridlock/grid"
	"github.com/cockroachdb/gridlock/simulate"
	"github.com/cockroachdb/gridlock/stopper"
	"github.com/spf13/cobra"
)

func simulateCmd() *cobra.Command {
	var (
		rows, cols     int
		workers, queue int
		retries        int
		duration       time.Duration
		opTimeout      time.Duration
		grace          time.Duration
		seed           uint64
		resizes        bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Stress a table with a randomized concurrent workload",
		Long: `simulate floods a fresh table with randomized reads, writes, searches,
swaps, snapshots, and resizes, then prints a report of the outcomes.
An interrupt stops the run gracefully, draining in-flight operations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := grid.New(rows, cols)
			if err != nil {
				return err
			}
			ctx := stopper.WithContext(cmd.Context())
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, os.Interrupt)
			defer signal.Stop(sigs)
			go func() {
				select {
				case <-sigs:
					fmt.Fprintln(cmd.ErrOrStderr(), "interrupted, draining")
					ctx.Stop(grace)
				case <-ctx.Stopping():
				}
			}()

			report, err := simulate.Run(ctx, tbl, simulate.Config{
				Workers:   workers,
				Queue:     queue,
				Duration:  duration,
				OpTimeout: opTimeout,
				Retries:   retries,
				Resizes:   resizes,
				Seed:      seed,
			})
			if report != nil {
				fmt.Fprintln(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			ctx.Stop(grace)
			return ctx.Wait()
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 16, "Initial number of rows")
	cmd.Flags().IntVar(&cols, "cols", 16, "Initial number of columns")
	cmd.Flags().IntVar(&workers, "workers", 8, "Concurrent operations")
	cmd.Flags().IntVar(&queue, "queue", 64, "Operation backlog before submissions are rejected")
	cmd.Flags().DurationVar(&duration, "duration", 10*time.Second, "How long to run")
	cmd.Flags().DurationVar(&opTimeout, "op-timeout", 100*time.Millisecond, "Per-operation deadline")
	cmd.Flags().IntVar(&retries, "retries", 2, "Retry budget for timed-out operations")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "PCG seed; 0 picks a random one")
	cmd.Flags().BoolVar(&resizes, "resizes", true, "Include structural operations in the mix")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "Drain budget after an interrupt")
	return cmd
}
