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

// Package simulate drives a table with a randomized concurrent
// workload and reports what happened.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/gridlock/grid"
	"github.com/cockroachdb/gridlock/retry"
	"github.com/cockroachdb/gridlock/stopper"
	"github.com/cockroachdb/gridlock/workgroup"
	"github.com/google/uuid"
)

type session struct {
	ctx *stopper.Context
	tbl *grid.Table
	cfg Config

	counters struct {
		scheduled, rejected, done, matches, misses atomic.Int64
		timeouts, retries, interrupted, raced      atomic.Int64
		structural, failed                         atomic.Int64
	}
	mu struct {
		sync.Mutex
		firstErr error
	}
}

// Run drives the table with cfg.Workers concurrent randomized
// operations until cfg.Duration elapses or ctx begins stopping, then
// drains the pool and reports the outcome counts. Run blocks for the
// whole run.
//
// The returned error reflects configuration problems, a canceled
// drain, or operations that failed in unexpected ways; timeouts and
// shape races are counted in the Report instead. The Report is non-nil
// whenever the run started, even if it ended in error.
func Run(ctx *stopper.Context, tbl *grid.Table, cfg Config) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}
	s := &session{ctx: ctx, tbl: tbl, cfg: cfg}

	type outcome struct {
		report *Report
		err    error
	}
	results := make(chan outcome, 1)
	// The driver runs as a stopper task so that a graceful Stop waits
	// for the drain before the context is canceled.
	started := ctx.Go(func(*stopper.Context) error {
		report, err := s.drive(seed)
		results <- outcome{report, err}
		return nil
	})
	if !started {
		return nil, errors.New("context is already stopping")
	}
	res := <-results
	return res.report, res.err
}

func (s *session) drive(seed uint64) (*Report, error) {
	pool := workgroup.WithSize(s.ctx, s.cfg.Workers, s.cfg.Queue)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Now()
	deadline := time.After(s.cfg.Duration)

produce:
	for {
		select {
		case <-deadline:
			break produce
		case <-s.ctx.Stopping():
			break produce
		default:
		}
		if err := pool.Go(s.operation(rng)); err != nil {
			if s.ctx.Err() != nil {
				break produce
			}
			s.counters.rejected.Add(1)
			// Give the workers a moment to make room.
			time.Sleep(time.Millisecond)
			continue
		}
		s.counters.scheduled.Add(1)
	}

	drainErr := pool.Wait(s.ctx)

	report := &Report{
		RunID:       uuid.New().String(),
		Seed:        seed,
		Elapsed:     time.Since(start),
		Scheduled:   s.counters.scheduled.Load(),
		Rejected:    s.counters.rejected.Load(),
		Done:        s.counters.done.Load(),
		Matches:     s.counters.matches.Load(),
		Misses:      s.counters.misses.Load(),
		Timeouts:    s.counters.timeouts.Load(),
		Retries:     s.counters.retries.Load(),
		Interrupted: s.counters.interrupted.Load(),
		Raced:       s.counters.raced.Load(),
		Structural:  s.counters.structural.Load(),
		Failed:      s.counters.failed.Load(),
	}
	if drainErr != nil {
		return report, fmt.Errorf("draining operations: %w", drainErr)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return report, s.mu.firstErr
}

// operation draws one randomized operation against the table. All
// randomness is consumed here, in the producing goroutine: the
// returned closure is safe to run on a pool worker.
func (s *session) operation(rng *rand.Rand) func(context.Context) {
	rows, cols := s.tbl.Size()
	if rows == 0 {
		// The table collapsed to empty; restore a workable shape.
		return s.wrap(s.structural(func(ctx context.Context) error {
			return s.tbl.Resize(ctx, 3, 3)
		}))
	}
	var (
		row   = rng.IntN(rows)
		col   = rng.IntN(cols)
		row2  = rng.IntN(rows)
		col2  = rng.IntN(cols)
		value = fmt.Sprintf("v%03d", rng.IntN(64))
	)
	limit := 17
	if s.cfg.Resizes {
		limit = 20
	}
	switch roll := rng.IntN(limit); {
	case roll < 6:
		return s.wrap(func(ctx context.Context) error {
			_, err := s.tbl.Get(ctx, row, col)
			return err
		})
	case roll < 11:
		return s.wrap(func(ctx context.Context) error {
			return s.tbl.Set(ctx, row, col, value)
		})
	case roll < 12:
		return s.wrap(func(ctx context.Context) error {
			_, found, err := s.tbl.SearchRow(ctx, row, value)
			s.note(found, err)
			return err
		})
	case roll < 13:
		return s.wrap(func(ctx context.Context) error {
			_, found, err := s.tbl.SearchCol(ctx, col, value)
			s.note(found, err)
			return err
		})
	case roll < 14:
		return s.wrap(func(ctx context.Context) error {
			_, found, err := s.tbl.Search(ctx, value)
			s.note(found, err)
			return err
		})
	case roll < 15:
		return s.wrap(func(ctx context.Context) error {
			return s.tbl.SwapRows(ctx, row, row2)
		})
	case roll < 16:
		return s.wrap(func(ctx context.Context) error {
			return s.tbl.SwapCols(ctx, col, col2)
		})
	case roll < 17:
		if rng.IntN(4) == 0 {
			return s.wrap(func(ctx context.Context) error {
				_, err := s.tbl.Snapshot(ctx)
				return err
			})
		}
		return s.wrap(func(ctx context.Context) error {
			_, err := s.tbl.SnapshotRow(ctx, row)
			return err
		})
	case roll < 18:
		if rng.IntN(2) == 0 {
			at := rng.IntN(cols + 1)
			return s.wrap(s.structural(func(ctx context.Context) error {
				return s.tbl.InsertCol(ctx, at)
			}))
		}
		at := rng.IntN(rows + 1)
		return s.wrap(s.structural(func(ctx context.Context) error {
			return s.tbl.InsertRow(ctx, at)
		}))
	case roll < 19:
		if rng.IntN(2) == 0 {
			return s.wrap(s.structural(func(ctx context.Context) error {
				return s.tbl.RemoveCol(ctx, col)
			}))
		}
		return s.wrap(s.structural(func(ctx context.Context) error {
			return s.tbl.RemoveRow(ctx, row)
		}))
	default:
		nextRows, nextCols := 1+rng.IntN(8), 1+rng.IntN(8)
		return s.wrap(s.structural(func(ctx context.Context) error {
			return s.tbl.Resize(ctx, nextRows, nextCols)
		}))
	}
}

// wrap turns an operation into a pool function that applies the
// per-attempt deadline, retries timeouts, and classifies the terminal
// outcome into exactly one counter.
func (s *session) wrap(op func(context.Context) error) func(context.Context) {
	return func(poolCtx context.Context) {
		var succeeded bool
		attempts := 0
		attempt := func(*stopper.Context) error {
			attempts++
			if attempts > 1 {
				s.counters.retries.Add(1)
			}
			opCtx, cancel := context.WithTimeout(poolCtx, s.cfg.OpTimeout)
			defer cancel()
			err := op(opCtx)
			switch {
			case err == nil:
				succeeded = true
				return nil
			case errors.Is(err, grid.ErrTimeout):
				return fmt.Errorf("%w: %w", retry.ErrRetriable, err)
			default:
				return err
			}
		}

		var err error
		if s.cfg.Retries > 0 {
			strategy, strategyErr := retry.NewExpBackoff(
				time.Millisecond, 50*time.Millisecond, s.cfg.Retries)
			if strategyErr != nil {
				s.fail(strategyErr)
				return
			}
			err = retry.Retry(s.ctx, strategy, attempt)
		} else {
			err = attempt(s.ctx)
		}

		switch {
		case succeeded:
			s.counters.done.Add(1)
		case err == nil:
			// Retry observed the run stopping mid-backoff.
			s.counters.interrupted.Add(1)
		case errors.Is(err, retry.ErrMaxRetries), errors.Is(err, grid.ErrTimeout):
			s.counters.timeouts.Add(1)
		case errors.Is(err, grid.ErrInterrupted), errors.Is(err, context.Canceled):
			s.counters.interrupted.Add(1)
		case errors.Is(err, grid.ErrOutOfBounds), errors.Is(err, grid.ErrInvalidDimensions):
			s.counters.raced.Add(1)
		default:
			s.fail(err)
		}
	}
}

// structural wraps a structural operation to count applied changes.
func (s *session) structural(op func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			s.counters.structural.Add(1)
		}
		return err
	}
}

// note records the outcome of a completed search.
func (s *session) note(found bool, err error) {
	if err != nil {
		return
	}
	if found {
		s.counters.matches.Add(1)
	} else {
		s.counters.misses.Add(1)
	}
}

func (s *session) fail(err error) {
	s.counters.failed.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mu.firstErr == nil {
		s.mu.firstErr = err
	}
}
