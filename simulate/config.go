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

package simulate

import (
	"fmt"
	"time"
)

// Config controls a simulation run.
type Config struct {
	Workers   int           // Concurrent operations in flight.
	Queue     int           // Backlog of operations awaiting a worker.
	Duration  time.Duration // How long to keep issuing operations.
	OpTimeout time.Duration // Deadline applied to each attempt.
	Retries   int           // Extra attempts for timed-out operations; 0 disables retry.
	Resizes   bool          // Include structural operations in the mix.
	Seed      uint64        // PCG seed; 0 picks a random seed.
}

// Validate returns an error describing the first unusable field.
func (c *Config) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	case c.Queue < 0:
		return fmt.Errorf("queue must not be negative, got %d", c.Queue)
	case c.Duration <= 0:
		return fmt.Errorf("duration must be positive, got %s", c.Duration)
	case c.OpTimeout <= 0:
		return fmt.Errorf("op timeout must be positive, got %s", c.OpTimeout)
	case c.Retries < 0:
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	default:
		return nil
	}
}
