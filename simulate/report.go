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

// Report summarizes the outcomes of a run. Every operation accepted by
// the pool lands in exactly one of Done, Timeouts, Interrupted, Raced,
// or Failed, so once a run has drained their sum equals Scheduled.
type Report struct {
	RunID   string        // Correlates output from one run.
	Seed    uint64        // The seed actually used.
	Elapsed time.Duration // Wall time from first submission to drain.

	Scheduled   int64 // Operations accepted by the pool.
	Rejected    int64 // Submissions refused by a full queue; not scheduled.
	Done        int64 // Operations that completed.
	Matches     int64 // Searches that found their needle.
	Misses      int64 // Searches that completed without a match.
	Timeouts    int64 // Operations that gave up waiting, retries included.
	Retries     int64 // Additional attempts made after a timeout.
	Interrupted int64 // Operations canceled by shutdown.
	Raced       int64 // Operations that lost a race with a structural change.
	Structural  int64 // Resizes, insertions, and removals applied.
	Failed      int64 // Unclassified failures; Run also returns the first one.
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"run %s (seed %d): %d scheduled, %d done (%d hits, %d misses), "+
			"%d timeouts, %d retries, %d interrupted, %d raced, %d structural, "+
			"%d rejected, %d failed in %s",
		r.RunID, r.Seed, r.Scheduled, r.Done, r.Matches, r.Misses,
		r.Timeouts, r.Retries, r.Interrupted, r.Raced, r.Structural,
		r.Rejected, r.Failed, r.Elapsed.Round(time.Millisecond))
}
