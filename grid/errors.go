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

package grid

import (
	"context"
	"errors"
	"fmt"
)

// Table operations report failures through these sentinel errors,
// matched with [errors.Is]. Absence of a search match is not an
// error; the search operations report it through their bool result.
var (
	// ErrOutOfBounds reports a coordinate outside the table's current
	// shape. Callers racing against structural changes should treat
	// it as retryable after consulting [Table.Shape].
	ErrOutOfBounds = errors.New("coordinate out of bounds")

	// ErrInvalidDimensions reports a rows-by-columns extent the table
	// cannot take, such as a negative dimension.
	ErrInvalidDimensions = errors.New("invalid dimensions")

	// ErrTimeout reports that an operation's deadline expired while
	// it waited for a lock. The wrapped chain includes
	// [context.DeadlineExceeded].
	ErrTimeout = errors.New("timed out waiting for the table")

	// ErrInterrupted reports that an operation was canceled while it
	// waited for a lock. The wrapped chain includes the context's
	// cause.
	ErrInterrupted = errors.New("interrupted waiting for the table")
)

// waitFailure classifies the context error from a blocked acquisition
// and wraps it so callers can match the classification, the context
// error, or both. Locks taken earlier by the failed operation have
// already been released by the time this error is returned.
func waitFailure(op string, cause error) error {
	kind := ErrInterrupted
	if errors.Is(cause, context.DeadlineExceeded) {
		kind = ErrTimeout
	}
	return fmt.Errorf("%w: %s: %w", kind, op, cause)
}

func errOutOfBounds(c Coord, s Shape) error {
	return fmt.Errorf("%w: %v in %v table", ErrOutOfBounds, c, s)
}

func errRowOutOfBounds(row int, s Shape) error {
	return fmt.Errorf("%w: row %d in %v table", ErrOutOfBounds, row, s)
}

func errColOutOfBounds(col int, s Shape) error {
	return fmt.Errorf("%w: column %d in %v table", ErrOutOfBounds, col, s)
}

func errInvalidShape(rows, cols int, detail string) error {
	return fmt.Errorf("%w: %dx%d: %s", ErrInvalidDimensions, rows, cols, detail)
}
