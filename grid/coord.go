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
	"cmp"
	"fmt"
)

// A Coord addresses one cell of a [Table]. Both indexes are
// zero-based.
type Coord struct {
	Row, Col int
}

// Compare orders coordinates row-major: by row, then by column. All
// multi-lock acquisitions in this package follow this order.
func (c Coord) Compare(o Coord) int {
	if n := cmp.Compare(c.Row, o.Row); n != 0 {
		return n
	}
	return cmp.Compare(c.Col, o.Col)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// A Shape describes the extent of a [Table] at one structural epoch.
// Two Shapes with the same Epoch describe the same cell layout.
type Shape struct {
	Rows, Cols int
	Epoch      uint64
}

// Contains reports whether the coordinate lies inside the shape.
func (s Shape) Contains(row, col int) bool {
	return row >= 0 && row < s.Rows && col >= 0 && col < s.Cols
}

func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}
