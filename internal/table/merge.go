/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package table

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMerge     = errors.New("invalid merge span")
	ErrOverlappingMerge = errors.New("overlapping merge spans")
)

// Coord addresses a cell by zero-based row and column.
type Coord struct{ Row, Col int }

// Span is an inclusive rectangle of cells. Start is the anchor that carries the text.
type Span struct{ Start, End Coord }

// Merge is shorthand for Span{Coord{r1, c1}, Coord{r2, c2}}.
func Merge(r1, c1, r2, c2 int) Span { return Span{Start: Coord{r1, c1}, End: Coord{r2, c2}} }

// MergeMap indexes merge spans: anchors map to their end cell, every other
// cell inside a span is covered and never drawn on its own.
type MergeMap struct {
	order   []Coord
	ends    map[Coord]Coord
	covered map[Coord]struct{}
}

// BuildMergeMap validates spans against the grid and indexes them.
func BuildMergeMap(spans []Span, rows [][]string) (MergeMap, error) {
	m := MergeMap{ends: make(map[Coord]Coord, len(spans)), covered: make(map[Coord]struct{})}
	for _, sp := range spans {
		s, e := sp.Start, sp.End
		if s.Row < 0 || s.Col < 0 || e.Row < s.Row || e.Col < s.Col {
			return MergeMap{}, fmt.Errorf("%w: %v", ErrInvalidMerge, sp)
		}
		if s.Row >= len(rows) || s.Col >= len(rows[s.Row]) || e.Row >= len(rows) {
			return MergeMap{}, fmt.Errorf("%w: %v outside %d rows", ErrInvalidMerge, sp, len(rows))
		}
		for r := s.Row; r <= e.Row; r++ {
			for c := s.Col; c <= e.Col; c++ {
				cell := Coord{r, c}
				if m.taken(cell) {
					return MergeMap{}, fmt.Errorf("%w: %v at %v", ErrOverlappingMerge, sp, cell)
				}
				if cell != s {
					m.covered[cell] = struct{}{}
				}
			}
		}
		m.ends[s] = e
		m.order = append(m.order, s)
	}
	return m, nil
}

func (m MergeMap) taken(c Coord) bool {
	if _, ok := m.covered[c]; ok {
		return true
	}
	_, ok := m.ends[c]
	return ok
}

// End returns the end cell when c anchors a span.
func (m MergeMap) End(c Coord) (Coord, bool) {
	e, ok := m.ends[c]
	return e, ok
}

// Covered reports whether c lies inside a span without being its anchor.
func (m MergeMap) Covered(c Coord) bool {
	_, ok := m.covered[c]
	return ok
}

// Anchors returns span anchors in the order they were given.
func (m MergeMap) Anchors() []Coord { return m.order }
