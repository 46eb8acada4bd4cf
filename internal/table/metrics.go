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

	"github.com/samber/lo"

	"trainingdocs/internal/textlayout"
)

// Page geometry in points.
const (
	CM       = 72 / 2.54
	MM       = CM / 10
	A4Width  = 21 * CM
	A4Height = 29.7 * CM

	// UsableWidth is the A4 width minus the default 1 cm side margins.
	UsableWidth = 19 * CM
)

const DefaultFontSize = 10

var ErrColumnCount = errors.New("row has more cells than columns")

// Metrics holds the typographic constants for one table.
type Metrics struct {
	Family     string
	FontSize   float64
	LineHeight float64
	PadH       float64
	PadV       float64
}

// NewMetrics derives line height (1.2 × size) and cell padding (2 mm / 2.6 mm).
// Without padding only the horizontal inset is dropped.
func NewMetrics(family string, size float64, padding bool) Metrics {
	m := Metrics{Family: family, FontSize: size, LineHeight: size * 1.2, PadH: 2 * MM, PadV: 2.6 * MM}
	if !padding {
		m.PadH = 0
	}
	return m
}

// cellHeight is the height a block of n wrapped lines needs.
func (m Metrics) cellHeight(n int) float64 { return float64(n)*m.LineHeight + 2*m.PadV }

func (m Metrics) wrap(text string, width float64, ms textlayout.Measurer) []string {
	return textlayout.Wrap(text, width-2*m.PadH, m.Family, m.FontSize, ms)
}

// RowHeights computes the height of every row. Ordinary cells size their row;
// horizontal merges raise their row to fit; vertical merges add any shortfall to
// the last row they span.
func RowHeights(rows [][]string, widths []float64, merges MergeMap, met Metrics, ms textlayout.Measurer) ([]float64, error) {
	if err := checkColumns(rows, widths); err != nil {
		return nil, err
	}
	heights := make([]float64, len(rows))
	for r, row := range rows {
		for c, text := range row {
			cell := Coord{r, c}
			if merges.Covered(cell) {
				continue
			}
			if _, anchor := merges.End(cell); anchor {
				continue
			}
			heights[r] = max(heights[r], met.cellHeight(len(met.wrap(text, widths[c], ms))))
		}
	}

	for _, a := range merges.Anchors() {
		e, _ := merges.End(a)
		if e.Col >= len(widths) {
			return nil, fmt.Errorf("%w: span %v-%v exceeds %d columns", ErrInvalidMerge, a, e, len(widths))
		}
		required := met.cellHeight(len(met.wrap(rows[a.Row][a.Col], sum(widths[a.Col:e.Col+1]), ms)))
		if a.Row == e.Row {
			heights[a.Row] = max(heights[a.Row], required)
			continue
		}
		if span := sum(heights[a.Row : e.Row+1]); required > span {
			heights[e.Row] += required - span
		}
	}
	return heights, nil
}

// InferWidths sizes each column to its header text plus padding.
func InferWidths(header []string, met Metrics, ms textlayout.Measurer) []float64 {
	return lo.Map(header, func(h string, _ int) float64 {
		return ms.StringWidth(h, met.Family, met.FontSize) + 2.01*met.PadH
	})
}

// FitWidths shrinks the last column when the table would run off the page:
// to UsableWidth minus the other columns for centred tables, and to
// UsableWidth minus x minus the other columns otherwise.
func FitWidths(widths []float64, x, pageWidth float64, centered bool) []float64 {
	if len(widths) == 0 {
		return widths
	}
	out := append([]float64(nil), widths...)
	others := sum(out[:len(out)-1])
	switch {
	case centered && sum(out) > pageWidth:
		out[len(out)-1] = UsableWidth - others
	case !centered && sum(out)+x > pageWidth:
		out[len(out)-1] = UsableWidth - x - others
	}
	return out
}

func checkColumns(rows [][]string, widths []float64) error {
	for r, row := range rows {
		if len(row) > len(widths) {
			return fmt.Errorf("%w: row %d has %d cells, %d columns", ErrColumnCount, r, len(row), len(widths))
		}
	}
	return nil
}

func sum(v []float64) float64 { return lo.Sum(v) }
