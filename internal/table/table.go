/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package table lays out and draws grid tables with wrapped text, merged cells
// and page breaks. Coordinates follow PDF convention: origin bottom-left, y up,
// units in points. Tables grow downward from the y they are given.
package table

import (
	"trainingdocs/internal/textlayout"
)

// Color is an opaque RGB color.
type Color struct{ R, G, B uint8 }

var (
	Black     = Color{0, 0, 0}
	Grey      = Color{128, 128, 128}
	LightGrey = Color{211, 211, 211}
)

// Surface is the drawing backend a table renders onto. An empty family selects
// the surface's default text font.
type Surface interface {
	textlayout.Measurer
	PageSize() (w, h float64)
	SetFont(family string, size float64)
	SetStrokeColor(Color)
	SetFillColor(Color)
	// Rect draws a rectangle whose lower-left corner is (x, y).
	Rect(x, y, w, h float64, stroke, fill bool)
	DrawString(x, y float64, s string)
	DrawCentredString(cx, y float64, s string)
	ShowPage()
}

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Margins bound the printable area; Bottom triggers page breaks and Top is where a new page starts.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// DefaultMargins are 1 cm at the sides and 2.5 cm at top and bottom.
func DefaultMargins() Margins {
	return Margins{Left: 1 * CM, Right: 1 * CM, Top: 2.5 * CM, Bottom: 2.5 * CM}
}

// Request describes one table.
type Request struct {
	Rows [][]string
	// ColWidths in points; nil infers them from the first row.
	ColWidths []float64
	Merges    []Span
	// Header fills the first row (and any rows merged into its first cell) light grey.
	Header   bool
	NoBorder bool
	Align    Align
	// Center ignores x and centres the table horizontally on the page.
	Center bool
	Font   string
	// FontSize defaults to 10.
	FontSize float64
	// Margins defaults to DefaultMargins; &Margins{} disables them.
	Margins   *Margins
	NoPadding bool
}

func (r Request) margins() Margins {
	if r.Margins == nil {
		return DefaultMargins()
	}
	return *r.Margins
}

func (r Request) metrics() Metrics {
	size := r.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	return NewMetrics(r.Font, size, !r.NoPadding)
}

// Layout is a fully measured table.
type Layout struct {
	X       float64
	Widths  []float64
	Heights []float64
	Merges  MergeMap
	Metrics Metrics
}

// Measure resolves widths, position and row heights without drawing.
func Measure(ms textlayout.Measurer, req Request, x, pageWidth float64) (Layout, error) {
	met := req.metrics()
	widths := req.ColWidths
	if len(widths) == 0 && len(req.Rows) > 0 {
		widths = InferWidths(req.Rows[0], met, ms)
	}
	widths = FitWidths(widths, x, pageWidth, req.Center)
	if req.Center {
		x = (pageWidth - sum(widths)) / 2
	}
	merges, err := BuildMergeMap(req.Merges, req.Rows)
	if err != nil {
		return Layout{}, err
	}
	heights, err := RowHeights(req.Rows, widths, merges, met, ms)
	if err != nil {
		return Layout{}, err
	}
	return Layout{X: x, Widths: widths, Heights: heights, Merges: merges, Metrics: met}, nil
}

// Draw renders req with its top-left corner at (x, y) and returns the y below
// the last row. Before each row, if it would cross the bottom margin, a new
// page is started and drawing resumes at the top margin. A row taller than a
// page is drawn anyway and overflows.
func Draw(s Surface, req Request, x, y float64) (float64, error) {
	if len(req.Rows) == 0 {
		return y, nil
	}
	pageW, pageH := s.PageSize()
	lay, err := Measure(s, req, x, pageW)
	if err != nil {
		return y, err
	}
	met := lay.Metrics
	margins := req.margins()
	tableWidth := sum(lay.Widths)

	s.SetFont(met.Family, met.FontSize)
	for r, row := range req.Rows {
		h := lay.Heights[r]
		if y-h < margins.Bottom {
			s.ShowPage()
			s.SetFont(met.Family, met.FontSize)
			y = pageH - margins.Top
		}

		if req.Header && r == 0 {
			hh := h
			if end, ok := lay.Merges.End(Coord{0, 0}); ok {
				hh = sum(lay.Heights[:end.Row+1])
			}
			s.SetFillColor(LightGrey)
			s.Rect(lay.X, y-hh, tableWidth, hh, false, true)
		}

		cx := lay.X
		for c, text := range row {
			cell := Coord{r, c}
			colW := lay.Widths[c]
			if lay.Merges.Covered(cell) {
				cx += colW
				continue
			}
			w, ch := colW, h
			if end, ok := lay.Merges.End(cell); ok {
				w = sum(lay.Widths[c : end.Col+1])
				ch = sum(lay.Heights[r : end.Row+1])
			}
			if !req.NoBorder {
				s.SetStrokeColor(Grey)
				s.Rect(cx, y-ch, w, ch, true, false)
			}

			s.SetFillColor(Black)
			ty := y - met.FontSize - met.PadH
			for _, line := range met.wrap(text, w, s) {
				if req.Align == AlignCenter {
					s.DrawCentredString(cx+w/2, ty, line)
				} else {
					s.DrawString(cx+met.PadH, ty, line)
				}
				ty -= met.LineHeight
			}
			cx += colW
		}
		y -= h
	}
	return y, nil
}
