/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"trainingdocs/internal/importer"
)

// SurveyPDF renders an evaluation summary: one block per question with its
// answers below, separated by rules.
func (c *Composer) SurveyPDF(s importer.Survey, path string) error {
	m, family := c.newMaroto()

	heading := props.Text{Family: family, Size: 14, Style: fontstyle.Bold, Align: align.Center}
	question := props.Text{Family: family, Size: 10, Style: fontstyle.Bold, Top: 1}
	answer := props.Text{Family: family, Size: 9, Left: 4, Top: 0.5}

	m.AddAutoRow(col.New(12).Add(text.New("Podsumowanie ankiety ewaluacyjnej", heading)))
	m.AddAutoRow(col.New(12).Add(text.New(
		fmt.Sprintf("Liczba odpowiedzi: %d", s.Responses),
		props.Text{Family: family, Size: 9, Align: align.Center, Top: 1},
	)))
	m.AddRows(row.New(4))

	for _, q := range s.Columns {
		m.AddAutoRow(col.New(12).Add(text.New(q.Header, question)))
		switch q.Kind {
		case importer.KindRating:
			m.AddAutoRow(col.New(12).Add(text.New("Średnia ocena: "+q.Value(), answer)))
		case importer.KindRemarks:
			for _, r := range q.Remarks {
				m.AddAutoRow(col.New(12).Add(text.New("• "+r, answer)))
			}
		default:
			for _, n := range q.Counts {
				m.AddAutoRow(
					col.New(10).Add(text.New(n.Label, answer)),
					col.New(2).Add(text.New(fmt.Sprint(n.N), props.Text{Family: family, Size: 9, Align: align.Right, Top: 0.5})),
				)
			}
		}
		m.AddRow(4, line.NewCol(12, props.Line{Thickness: 0.2}))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("render survey: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := doc.Save(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// newMaroto returns an A4 document using the configured font when it can be
// read, and the maroto default family otherwise.
func (c *Composer) newMaroto() (core.Maroto, string) {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithRightMargin(15).
		WithTopMargin(15).
		WithBottomMargin(15).
		WithAuthor(c.org().Institution, true).
		WithTitle("Ankieta ewaluacyjna", true)

	family := ""
	if c.font() != nil {
		fonts, err := repository.New().
			AddUTF8Font(c.Assets.FontName, fontstyle.Normal, c.Assets.FontPath).
			AddUTF8Font(c.Assets.FontName, fontstyle.Bold, c.Assets.FontPath).
			Load()
		if err != nil {
			c.logger().Error("survey font not loaded", slog.String("path", c.Assets.FontPath), slog.Any("err", err))
		} else {
			family = c.Assets.FontName
			b = b.WithCustomFonts(fonts).WithDefaultFont(&props.Font{Family: family, Size: 10})
		}
	}
	return maroto.New(b.Build()), family
}
