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
	"strconv"

	"trainingdocs/internal/domain"
	"trainingdocs/internal/table"
)

// logbookLeft is the text column used on every logbook page.
const logbookLeft = 2.72 * cm

// Logbook writes the five-page course logbook to path.
func (c *Composer) Logbook(proj domain.Project, path string) error {
	cv, err := c.DrawLogbook(proj)
	if err != nil {
		return err
	}
	return cv.Save(path)
}

// DrawLogbook renders the logbook onto a new canvas.
func (c *Composer) DrawLogbook(proj domain.Project) (*Canvas, error) {
	tr := proj.Training
	cv := c.newCanvas("Dziennik zajęć " + tr.Get(domain.KeyNumber))

	steps := []func(*Canvas, domain.Project) error{
		c.logbookTitle, c.logbookPlan, c.logbookRoster, c.logbookIssued, c.logbookReport,
	}
	for i, step := range steps {
		if i > 0 {
			cv.ShowPage()
		}
		if err := step(cv, proj); err != nil {
			return nil, fmt.Errorf("logbook page %d: %w", i+1, err)
		}
	}
	return cv, nil
}

func (c *Composer) logbookTitle(cv *Canvas, proj domain.Project) error {
	tr := proj.Training
	pageW, top := cv.PageSize()

	cv.SetFont("", 28)
	cv.DrawCentredString(pageW/2, 18.3*cm, "Dziennik zajęć")

	y, err := drawTable(cv, table.Request{
		Rows:     [][]string{{"Tytuł: " + tr.Get(domain.KeyName)}},
		NoBorder: true, Center: true, Align: table.AlignCenter,
		FontSize: 20, Margins: noMargins, NoPadding: true,
	}, 0, 15.8*cm)
	if err != nil {
		return err
	}
	if _, err := drawTable(cv, table.Request{
		Rows:     [][]string{{"KOD SZKOLENIA: ", tr.Get(domain.KeyNumber)}},
		NoBorder: true, Center: true, FontSize: 20,
	}, 0, y); err != nil {
		return err
	}

	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, 9*cm, "Data: "+tr.Get(domain.KeyDate))
	if _, err := drawTable(cv, table.Request{
		Rows:     [][]string{{"Miejsce: ", tr.Get(domain.KeyPlace)}},
		NoBorder: true, FontSize: 12, Margins: noMargins, NoPadding: true,
	}, logbookLeft, 8.4*cm); err != nil {
		return err
	}
	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, 6.5*cm, "Prowadzący: "+tr.Get(domain.KeyTrainer))

	w, h := 6.2*cm, 2.5*cm
	c.image(cv, c.Assets.Logo, pageW-0.8*cm-w, top-0.8*cm-h, w, h)
	return nil
}

func (c *Composer) logbookPlan(cv *Canvas, proj domain.Project) error {
	tr := proj.Training
	_, top := cv.PageSize()
	y := top - 3*cm

	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "Plan szkolenia:")
	y -= 0.5 * cm
	y, err := drawTable(cv, table.Request{
		Rows: [][]string{
			{"Tematyka", "Liczba\ngodzin", "Podpis\nTrenera"},
			{tr.Get(domain.KeyTopics), tr.Get(domain.KeyDuration), ""},
		},
		ColWidths: []float64{12.5 * cm, 2 * cm, 3 * cm},
		Center:    true,
	}, logbookLeft, y)
	if err != nil {
		return err
	}

	y -= 1.5 * cm
	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "Program szkolenia:")
	y -= 0.5 * cm
	_, err = drawTable(cv, table.Request{
		Rows: [][]string{
			{"Data", "Tematyka", "Czas\nod - do", "Liczba\ngodzin", "Podpis\nTrenera"},
			{tr.Get(domain.KeyDate), tr.Get(domain.KeyTopics), tr.Get(domain.KeyTimeRange), tr.Get(domain.KeyDuration), ""},
		},
		ColWidths: []float64{2.8 * cm, 8 * cm, 2.2 * cm, 2.2 * cm, 2.9 * cm},
		Center:    true,
	}, logbookLeft, y)
	return err
}

func (c *Composer) logbookRoster(cv *Canvas, proj domain.Project) error {
	tr := proj.Training
	_, top := cv.PageSize()
	y := top - 3*cm
	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "Lista uczestników:")
	y -= 0.5 * cm

	rows := [][]string{{"", "Imie i nazwisko", "Data urodzenia", "Miejsce urodzenia", "Placówka"}}
	for i, p := range proj.Participants {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			domain.Field(p.FullName, domain.MissingPlaceholder),
			domain.Field(p.BirthDate, domain.MissingPlaceholder),
			domain.Field(p.BirthPlace, domain.MissingPlaceholder),
			tr.Get(domain.KeyPlace),
		})
	}
	_, err := drawTable(cv, table.Request{
		Rows:      rows,
		ColWidths: []float64{1 * cm, 6 * cm, 3 * cm, 4 * cm, 5 * cm},
		Center:    true,
	}, 0, y)
	return err
}

func (c *Composer) logbookIssued(cv *Canvas, proj domain.Project) error {
	tr := proj.Training
	_, top := cv.PageSize()
	y := top - 3*cm
	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "Wydane zaświadczenia:")
	y -= 0.5 * cm

	rows := [][]string{{"", "Imie i Nazwisko", "Numer Zaswiadczenia"}}
	for i, p := range proj.Participants {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			domain.Field(p.FullName, domain.Placeholder),
			SerialFor(tr, i),
		})
	}
	_, err := drawTable(cv, table.Request{
		Rows:      rows,
		ColWidths: []float64{1 * cm, 7.5 * cm, 7.5 * cm},
		Center:    true,
	}, 0, y)
	return err
}

func (c *Composer) logbookReport(cv *Canvas, proj domain.Project) error {
	tr := proj.Training
	org := c.org()
	_, top := cv.PageSize()
	y := top - 3*cm

	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "ORGANIZACJA KURSU:")
	y -= 2 * cm
	cv.DrawString(logbookLeft, y, "Nazwa instytucji organizującej:")
	y -= 0.5 * cm
	cv.SetFont("", 10)
	cv.DrawString(logbookLeft, y, org.Institution)
	y -= 2 * cm
	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "Opiekun: "+org.Supervisor)
	y -= 3 * cm
	cv.DrawString(logbookLeft, y, "SPRAWOZDANIE Z KURSU:")
	y -= 1.5 * cm

	count := domain.Placeholder
	if n := len(proj.Participants); n > 0 {
		count = strconv.Itoa(n)
	}
	if _, err := drawTable(cv, table.Request{
		Rows: [][]string{
			{"Czas trwania kursu", "", "Liczba", "", "Liczba uczestników", "Liczba wydanych zaświadczeń", "Uwagi"},
			{"od", "do", "dni", "godzin", "", "", ""},
			{tr.Get(domain.KeyDate), tr.Get(domain.KeyDate), "1", tr.Get(domain.KeyDuration), count, count, "-"},
		},
		ColWidths: []float64{3 * cm, 3 * cm, 1.5 * cm, 2 * cm, 3 * cm, 3 * cm, 2 * cm},
		Center:    true,
		Align:     table.AlignCenter,
		Merges: []table.Span{
			table.Merge(0, 0, 0, 1),
			table.Merge(0, 2, 0, 3),
			table.Merge(0, 4, 1, 4),
			table.Merge(0, 5, 1, 5),
			table.Merge(0, 6, 1, 6),
		},
	}, 0, y); err != nil {
		return err
	}

	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, 5*cm, org.City+", "+tr.Get(domain.KeyIssueDate))
	return nil
}
