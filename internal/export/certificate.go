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

	"trainingdocs/internal/domain"
	"trainingdocs/internal/table"
)

// Accent is the blue of the certificate heading rules.
var Accent = table.Color{R: 0x7B, G: 0x9F, B: 0xF3}

// Certificate writes the two-page completion certificate for p to path.
func (c *Composer) Certificate(tr domain.Training, p domain.Participant, path string) error {
	cv, err := c.DrawCertificate(tr, p)
	if err != nil {
		return err
	}
	return cv.Save(path)
}

// DrawCertificate renders a certificate onto a new canvas.
func (c *Composer) DrawCertificate(tr domain.Training, p domain.Participant) (*Canvas, error) {
	org := c.org()
	cv := c.newCanvas("Zaświadczenie " + domain.Field(p.Serial(), tr.Get(domain.KeyNumber)))
	pageW, top := cv.PageSize()
	mid := pageW / 2

	cv.SetFont("", 12)
	c.image(cv, c.Assets.Logo, 1.5*cm, 26*cm, 6.2*cm, 2.5*cm)
	c.image(cv, c.Assets.Stamp, 12.1*cm, 26.4*cm, 7.5*cm, 2.2*cm)
	cv.DrawString(1.2*cm, 23.1*cm, domain.Field(p.Serial(), domain.Placeholder))

	cv.SetStrokeColor(Accent)
	cv.SetFillColor(Accent)
	cv.Line(2.8*cm, 22.4*cm, 18.2*cm, 22.4*cm)
	cv.SetFont("", 22)
	cv.DrawCentredString(mid, 21.3*cm, "ZAŚWIADCZENIE")
	cv.SetFont("", 12)
	cv.DrawCentredString(mid, 20.5*cm, "O UKOŃCZENIU FORMY DOSKONALENIA ZAWODOWEGO")
	cv.Line(2.8*cm, 20.1*cm, 18.2*cm, 20.1*cm)
	cv.SetFillColor(table.Black)
	cv.SetStrokeColor(table.Black)
	cv.DrawCentredString(mid, 18.9*cm, "Pan/i")

	heading := table.Request{
		NoBorder: true, Center: true, Align: table.AlignCenter,
		FontSize: 20, Margins: noMargins, NoPadding: true,
	}
	heading.Rows = [][]string{{domain.Field(p.FullName, domain.Placeholder)}}
	if _, err := drawTable(cv, heading, 0, 18.4*cm); err != nil {
		return nil, fmt.Errorf("certificate name: %w", err)
	}

	cv.SetFont("", 12)
	cv.DrawCentredString(mid, 16.6*cm, fmt.Sprintf("urodzony/a: %s, %s",
		domain.Field(p.BirthDate, domain.Placeholder), domain.Field(p.BirthPlace, domain.Placeholder)))
	y := 15 * cm
	cv.DrawCentredString(mid, y, "ukończył/a szkolenie:")

	y -= 0.5 * cm
	heading.Rows = [][]string{{"„" + tr.Get(domain.KeyName) + "”"}}
	if _, err := drawTable(cv, heading, 0, y); err != nil {
		return nil, fmt.Errorf("certificate title: %w", err)
	}

	cv.SetFont("", 12)
	y -= 3 * cm
	cv.DrawString(5.4*cm, y, "w dniu: "+tr.Get(domain.KeyDate))
	cv.DrawString(11.4*cm, y, "w wymiarze: "+tr.Get(domain.KeyDuration))

	y -= 1.8 * cm
	for i, line := range org.OrganizerLines {
		if i > 0 {
			y -= 0.6 * cm
		}
		cv.DrawCentredString(mid, y, line)
	}

	y = 5.6 * cm
	cv.DrawString(3*cm, y, "Zaświadczenie wydano:")
	y -= 0.8 * cm
	cv.DrawString(3*cm, y, fmt.Sprintf("%s, %s r.", org.City, tr.Get(domain.KeyIssueDate)))

	cv.ShowPage()
	y = top - 3*cm
	cv.SetFont("", 12)
	cv.DrawString(logbookLeft, y, "Plan szkolenia:")
	y -= 0.5 * cm
	if _, err := drawTable(cv, table.Request{
		Rows:      [][]string{{"Tematyka"}, {tr.Get(domain.KeyTopics)}},
		ColWidths: []float64{17.5 * cm},
		Center:    true,
	}, logbookLeft, y); err != nil {
		return nil, fmt.Errorf("certificate plan: %w", err)
	}
	return cv, nil
}
