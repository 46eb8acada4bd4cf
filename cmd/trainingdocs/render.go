/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/samber/lo"

	"trainingdocs/internal/domain"
	"trainingdocs/internal/importer"
	"trainingdocs/internal/storage"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// trainingTable lists the known keys in form order, then any extra keys.
func trainingTable(t domain.Training) string {
	tb := newTable("Pole", "Wartość")
	for _, k := range domain.TrainingKeys {
		tb.Row(k, t.Get(k))
	}
	extra := lo.Without(lo.Keys(map[string]string(t)), domain.TrainingKeys...)
	for _, k := range sortedStrings(extra) {
		tb.Row(k, t[k])
	}
	return tb.String()
}

func participantTable(ps []domain.Participant) string {
	tb := newTable("Lp.", "Imię i nazwisko", "Data urodzenia", "Miejsce urodzenia", "Email", "Nr")
	for i, p := range ps {
		email := ""
		if p.HasEmail() {
			email = *p.Email
		}
		tb.Row(strconv.Itoa(i+1),
			domain.Field(p.FullName, domain.MissingPlaceholder),
			domain.Field(p.BirthDate, domain.MissingPlaceholder),
			domain.Field(p.BirthPlace, domain.MissingPlaceholder),
			email, p.Serial())
	}
	return tb.String()
}

func uncertainTable(pairs []importer.Pair) string {
	tb := newTable("Imię i nazwisko", "Data urodzenia", "Imię i nazwisko", "Data urodzenia")
	for _, p := range pairs {
		tb.Row(p.First.FullName, p.First.BirthDate, p.Second.FullName, p.Second.BirthDate)
	}
	return tb.String()
}

func issuanceTable(items []storage.Issuance) string {
	tb := newTable("Nr", "Uczestnik", "Szkolenie", "Wydano", "Plik")
	for _, it := range items {
		tb.Row(it.Serial, it.Participant, it.TrainingNumber, stamp(it.IssuedAt), it.Path)
	}
	return tb.String()
}

func importsTable(recs []storage.ImportRecord) string {
	tb := newTable("Rodzaj", "Źródło", "Wiersze", "Usunięte", "Niepewne", "Data")
	for _, r := range recs {
		tb.Row(r.Kind, r.Source, strconv.Itoa(r.Rows), strconv.Itoa(r.Dropped), strconv.Itoa(r.Uncertain), stamp(r.ImportedAt))
	}
	return tb.String()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	slices.Sort(out)
	return out
}
