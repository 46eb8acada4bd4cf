/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package importer turns attendance and evaluation spreadsheets (ODS or XLSX
// exports of the registration and survey forms) into participant records and
// survey summaries.
package importer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trainingdocs/internal/domain"
	applog "trainingdocs/internal/log"
)

// Attendance sheet columns, zero-based. Row 0 is the form header.
const (
	colName       = 1
	colBirthDate  = 2
	colBirthPlace = 3
	colEmail      = 5
)

// Options controls Import.
type Options struct {
	Policy Policy
}

// Result is the outcome of an attendance import.
type Result struct {
	Participants []domain.Participant
	Uncertain    []Pair
	Dropped      []domain.Participant
}

var polishLower = cases.Lower(language.Polish)

// Import reads the attendance spreadsheet at path.
func Import(path string, opts Options) (Result, error) {
	rows, err := readSheet(path)
	if err != nil {
		return Result{}, err
	}
	var records []domain.Participant
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if p, ok := participantFromRow(row); ok {
			records = append(records, p)
		}
	}
	kept, uncertain, dropped := Deduplicate(records, opts.Policy)
	if kept == nil {
		kept = []domain.Participant{}
	}

	l := applog.WithOperation(applog.WithComponent("importer"), "import")
	l.Info("attendance imported", "path", path, "rows", len(records), "kept", len(kept), "dropped", len(dropped))
	for _, u := range uncertain {
		l.Warn("uncertain duplicate", "name", u.First.FullName, "dob1", u.First.BirthDate, "dob2", u.Second.BirthDate)
	}
	return Result{Participants: kept, Uncertain: uncertain, Dropped: dropped}, nil
}

func participantFromRow(row []string) (domain.Participant, bool) {
	name := strings.TrimSpace(cell(row, colName))
	if name == "" {
		return domain.Participant{}, false
	}
	p := domain.Participant{
		FullName:    name,
		BirthPlace:  capitalize(cell(row, colBirthPlace)),
		BirthDate:   NormalizeDate(cell(row, colBirthDate)),
		SortingName: domain.SortingName(name),
	}
	if email := strings.TrimSpace(cell(row, colEmail)); email != "" {
		p.Email = domain.StrPtr(email)
	}
	return p, true
}

// capitalize lowercases s and uppercases its first letter.
func capitalize(s string) string {
	s = polishLower.String(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
