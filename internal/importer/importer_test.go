/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingdocs/internal/domain"
)

var attendanceHeader = []any{"Sygnatura czasowa", "Imię i nazwisko", "Data urodzenia", "Miejsce urodzenia", "Szkoła", "Adres e-mail"}

func TestImportXLSX(t *testing.T) {
	path := writeXLSX(t, [][]any{
		attendanceHeader,
		{"2024-03-01", "  Jan Kowalski ", "1.3.1980", "KRAKÓW", "SP 1", "jan@example.com"},
		{"2024-03-01", "Anna Nowak", "12 maja 1975", "wieliczka", "SP 2", ""},
		{"2024-03-01", "", "01.01.1990", "Tarnów", "SP 3", "x@example.com"},
	}, 1)

	res, err := Import(path, Options{})
	require.NoError(t, err)
	require.Len(t, res.Participants, 2)

	jan := res.Participants[0]
	assert.Equal(t, "Jan Kowalski", jan.FullName)
	assert.Equal(t, "jan kowalski", jan.SortingName)
	assert.Equal(t, "Kraków", jan.BirthPlace)
	assert.Equal(t, "01.03.1980 r.", jan.BirthDate)
	require.NotNil(t, jan.Email)
	assert.Equal(t, "jan@example.com", *jan.Email)
	assert.Nil(t, jan.SerialID)
	assert.Nil(t, jan.Generated)

	anna := res.Participants[1]
	assert.Equal(t, "Wieliczka", anna.BirthPlace)
	assert.Equal(t, "12.05.1975 r.", anna.BirthDate)
	assert.Nil(t, anna.Email)
}

func TestImportODS(t *testing.T) {
	path := writeODS(t,
		odsRow("ts", "Imię i nazwisko", "Data", "Miejsce", "Szkoła", "Email")+
			`<table:table-row table:number-rows-repeated="3"><table:table-cell table:number-columns-repeated="1024"/></table:table-row>`+
			odsRow("t1", "Ewa Zając", "03-02-1988", "ŁÓDŹ", "", "ewa@example.com")+
			`<table:table-row table:number-rows-repeated="1048000"><table:table-cell table:number-columns-repeated="1024"/></table:table-row>`,
	)

	res, err := Import(path, Options{})
	require.NoError(t, err)
	require.Len(t, res.Participants, 1)
	p := res.Participants[0]
	assert.Equal(t, "Ewa Zając", p.FullName)
	assert.Equal(t, "Łódź", p.BirthPlace)
	assert.Equal(t, "03.02.1988 r.", p.BirthDate)
	require.NotNil(t, p.Email)
}

func TestImportRejectsWrongSheetCount(t *testing.T) {
	xlsx := writeXLSX(t, [][]any{attendanceHeader}, 2)
	_, err := Import(xlsx, Options{})
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, xlsx, fe.Path)

	ods := writeODS(t, odsRow("a"), odsRow("b"))
	_, err = Import(ods, Options{})
	require.ErrorAs(t, err, &fe)
}

func TestImportUnknownAndBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	csv := filepath.Join(dir, "lista.csv")
	require.NoError(t, os.WriteFile(csv, []byte("a,b\n"), 0o644))
	_, err := Import(csv, Options{})
	var fe *FormatError
	require.ErrorAs(t, err, &fe)

	broken := filepath.Join(dir, "lista.ods")
	require.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0o644))
	_, err = Import(broken, Options{})
	require.ErrorAs(t, err, &fe)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestImportReportsDuplicates(t *testing.T) {
	path := writeXLSX(t, [][]any{
		attendanceHeader,
		{"", "Jan Kowalski", "01.03.1980", "Kraków", "", ""},
		{"", "Jan Kowalski", "01.03.1980", "Kraków", "", "jan@example.com"},
		{"", "Piotr Nowak", "01.01.1970", "Bochnia", "", ""},
		{"", "Piotr Nowak", "02.02.1972", "Bochnia", "", ""},
	}, 1)
	res, err := Import(path, Options{})
	require.NoError(t, err)
	assert.Len(t, res.Participants, 3)
	require.Len(t, res.Dropped, 1)
	assert.Nil(t, res.Dropped[0].Email)
	require.Len(t, res.Uncertain, 1)
	assert.Equal(t, "piotr nowak", res.Uncertain[0].First.SortingName)
}

func TestImportCollapsesNamesDifferingInCase(t *testing.T) {
	path := writeXLSX(t, [][]any{
		attendanceHeader,
		{"", "Anna Nowak", "3 stycznia 2021", "Kraków", "", ""},
		{"", "anna nowak", "03.01.2021", "kraków", "", ""},
	}, 1)
	res, err := Import(path, Options{})
	require.NoError(t, err)
	require.Len(t, res.Participants, 1)
	assert.Equal(t, "anna nowak", res.Participants[0].FullName)
	assert.Equal(t, "03.01.2021 r.", res.Participants[0].BirthDate)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, "Anna Nowak", res.Dropped[0].FullName)
	assert.Empty(t, res.Uncertain)
}

func TestImportEmptySheetGivesEmptyList(t *testing.T) {
	path := writeXLSX(t, [][]any{attendanceHeader}, 1)
	res, err := Import(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []domain.Participant{}, res.Participants)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Świdnik", capitalize("ŚWIDNIK"))
	assert.Equal(t, "Nowy targ", capitalize("NOWY TARG"))
	assert.Equal(t, "", capitalize(""))
}
