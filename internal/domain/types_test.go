/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainingGetPlaceholder(t *testing.T) {
	tr := Training{KeyName: "Ocenianie kształtujące", KeyPlace: ""}
	assert.Equal(t, "Ocenianie kształtujące", tr.Get(KeyName))
	assert.Equal(t, "", tr.Get(KeyPlace), "present empty value stays empty")
	assert.Equal(t, Placeholder, tr.Get(KeyTrainer))

	var nilTraining Training
	assert.Equal(t, Placeholder, nilTraining.Get(KeyNumber))
}

func TestProjectJSONKeys(t *testing.T) {
	p := NewProject()
	p.Participants = append(p.Participants, Participant{
		FullName: "Anna Nowak", BirthPlace: "Kraków", BirthDate: "03.01.1990 r.", SortingName: "anna nowak",
	})
	b, err := json.Marshal(p)
	require.NoError(t, err)
	s := string(b)
	for _, key := range []string{`"Szkolenie"`, `"Osoby"`, `"imie_nazwisko"`, `"sorting_name"`, `"email":null`, `"UUID":null`, `"generated":null`, `"tematyka":""`} {
		assert.True(t, strings.Contains(s, key), "missing %s in %s", key, s)
	}
}

func TestEqualAndClone(t *testing.T) {
	a := NewProject()
	a.Participants = []Participant{{FullName: "Jan Kowalski", Email: StrPtr("jan@example.pl")}}
	b := a.Clone()
	assert.True(t, a.Equal(b))

	*b.Participants[0].Email = "inny@example.pl"
	assert.False(t, a.Equal(b), "clone must not share pointers")
	assert.Equal(t, "jan@example.pl", *a.Participants[0].Email)

	b = a.Clone()
	b.Training[KeyNumber] = "SzRP/25/1"
	assert.False(t, a.Equal(b))
}

func TestEqualTreatsNilAndEmptyAlike(t *testing.T) {
	assert.True(t, Project{}.Equal(Project{Training: Training{}, Participants: []Participant{}}))
	assert.True(t, Project{}.IsEmpty())
	assert.False(t, NewProject().IsEmpty())
}

func TestSortingNameAndField(t *testing.T) {
	assert.Equal(t, "łukasz żółć", SortingName("  Łukasz ŻÓŁĆ "))
	assert.Equal(t, MissingPlaceholder, Field("  ", MissingPlaceholder))
	assert.Equal(t, "x", Field("x", MissingPlaceholder))
}

func TestParticipantHelpers(t *testing.T) {
	p := Participant{}
	assert.False(t, p.HasEmail())
	assert.Equal(t, "", p.Serial())
	p.Email = StrPtr(" ")
	assert.False(t, p.HasEmail())
	p.Email = StrPtr("a@b.pl")
	p.SerialID = StrPtr("SzRP/25/1/3")
	assert.True(t, p.HasEmail())
	assert.Equal(t, "SzRP/25/1/3", p.Serial())
}
