/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"path/filepath"
	"strconv"

	"trainingdocs/internal/domain"
)

// fieldSpec describes one entry of the training form.
type fieldSpec struct {
	Key       string
	Label     string
	Multiline bool
}

var trainingFields = []fieldSpec{
	{Key: domain.KeyNumber, Label: "Numer szkolenia"},
	{Key: domain.KeyName, Label: "Nazwa szkolenia"},
	{Key: domain.KeyPlace, Label: "Miejsce szkolenia"},
	{Key: domain.KeyDate, Label: "Data szkolenia"},
	{Key: domain.KeyTrainer, Label: "Prowadzący"},
	{Key: domain.KeyDuration, Label: "Czas trwania"},
	{Key: domain.KeyTimeRange, Label: "Godziny (od-do)"},
	{Key: domain.KeyIssueDate, Label: "Data wystawienia"},
	{Key: domain.KeyTopics, Label: "Tematyka", Multiline: true},
}

var participantColumns = []string{"Lp.", "Imię i nazwisko", "Data urodzenia", "Miejsce urodzenia", "Email", "Nr zaświadczenia"}

// participantRows flattens the participants for the read-only table.
func participantRows(p domain.Project) [][]string {
	rows := make([][]string, 0, len(p.Participants))
	for i, pp := range p.Participants {
		email := ""
		if pp.HasEmail() {
			email = *pp.Email
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			pp.FullName,
			pp.BirthDate,
			pp.BirthPlace,
			email,
			pp.Serial(),
		})
	}
	return rows
}

// applyTrainingForm copies the form values into t. Keys missing from values
// are left untouched so unknown keys in the data file survive editing.
func applyTrainingForm(t domain.Training, values map[string]string) domain.Training {
	if t == nil {
		t = domain.Training{}
	}
	for _, f := range trainingFields {
		if v, ok := values[f.Key]; ok {
			t[f.Key] = v
		}
	}
	return t
}

// formValue is the text shown in the form for key; absent keys show empty.
func formValue(t domain.Training, key string) string {
	if v, ok := t[key]; ok {
		return v
	}
	return ""
}

func windowTitle(root string, dirty bool) string {
	if root == "" {
		return "Dokumentacja szkoleń"
	}
	mark := ""
	if dirty {
		mark = " *"
	}
	return fmt.Sprintf("Dokumentacja szkoleń - %s%s", filepath.Base(root), mark)
}
