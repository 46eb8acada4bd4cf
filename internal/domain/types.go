/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import (
	"reflect"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// This file defines the record of one training run as stored in data.json.
// JSON keys are the fixed Polish names the data file has always used.

// Placeholders printed for absent values so drafts remain inspectable.
const (
	Placeholder        = "PLACEHOLDER"
	MissingPlaceholder = "MISSING"
)

// Training field keys.
const (
	KeyNumber    = "numer_szkolenia"
	KeyName      = "nazwa_szkolenia"
	KeyPlace     = "miejsce_szkolenia"
	KeyDate      = "data_szkolenia"
	KeyTrainer   = "prowadzacy"
	KeyDuration  = "czas_trwania"
	KeyTimeRange = "czas_trwania_od_do"
	KeyIssueDate = "data_wystawienia"
	KeyTopics    = "tematyka"
)

// TrainingKeys lists the training fields in form order.
var TrainingKeys = []string{
	KeyNumber, KeyName, KeyPlace, KeyDate, KeyTrainer, KeyDuration, KeyTimeRange, KeyIssueDate, KeyTopics,
}

// Training is the flat key/value training block ("Szkolenie").
// A key that is absent renders as Placeholder; a present empty value renders empty.
type Training map[string]string

// Get returns the value for key, or Placeholder when the key is absent.
func (t Training) Get(key string) string {
	if v, ok := t[key]; ok {
		return v
	}
	return Placeholder
}

// NewTraining returns a training block with every known key set to "".
func NewTraining() Training {
	t := make(Training, len(TrainingKeys))
	for _, k := range TrainingKeys {
		t[k] = ""
	}
	return t
}

// Participant is one attendee ("Osoby" entry).
type Participant struct {
	FullName    string  `json:"imie_nazwisko"`
	BirthPlace  string  `json:"miejsce_urodzenia"`
	BirthDate   string  `json:"data_urodzenia"`
	SortingName string  `json:"sorting_name"`
	Email       *string `json:"email"`
	SerialID    *string `json:"UUID"`
	Generated   *string `json:"generated"`
}

// Field returns v, or placeholder when v is blank.
func Field(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}

// HasEmail reports whether a non-blank email is recorded.
func (p Participant) HasEmail() bool {
	return p.Email != nil && strings.TrimSpace(*p.Email) != ""
}

// Serial returns the assigned serial id or "".
func (p Participant) Serial() string {
	if p.SerialID == nil {
		return ""
	}
	return *p.SerialID
}

var polishLower = cases.Lower(language.Polish)

// SortingName derives the lowercase sort key from a full name.
func SortingName(fullName string) string {
	return polishLower.String(strings.TrimSpace(fullName))
}

// Project is the whole data file.
type Project struct {
	Training     Training      `json:"Szkolenie"`
	Participants []Participant `json:"Osoby"`
}

// NewProject returns an empty record with all training keys present.
func NewProject() Project {
	return Project{Training: NewTraining(), Participants: []Participant{}}
}

// Clone returns a deep copy.
func (p Project) Clone() Project {
	out := Project{}
	if p.Training != nil {
		out.Training = make(Training, len(p.Training))
		for k, v := range p.Training {
			out.Training[k] = v
		}
	}
	if p.Participants != nil {
		out.Participants = make([]Participant, len(p.Participants))
		for i, pp := range p.Participants {
			out.Participants[i] = pp.clone()
		}
	}
	return out
}

func (p Participant) clone() Participant {
	c := p
	c.Email = cloneStr(p.Email)
	c.SerialID = cloneStr(p.SerialID)
	c.Generated = cloneStr(p.Generated)
	return c
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Equal reports deep equality. Nil and empty collections compare equal.
func (p Project) Equal(o Project) bool {
	return reflect.DeepEqual(p.normalized(), o.normalized())
}

func (p Project) normalized() Project {
	n := p.Clone()
	if n.Training == nil {
		n.Training = Training{}
	}
	if n.Participants == nil {
		n.Participants = []Participant{}
	}
	return n
}

// IsEmpty reports whether the record carries no data at all.
func (p Project) IsEmpty() bool {
	return len(p.Training) == 0 && len(p.Participants) == 0
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }
