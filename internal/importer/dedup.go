/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"sort"
	"strings"

	"trainingdocs/internal/domain"
)

// Policy breaks ties between certain duplicates when both or neither record an email.
type Policy int

const (
	// DropEarlier keeps the later of the two rows.
	DropEarlier Policy = iota
	// DropLater keeps the earlier of the two rows.
	DropLater
)

// Pair names two participants with the same name but different birth dates.
type Pair struct {
	First, Second domain.Participant
}

// Deduplicate sorts records by surname and removes certain duplicates:
// adjacent records with the same sorting name and birth date. The record
// carrying an email wins; otherwise policy decides. Same-name records with
// different birth dates are kept and reported as uncertain.
func Deduplicate(records []domain.Participant, policy Policy) (kept []domain.Participant, uncertain []Pair, dropped []domain.Participant) {
	sorted := append([]domain.Participant(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return surnameKey(sorted[i].SortingName) < surnameKey(sorted[j].SortingName)
	})

	skip := make(map[int]bool)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.SortingName != cur.SortingName {
			continue
		}
		if prev.BirthDate != cur.BirthDate {
			uncertain = append(uncertain, Pair{First: prev, Second: cur})
			continue
		}
		switch {
		case prev.HasEmail() && !cur.HasEmail():
			skip[i] = true
		case cur.HasEmail() && !prev.HasEmail():
			skip[i-1] = true
		case policy == DropLater:
			skip[i] = true
		default:
			skip[i-1] = true
		}
	}

	kept = make([]domain.Participant, 0, len(sorted)-len(skip))
	for i, p := range sorted {
		if skip[i] {
			dropped = append(dropped, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, uncertain, dropped
}

func surnameKey(sortingName string) string {
	parts := strings.Split(sortingName, " ")
	return parts[len(parts)-1]
}
