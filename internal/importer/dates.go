/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var dateSeparators = regexp.MustCompile(`[\\.,_\s/-]+`)

var polishLetters = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
	"Ą", "A", "Ć", "C", "Ę", "E", "Ł", "L", "Ń", "N", "Ó", "O", "Ś", "S", "Ź", "Z", "Ż", "Z",
)

// Month names without diacritics, nominative and genitive.
var monthNames = map[string]int{
	"styczen": 1, "stycznia": 1,
	"luty": 2, "lutego": 2,
	"marzec": 3, "marca": 3,
	"kwiecien": 4, "kwietnia": 4,
	"maj": 5, "maja": 5,
	"czerwiec": 6, "czerwca": 6,
	"lipiec": 7, "lipca": 7,
	"sierpien": 8, "sierpnia": 8,
	"wrzesien": 9, "wrzesnia": 9,
	"pazdziernik": 10, "pazdziernika": 10,
	"listopad": 11, "listopada": 11,
	"grudzien": 12, "grudnia": 12,
}

// NormalizeDate rewrites a hand-typed date as "DD.MM.YYYY r.".
// Input that cannot be parsed, or whose parts are out of range, is returned unchanged.
func NormalizeDate(raw string) string {
	return normalizeDate(raw, time.Now().Year())
}

func normalizeDate(raw string, currentYear int) string {
	if len(raw) < 6 {
		return raw
	}
	var parts []string
	for _, p := range dateSeparators.Split(raw, -1) {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 3 {
		return raw
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return raw
	}
	month, ok := monthNames[strings.ToLower(polishLetters.Replace(parts[1]))]
	if !ok {
		if month, err = strconv.Atoi(parts[1]); err != nil {
			return raw
		}
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return raw
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return raw
	}
	if year <= 1900 || year >= currentYear+2 {
		return raw
	}
	return fmt.Sprintf("%02d.%02d.%d r.", day, month, year)
}
