/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1.3.1980", "01.03.1980 r."},
		{"3 stycznia 2021", "03.01.2021 r."},
		{"32.13.2021", "32.13.2021"},
		{"01-03-1980", "01.03.1980 r."},
		{"1/3/1980", "01.03.1980 r."},
		{"1 marzec 1980", "01.03.1980 r."},
		{"1 marca 1980", "01.03.1980 r."},
		{"5 Października 1990", "05.10.1990 r."},
		{"5 pazdziernik 1990", "05.10.1990 r."},
		{"17_wrzesnia_1966", "17.09.1966 r."},
		{"1 . 3 , 1980", "01.03.1980 r."},
		{"01.03.1980 r.", "01.03.1980 r."},
		{"1.3.80", "1.3.80"},
		{"32.01.1980", "32.01.1980"},
		{"01.13.1980", "01.13.1980"},
		{"01.01.1900", "01.01.1900"},
		{"01.01.2026", "01.01.2026 r."},
		{"01.01.2027", "01.01.2027"},
		{"abc", "abc"},
		{"", ""},
		{"1.3.", "1.3."},
		{"jutro rano", "jutro rano"},
		{"1 brumaire 1980", "1 brumaire 1980"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeDate(tc.in, 2025), "input %q", tc.in)
	}
}

func TestNormalizeDateIdempotent(t *testing.T) {
	for _, in := range []string{"1.3.1980", "12 maja 1975", "garbage", "31/12/1999"} {
		once := NormalizeDate(in)
		assert.Equal(t, once, NormalizeDate(once), "input %q", in)
	}
}
