/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package importer

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ColumnKind classifies a survey question.
type ColumnKind int

const (
	KindFrequency ColumnKind = iota
	KindRating
	KindRemarks
	KindRecommend
	KindInterests
)

// Question headers of the evaluation form.
const (
	TimestampHeader = "Sygnatura czasowa"
	RatingMarker    = "(1 - najniższa ocena, 5 najwyższa ocena)"
	RemarksHeader   = "Dodatkowe uwagi dla trenera/ edukatora lub placówki"
	RecommendHeader = "Czy polecił/a by Pan/Pani kurs innym?"
	InterestsHeader = "Jakie inne szkolenia byłyby interesujące dla Pana/ Pani w przyszłości - można zaznaczyć kilka odpowiedzi:"

	OtherInterest = "inne"
	NoRatingData  = "N/A (No valid numeric data)"
)

// RecommendAnswers are counted in this order.
var RecommendAnswers = []string{"Tak", "Nie wiem", "Nie"}

// InterestOptions are the fixed choices of the interests question.
var InterestOptions = []string{
	"Wsparcie dziecka o SPE: spektrum autyzmu, afazja, niepełnosprawność intelektualna",
	"Wsparcie dziecka o SPE: dysleksja, dysgrafia, dysortografia, dyskalkulia",
	"Wsparcie dziecka z problemami emocjonalnymi: depresja, zaburzenia lękowe, doświadczenia postraumatyczne, uzależnienia od urządzeń ekranowych",
	"Wsparcie dziecka z trudnościami w zachowaniu: bunt, agresja, przemoc rówieśnicza",
	"Zagrożenia dla rozwoju współczesnego dziecka/ nastolatka: używki, uzależnienia behawioralne",
	"Wspomaganie pamięci i koncentracji uczniów",
	"TIK w pracy nauczyciela",
	"Bezpieczeństwo w sieci uczniów i nauczycieli",
	"Prawo oświatowe",
	"Stres w pracy, wzmacnianie odporności psychicznej i dobrostanu nauczycieli",
	"Praca z klasą zróżnicowaną kulturowo (uczeń z zagranicy z zespole klasowym)",
	"Praca z klasą zróżnicowaną edukacyjnie",
	`Praca z klasą "trudną" (konflikty, kłopoty z dyscypliną, brak aktywności, słaba motywacja)`,
	"Ciekawe lekcje wychowawcze",
	`Współpraca z rodzicami (w tym z "wymagającym" rodzicem)`,
}

// Count is one labelled tally.
type Count struct {
	Label string
	N     int
}

// Column is the summary of one question.
type Column struct {
	Header  string
	Kind    ColumnKind
	Average float64
	Rated   bool // Average is meaningful
	Remarks []string
	Counts  []Count
}

// Survey is the summary of an evaluation export.
type Survey struct {
	Source    string
	Responses int
	Columns   []Column
}

// SummarizeSurvey reads the one-sheet evaluation export at path.
func SummarizeSurvey(path string) (Survey, error) {
	rows, err := readSheet(path)
	if err != nil {
		return Survey{}, err
	}
	s := Survey{Source: path}
	if len(rows) == 0 {
		return s, nil
	}
	for _, row := range rows[1:] {
		if lo.SomeBy(row, func(v string) bool { return strings.TrimSpace(v) != "" }) {
			s.Responses++
		}
	}
	for c, header := range rows[0] {
		header = strings.TrimSpace(header)
		if header == "" || header == TimestampHeader {
			continue
		}
		var values []string
		for _, row := range rows[1:] {
			if v := cell(row, c); strings.TrimSpace(v) != "" {
				values = append(values, v)
			}
		}
		s.Columns = append(s.Columns, summarizeColumn(header, values))
	}
	return s, nil
}

func classify(header string) ColumnKind {
	h := collapseSpaces(header)
	switch {
	case strings.Contains(h, RatingMarker):
		return KindRating
	case h == RemarksHeader:
		return KindRemarks
	case h == RecommendHeader:
		return KindRecommend
	case h == InterestsHeader:
		return KindInterests
	}
	return KindFrequency
}

func summarizeColumn(header string, values []string) Column {
	col := Column{Header: header, Kind: classify(header)}
	switch col.Kind {
	case KindRating:
		nums := lo.FilterMap(values, func(v string, _ int) (float64, bool) {
			f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(v), ",", "."), 64)
			return f, err == nil
		})
		if len(nums) > 0 {
			col.Average = lo.Sum(nums) / float64(len(nums))
			col.Rated = true
		}
	case KindRemarks:
		col.Remarks = lo.Map(values, func(v string, _ int) string {
			return strings.ReplaceAll(v, "\n", "")
		})
	case KindRecommend:
		for _, answer := range RecommendAnswers {
			col.Counts = append(col.Counts, Count{Label: answer, N: lo.Count(values, answer)})
		}
	case KindInterests:
		counts := make([]int, len(InterestOptions))
		other := 0
		for _, v := range values {
			found := false
			for i, opt := range InterestOptions {
				if strings.Contains(v, opt) {
					counts[i]++
					found = true
				}
			}
			if !found {
				other++
			}
		}
		for i, opt := range InterestOptions {
			col.Counts = append(col.Counts, Count{Label: opt, N: counts[i]})
		}
		col.Counts = append(col.Counts, Count{Label: OtherInterest, N: other})
	default:
		index := map[string]int{}
		for _, v := range values {
			if i, ok := index[v]; ok {
				col.Counts[i].N++
				continue
			}
			index[v] = len(col.Counts)
			col.Counts = append(col.Counts, Count{Label: v, N: 1})
		}
	}
	return col
}

// Value renders the average of a rating column.
func (c Column) Value() string {
	if !c.Rated {
		return NoRatingData
	}
	return strconv.FormatFloat(c.Average, 'f', -1, 64)
}

// Lines renders the column body as printed under its header.
func (c Column) Lines() []string {
	switch c.Kind {
	case KindRating:
		return []string{c.Value()}
	case KindRemarks:
		return c.Remarks
	}
	out := make([]string, 0, 2*len(c.Counts))
	for _, n := range c.Counts {
		out = append(out, n.Label, strconv.Itoa(n.N))
	}
	return out
}

// WriteText writes the plain-text report: each header, its body, then a rule.
func (s Survey) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, c := range s.Columns {
		fmt.Fprintln(bw, c.Header)
		for _, line := range c.Lines() {
			fmt.Fprintln(bw, line)
		}
		fmt.Fprintln(bw, strings.Repeat("-", 20))
	}
	return bw.Flush()
}

func collapseSpaces(s string) string { return strings.Join(strings.Fields(s), " ") }
