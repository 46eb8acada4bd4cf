/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout measures strings and breaks them into lines that fit a width.
// All widths are in PDF points.
package textlayout

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string
	SizePt float64
}

// Metrics describes a resolved face. SizePt is the size the face was built for;
// measurements taken with the face scale linearly from it.
type Metrics struct {
	Ascent, Descent, LineGap float64
	SizePt                   float64
}

// Provider maps a FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Measurer returns the rendered width of text for a font family and size.
type Measurer interface {
	StringWidth(text, family string, size float64) float64
}

// BasicProvider uses x/image/basicfont Face7x13. It ignores the family.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
		SizePt:  13,
	}
}

// FaceMeasurer measures through a Provider.
type FaceMeasurer struct{ Provider Provider }

func (m FaceMeasurer) StringWidth(text, family string, size float64) float64 {
	p := m.Provider
	if p == nil {
		p = BasicProvider{}
	}
	face, met := p.Resolve(FontSpec{Family: family, SizePt: size})
	w := fixedToFloat(font.MeasureString(face, text))
	if met.SizePt > 0 && size > 0 && met.SizePt != size {
		w *= size / met.SizePt
	}
	return w
}

// MonoMeasurer treats every rune as Advance em wide.
type MonoMeasurer struct{ Advance float64 }

func (m MonoMeasurer) StringWidth(text, _ string, size float64) float64 {
	adv := m.Advance
	if adv == 0 {
		adv = 0.5
	}
	return float64(utf8.RuneCountInString(text)) * size * adv
}

// lineBreak marks a hard break between paragraphs in the token stream.
const lineBreak = "\n"

// Wrap breaks text into lines no wider than maxWidth. Words are separated by
// single spaces and packed greedily; a word wider than maxWidth gets a line of its
// own. Hard "\n" breaks always start a new line. The result is never empty.
func Wrap(text string, maxWidth float64, family string, size float64, m Measurer) []string {
	if text == "" {
		return []string{""}
	}

	var tokens []string
	for i, para := range strings.Split(text, "\n") {
		if i > 0 {
			tokens = append(tokens, lineBreak)
		}
		tokens = append(tokens, strings.Split(para, " ")...)
	}

	var lines, current []string
	for _, tok := range tokens {
		if tok == lineBreak {
			lines = append(lines, strings.Join(current, " "))
			current = current[:0]
			continue
		}
		candidate := strings.Join(append(current, tok), " ")
		if len(current) > 0 && m.StringWidth(candidate, family, size) > maxWidth {
			lines = append(lines, strings.Join(current, " "))
			current = []string{tok}
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		lines = append(lines, strings.Join(current, " "))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
