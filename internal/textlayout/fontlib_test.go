/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"math"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestOTProviderMeasuresLoadedFont(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.Add("Go", goregular.TTF); err != nil {
		t.Fatalf("add font: %v", err)
	}
	if !lib.Has("Go") || lib.Has("Other") {
		t.Fatalf("Has mismatch")
	}
	m := FaceMeasurer{Provider: OTProvider{Lib: lib}}

	w10 := m.StringWidth("Dziennik zajęć", "Go", 10)
	w20 := m.StringWidth("Dziennik zajęć", "Go", 20)
	if w10 <= 0 {
		t.Fatalf("expected positive width, got %v", w10)
	}
	if math.Abs(w20/w10-2) > 0.02 {
		t.Fatalf("width should scale with size: %v vs %v", w10, w20)
	}
	if w := m.StringWidth("iiii", "Go", 10); w >= m.StringWidth("WWWW", "Go", 10) {
		t.Fatalf("proportional font expected, got %v", w)
	}
}

func TestOTProviderFallsBackForUnknownFamily(t *testing.T) {
	m := FaceMeasurer{Provider: OTProvider{Lib: NewFontLibrary()}}
	if got := m.StringWidth("abc", "Missing", 13); got != 21 {
		t.Fatalf("fallback width = %v, want 21", got)
	}
}

func TestLoadTTFMissingFile(t *testing.T) {
	lib := NewFontLibrary()
	if err := lib.LoadTTF("X", filepath.Join(t.TempDir(), "nope.ttf")); err == nil {
		t.Fatalf("expected error for missing font file")
	}
}
