/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontLibrary stores parsed TrueType/OpenType fonts by family name.
type FontLibrary struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
	faces map[faceKey]font.Face
}

type faceKey struct {
	family string
	size   float64
}

func NewFontLibrary() *FontLibrary {
	return &FontLibrary{fonts: make(map[string]*opentype.Font), faces: make(map[faceKey]font.Face)}
}

// LoadTTF reads and registers a font file under family.
func (fl *FontLibrary) LoadTTF(family, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return fl.Add(family, data)
}

// Add registers raw font bytes under family.
func (fl *FontLibrary) Add(family string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", family, err)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.fonts == nil {
		fl.fonts = make(map[string]*opentype.Font)
		fl.faces = make(map[faceKey]font.Face)
	}
	fl.fonts[family] = f
	for k := range fl.faces {
		if k.family == family {
			delete(fl.faces, k)
		}
	}
	return nil
}

// Has reports whether family was registered.
func (fl *FontLibrary) Has(family string) bool {
	if fl == nil {
		return false
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	_, ok := fl.fonts[family]
	return ok
}

// face returns a cached face for family at size, creating it on first use.
func (fl *FontLibrary) face(family string, size, dpi float64) (font.Face, error) {
	if fl == nil {
		return nil, fmt.Errorf("font %q not loaded", family)
	}
	fl.mu.Lock()
	defer fl.mu.Unlock()
	key := faceKey{family: family, size: size}
	if f, ok := fl.faces[key]; ok {
		return f, nil
	}
	otf, ok := fl.fonts[family]
	if !ok {
		return nil, fmt.Errorf("font %q not loaded", family)
	}
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	fl.faces[key] = f
	return f, nil
}

// OTProvider resolves FontSpec through a FontLibrary and falls back to another Provider.
// At the default 72 DPI one pixel equals one point.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if spec.SizePt <= 0 {
		spec.SizePt = 12
	}
	dpi := p.DPI
	if dpi <= 0 {
		dpi = 72
	}
	if face, err := p.Lib.face(spec.Family, spec.SizePt, dpi); err == nil {
		m := face.Metrics()
		return face, Metrics{
			Ascent:  fixedToFloat(m.Ascent),
			Descent: fixedToFloat(m.Descent),
			LineGap: fixedToFloat(m.Height - m.Ascent - m.Descent),
			SizePt:  spec.SizePt * dpi / 72,
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = BasicProvider{}
	}
	return fb.Resolve(spec)
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
