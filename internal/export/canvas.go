/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"trainingdocs/internal/table"
	"trainingdocs/internal/textlayout"
)

// CoreFont is used when no TrueType font could be registered. Text is then
// translated to cp1252, so characters outside it are lost.
const CoreFont = "Helvetica"

// CanvasOptions configures a new Canvas.
type CanvasOptions struct {
	Title  string
	Author string
	// FontName registers FontData (or the file at FontPath) under this family.
	FontName string
	FontData []byte
	FontPath string
	// Fonts measures text for layout; a library holding FontName is reused,
	// otherwise FontData is parsed into a private one.
	Fonts  *textlayout.FontLibrary
	Logger *slog.Logger
}

// Canvas is an A4 PDF page stack drawn with bottom-left origin coordinates in points.
// It carries a single text font; the family passed to SetFont and StringWidth is
// ignored.
type Canvas struct {
	pdf  *gofpdf.Fpdf
	w, h float64
	font string
	size float64
	tr   func(string) string
	// measure is set when a TrueType font is in use; core fonts use gofpdf metrics.
	measure textlayout.Measurer
	log     *slog.Logger
}

var _ table.Surface = (*Canvas)(nil)

// NewCanvas creates a document with one empty page.
func NewCanvas(opt CanvasOptions) *Canvas {
	lg := opt.Logger
	if lg == nil {
		lg = slog.Default()
	}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: table.A4Width, Ht: table.A4Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
	}
	if opt.Author != "" {
		pdf.SetAuthor(opt.Author, true)
	}
	pdf.SetCreator("trainingdocs", false)

	c := &Canvas{pdf: pdf, w: table.A4Width, h: table.A4Height, size: table.DefaultFontSize, log: lg}
	c.registerFont(opt)
	pdf.AddPage()
	pdf.SetLineWidth(1)
	pdf.SetFont(c.font, "", c.size)
	return c
}

func (c *Canvas) registerFont(opt CanvasOptions) {
	c.font, c.tr = CoreFont, c.pdf.UnicodeTranslatorFromDescriptor("")
	if opt.FontName == "" {
		return
	}
	data := opt.FontData
	if data == nil {
		if opt.FontPath == "" {
			c.log.Warn("no font file configured, using core font", slog.String("fallback", CoreFont))
			return
		}
		b, err := os.ReadFile(opt.FontPath)
		if err != nil {
			c.log.Error("font file not found, using core font", slog.String("path", opt.FontPath), slog.String("fallback", CoreFont), slog.Any("err", err))
			return
		}
		data = b
	}
	c.pdf.AddUTF8FontFromBytes(opt.FontName, "", data)
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		c.log.Error("register font failed, using core font", slog.String("font", opt.FontName), slog.Any("err", err))
		return
	}
	c.font, c.tr = opt.FontName, func(s string) string { return s }

	lib := opt.Fonts
	if !lib.Has(opt.FontName) {
		lib = textlayout.NewFontLibrary()
		if err := lib.Add(opt.FontName, data); err != nil {
			c.log.Warn("font not parsed for layout, using pdf metrics", slog.String("font", opt.FontName), slog.Any("err", err))
			return
		}
	}
	c.measure = textlayout.FaceMeasurer{Provider: textlayout.OTProvider{Lib: lib}}
}

// FontName returns the family actually used for text.
func (c *Canvas) FontName() string { return c.font }

func (c *Canvas) PageSize() (float64, float64) { return c.w, c.h }

func (c *Canvas) SetFont(_ string, size float64) {
	if size <= 0 {
		size = table.DefaultFontSize
	}
	c.size = size
	c.pdf.SetFont(c.font, "", size)
}

func (c *Canvas) StringWidth(text, _ string, size float64) float64 {
	if c.measure != nil {
		return c.measure.StringWidth(text, c.font, size)
	}
	if size != c.size {
		c.pdf.SetFontSize(size)
		defer c.pdf.SetFontSize(c.size)
	}
	return c.pdf.GetStringWidth(c.tr(text))
}

func (c *Canvas) SetStrokeColor(col table.Color) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
}

// SetFillColor sets the color of filled shapes and text.
func (c *Canvas) SetFillColor(col table.Color) {
	c.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetTextColor(int(col.R), int(col.G), int(col.B))
}

func (c *Canvas) Rect(x, y, w, h float64, stroke, fill bool) {
	style := ""
	switch {
	case stroke && fill:
		style = "FD"
	case fill:
		style = "F"
	case stroke:
		style = "D"
	default:
		return
	}
	c.pdf.Rect(x, c.h-(y+h), w, h, style)
}

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.pdf.Line(x1, c.h-y1, x2, c.h-y2)
}

func (c *Canvas) DrawString(x, y float64, s string) {
	c.pdf.Text(x, c.h-y, c.tr(s))
}

func (c *Canvas) DrawCentredString(cx, y float64, s string) {
	c.pdf.Text(cx-c.StringWidth(s, "", c.size)/2, c.h-y, c.tr(s))
}

// Image places the picture at path with its lower-left corner at (x, y),
// scaled to w × h. A missing or unreadable file leaves the page unchanged.
func (c *Canvas) Image(path string, x, y, w, h float64) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("image %s: %w", path, err)
	}
	c.pdf.ImageOptions(path, x, c.h-(y+h), w, h, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return fmt.Errorf("image %s: %w", path, err)
	}
	return nil
}

func (c *Canvas) ShowPage() {
	c.pdf.AddPage()
	c.pdf.SetFont(c.font, "", c.size)
}

// PageCount returns the number of pages started so far.
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

// Output writes the finished document to w.
func (c *Canvas) Output(w io.Writer) error {
	if err := c.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Save writes the document to path, creating parent directories.
func (c *Canvas) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := c.pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
