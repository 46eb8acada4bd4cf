/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"trainingdocs/internal/config"
	applog "trainingdocs/internal/log"
	"trainingdocs/internal/table"
	"trainingdocs/internal/textlayout"
)

// Assets are the files placed on generated documents. Missing images are skipped.
type Assets struct {
	FontName string
	FontPath string
	Logo     string
	Stamp    string
}

// Composer renders logbooks and certificates for a training.
type Composer struct {
	Assets Assets
	Org    config.OrganizationConfig
	// Now stamps issuance times; defaults to time.Now.
	Now func() time.Time

	log      *slog.Logger
	fontOnce sync.Once
	fontData []byte
	fonts    *textlayout.FontLibrary
}

// NewComposer builds a Composer from application configuration.
func NewComposer(cfg config.AppConfig) *Composer {
	return &Composer{
		Assets: Assets{
			FontName: cfg.Assets.FontName,
			FontPath: cfg.Assets.FontPath(),
			Logo:     cfg.Assets.LogoPath(),
			Stamp:    cfg.Assets.StampPath(),
		},
		Org: cfg.Organization,
	}
}

func (c *Composer) logger() *slog.Logger {
	if c.log == nil {
		c.log = applog.WithComponent("export")
	}
	return c.log
}

func (c *Composer) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Composer) org() config.OrganizationConfig {
	def := config.DefaultOrganization()
	o := c.Org
	if o.Institution == "" {
		o.Institution = def.Institution
	}
	if len(o.OrganizerLines) == 0 {
		o.OrganizerLines = def.OrganizerLines
	}
	if o.Supervisor == "" {
		o.Supervisor = def.Supervisor
	}
	if o.City == "" {
		o.City = def.City
	}
	return o
}

// font reads the configured font once per composer so batches do not reread it.
func (c *Composer) font() []byte {
	c.fontOnce.Do(func() {
		if c.Assets.FontPath == "" {
			return
		}
		b, err := os.ReadFile(c.Assets.FontPath)
		if err != nil {
			c.logger().Error("font file not found, using core font",
				slog.String("path", c.Assets.FontPath), slog.String("fallback", CoreFont), slog.Any("err", err))
			return
		}
		c.fontData = b
		lib := textlayout.NewFontLibrary()
		if err := lib.Add(c.Assets.FontName, b); err != nil {
			c.logger().Warn("font not parsed for layout", slog.String("path", c.Assets.FontPath), slog.Any("err", err))
			return
		}
		c.fonts = lib
	})
	return c.fontData
}

func (c *Composer) newCanvas(title string) *Canvas {
	opt := CanvasOptions{Title: title, Author: c.org().Institution, Logger: c.logger()}
	if data := c.font(); data != nil {
		opt.FontName, opt.FontData, opt.Fonts = c.Assets.FontName, data, c.fonts
	}
	return NewCanvas(opt)
}

func (c *Composer) image(cv *Canvas, path string, x, y, w, h float64) {
	if path == "" {
		return
	}
	if err := cv.Image(path, x, y, w, h); err != nil {
		c.logger().Warn("image skipped", slog.String("path", path), slog.Any("err", err))
	}
}

func drawTable(cv *Canvas, req table.Request, x, y float64) (float64, error) {
	req.Font = cv.FontName()
	return table.Draw(cv, req, x, y)
}

var noMargins = &table.Margins{}

const cm = table.CM
