/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"

	"trainingdocs/internal/config"
	"trainingdocs/internal/domain"
	"trainingdocs/internal/export"
	"trainingdocs/internal/importer"
	applog "trainingdocs/internal/log"
)

// Names of archived spreadsheets and survey outputs inside a training folder.
const (
	AttendanceArchiveBase = "lista_obecnosci"
	SurveyArchiveBase     = "ankieta_ewaluacyjna"
	SurveyTextFileName    = "ankieta_ewaluacyjna_output.txt"
	SurveyPDFFileName     = "ankieta_ewaluacyjna.pdf"
)

// archive copies src into the archive folder as base plus src's extension.
func archive(ph *ProjectHandle, src, base string) (string, error) {
	dst := filepath.Join(ph.Root, ArchiveDirName, base+strings.ToLower(filepath.Ext(src)))
	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("archive %s: %w", src, err)
	}
	return dst, nil
}

// ImportAttendance archives the attendance spreadsheet, imports it into a
// fresh data file with an empty training block and reloads the handle.
// Unsaved edits are lost; the snapshot is left alone so the new record shows as dirty.
func ImportAttendance(ctx context.Context, ph *ProjectHandle, src string, opts importer.Options) (importer.Result, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "import_attendance")
	ctx = applog.WithTraining(ctx, ph.Root)

	archived, err := archive(ph, src, AttendanceArchiveBase)
	if err != nil {
		return importer.Result{}, err
	}
	res, err := importer.Import(archived, opts)
	if err != nil {
		return importer.Result{}, err
	}
	proj := domain.Project{Training: domain.NewTraining(), Participants: res.Participants}
	data, err := marshalProject(proj)
	if err != nil {
		return res, err
	}
	if err := writeAtomic(ph.DataPath, data); err != nil {
		return res, fmt.Errorf("write data file: %w", err)
	}
	ph.Reload()

	recordImport(ctx, ph.Root, ImportRecord{
		Kind:       ImportAttendanceKind,
		Source:     src,
		Archived:   archived,
		Rows:       len(res.Participants) + len(res.Dropped),
		Dropped:    len(res.Dropped),
		Uncertain:  len(res.Uncertain),
		ImportedAt: time.Now(),
	})
	l.InfoContext(ctx, "attendance imported", slog.Int("participants", len(res.Participants)), slog.Int("uncertain", len(res.Uncertain)))
	return res, nil
}

// ImportSurvey archives the evaluation spreadsheet and writes its text and PDF summaries.
func ImportSurvey(ctx context.Context, ph *ProjectHandle, src string, c *export.Composer) (importer.Survey, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "import_survey")
	ctx = applog.WithTraining(ctx, ph.Root)

	archived, err := archive(ph, src, SurveyArchiveBase)
	if err != nil {
		return importer.Survey{}, err
	}
	s, err := importer.SummarizeSurvey(archived)
	if err != nil {
		return importer.Survey{}, err
	}

	txt := filepath.Join(ph.Root, SurveyTextFileName)
	f, err := os.Create(txt)
	if err != nil {
		return s, fmt.Errorf("create survey summary: %w", err)
	}
	werr := s.WriteText(f)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return s, fmt.Errorf("write survey summary: %w", werr)
	}

	if c == nil {
		c = export.NewComposer(config.Defaults())
	}
	if err := c.SurveyPDF(s, filepath.Join(ph.Root, SurveyPDFFileName)); err != nil {
		return s, err
	}

	recordImport(ctx, ph.Root, ImportRecord{
		Kind: ImportSurveyKind, Source: src, Archived: archived, Rows: s.Responses, ImportedAt: time.Now(),
	})
	l.InfoContext(ctx, "survey summarized", slog.Int("responses", s.Responses), slog.Int("questions", len(s.Columns)))
	return s, nil
}

// GenerationOptions controls RunGeneration.
type GenerationOptions struct {
	export.GenerateOptions
	// Composer renders the documents; nil uses the default configuration.
	Composer *export.Composer
	// OutDir overrides the training folder as output root.
	OutDir string
	// Save persists the assigned serials and issuance stamps.
	Save bool
}

// RunGeneration renders the selected documents from Live and records every
// written certificate in the register. Register failures are logged only.
func RunGeneration(ctx context.Context, ph *ProjectHandle, opts GenerationOptions) (export.Result, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "generate")
	ctx = applog.WithTraining(ctx, ph.Root)

	c := opts.Composer
	if c == nil {
		c = export.NewComposer(config.Defaults())
	}
	out := opts.OutDir
	if out == "" {
		out = ph.Root
	}
	res, err := c.Generate(ctx, &ph.Live, out, opts.GenerateOptions)
	if err != nil {
		return res, err
	}

	number := ph.Live.Training.Get(domain.KeyNumber)
	items := lo.Map(res.Certificates, func(is export.Issued, _ int) Issuance {
		return Issuance{Serial: is.Serial, Participant: is.Name, TrainingNumber: number, Path: is.Path, IssuedAt: is.IssuedAt}
	})
	if len(items) > 0 {
		if db, err := OpenRegister(ph.Root); err != nil {
			l.WarnContext(ctx, "register unavailable", slog.Any("err", err))
		} else {
			if err := RecordIssuances(ctx, db, items); err != nil {
				l.WarnContext(ctx, "record issuances failed", slog.Any("err", err))
			}
			_ = db.Close()
		}
	}

	if opts.Save {
		if err := Save(ph); err != nil {
			return res, err
		}
	}
	return res, nil
}

func recordImport(ctx context.Context, root string, rec ImportRecord) {
	l := applog.WithComponent("storage")
	db, err := OpenRegister(root)
	if err != nil {
		l.WarnContext(ctx, "register unavailable", slog.Any("err", err))
		return
	}
	defer db.Close()
	if err := RecordImport(ctx, db, rec); err != nil {
		l.WarnContext(ctx, "record import failed", slog.Any("err", err))
	}
}
