/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/samber/lo"

	"trainingdocs/internal/domain"
	applog "trainingdocs/internal/log"
)

// Output layout of a training folder.
const (
	CertificatesDirName  = "certyfikaty"
	LogbookFileName      = "dziennik.pdf"
	MergedCertificatesFN = "certyfikaty.pdf"
)

// CertificateFileName is the file for the participant at zero-based index i.
func CertificateFileName(i int) string { return "certyfikat_" + strconv.Itoa(i+1) + ".pdf" }

// SerialFor is the certificate number of the participant at zero-based index i.
func SerialFor(tr domain.Training, i int) string {
	return tr.Get(domain.KeyNumber) + "/" + strconv.Itoa(i+1)
}

// Selection picks the documents to produce.
type Selection struct {
	Logbook      bool
	Certificates bool
}

// All selects every document.
var All = Selection{Logbook: true, Certificates: true}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return !s.Logbook && !s.Certificates }

// GenerateOptions controls Generate.
type GenerateOptions struct {
	Selection Selection
	// MergeCertificates also writes every certificate into one combined PDF.
	MergeCertificates bool
}

// Issued describes one written certificate.
type Issued struct {
	Index    int
	Serial   string
	Name     string
	Path     string
	IssuedAt time.Time
}

// Result lists the files Generate wrote.
type Result struct {
	Certificates []Issued
	Logbook      string
	Merged       string
}

// Generate writes the selected documents under outDir. Every participant's
// serial id is assigned before anything is drawn; participants whose
// certificate is written are stamped with the issuance time. Both changes are
// made on proj and are not persisted here.
func (c *Composer) Generate(ctx context.Context, proj *domain.Project, outDir string, opts GenerateOptions) (Result, error) {
	lg := applog.WithOperation(c.logger(), "generate")
	var res Result
	if proj == nil {
		return res, errors.New("project is nil")
	}
	if proj.Training == nil {
		proj.Training = domain.Training{}
	}
	sel := opts.Selection
	if sel.Empty() {
		sel = All
	}

	certDir := filepath.Join(outDir, CertificatesDirName)
	if err := os.MkdirAll(certDir, 0o755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	AssignSerials(proj)

	if sel.Certificates {
		for i := range proj.Participants {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			p := &proj.Participants[i]
			path := filepath.Join(certDir, CertificateFileName(i))
			if err := c.Certificate(proj.Training, *p, path); err != nil {
				return res, fmt.Errorf("certificate %d: %w", i+1, err)
			}
			at := c.now()
			p.Generated = domain.StrPtr(at.Format(time.RFC3339))
			res.Certificates = append(res.Certificates, Issued{Index: i, Serial: p.Serial(), Name: p.FullName, Path: path, IssuedAt: at})
			lg.InfoContext(ctx, "certificate written", slog.String("path", path), slog.String("serial", p.Serial()))
		}
		if opts.MergeCertificates && len(res.Certificates) > 0 {
			merged := filepath.Join(certDir, MergedCertificatesFN)
			if err := MergePDFs(certificatePaths(res.Certificates), merged); err != nil {
				return res, err
			}
			res.Merged = merged
			lg.InfoContext(ctx, "certificates merged", slog.String("path", merged), slog.Int("count", len(res.Certificates)))
		}
	}

	if sel.Logbook {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		path := filepath.Join(outDir, LogbookFileName)
		if err := c.Logbook(*proj, path); err != nil {
			return res, fmt.Errorf("logbook: %w", err)
		}
		res.Logbook = path
		lg.InfoContext(ctx, "logbook written", slog.String("path", path), slog.Int("participants", len(proj.Participants)))
	}
	return res, nil
}

// AssignSerials sets "{numer_szkolenia}/{n}" on every participant, n counting from 1.
func AssignSerials(proj *domain.Project) {
	for i := range proj.Participants {
		proj.Participants[i].SerialID = domain.StrPtr(SerialFor(proj.Training, i))
	}
}

func certificatePaths(issued []Issued) []string {
	return lo.Map(issued, func(is Issued, _ int) string { return is.Path })
}

// MergePDFs concatenates the given PDFs into out.
func MergePDFs(in []string, out string) error {
	if len(in) == 0 {
		return errors.New("merge: no input files")
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.MergeCreateFile(in, out, false, conf); err != nil {
		return fmt.Errorf("merge pdfs: %w", err)
	}
	return nil
}
