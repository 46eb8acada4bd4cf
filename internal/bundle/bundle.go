/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package bundle packs a training folder's data file and generated documents
// into one zip for hand-over or archiving.
package bundle

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"trainingdocs/internal/domain"
	"trainingdocs/internal/export"
	applog "trainingdocs/internal/log"
	"trainingdocs/internal/storage"
)

const ManifestName = "manifest.json"

// Manifest describes a bundle. Files lists archive names in the order written.
type Manifest struct {
	TrainingNumber string    `json:"numer_szkolenia"`
	TrainingName   string    `json:"nazwa_szkolenia"`
	Participants   int       `json:"participants"`
	Files          []string  `json:"files"`
	Created        time.Time `json:"created"`
}

// Export writes root's data file, logbook and certificates to zipPath.
// Generated files that do not exist are skipped; the data file is required.
func Export(root, zipPath string) (Manifest, error) {
	l := applog.WithOperation(applog.WithComponent("bundle"), "export").With(slog.String("training", root))
	if strings.TrimSpace(root) == "" {
		return Manifest{}, errors.New("training root is required")
	}
	if strings.TrimSpace(zipPath) == "" {
		return Manifest{}, errors.New("zip path is required")
	}
	proj, err := storage.LoadFile(filepath.Join(root, storage.DataFileName))
	if err != nil {
		return Manifest{}, err
	}

	files := []string{storage.DataFileName}
	if _, err := os.Stat(filepath.Join(root, export.LogbookFileName)); err == nil {
		files = append(files, export.LogbookFileName)
	}
	certs, err := filepath.Glob(filepath.Join(root, export.CertificatesDirName, "*.pdf"))
	if err != nil {
		return Manifest{}, err
	}
	sort.Strings(certs)
	for _, c := range certs {
		files = append(files, export.CertificatesDirName+"/"+filepath.Base(c))
	}

	m := Manifest{
		TrainingNumber: proj.Training.Get(domain.KeyNumber),
		TrainingName:   proj.Training.Get(domain.KeyName),
		Participants:   len(proj.Participants),
		Files:          files,
		Created:        time.Now().UTC().Truncate(time.Second),
	}

	if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil {
		return m, fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(zipPath)
	zf, err := os.Create(zipPath)
	if err != nil {
		return m, fmt.Errorf("create zip: %w", err)
	}
	zw := zip.NewWriter(zf)
	if err := writeBundle(zw, root, m); err != nil {
		_ = zw.Close()
		_ = zf.Close()
		l.Error("zip build failed", slog.Any("err", err))
		return m, fmt.Errorf("build zip: %w", err)
	}
	if err := zw.Close(); err != nil {
		_ = zf.Close()
		return m, fmt.Errorf("finish zip: %w", err)
	}
	if err := zf.Close(); err != nil {
		return m, fmt.Errorf("close zip: %w", err)
	}
	l.Info("bundle exported", slog.Int("files", len(files)), slog.String("zip", zipPath))
	return m, nil
}

func writeBundle(zw *zip.Writer, root string, m Manifest) error {
	w, err := zw.Create(ManifestName)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return err
	}
	for _, name := range m.Files {
		if err := addFile(zw, filepath.Join(root, filepath.FromSlash(name)), name); err != nil {
			return err
		}
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, f)
	return err
}

// ReadManifest returns the manifest stored in a bundle.
func ReadManifest(zipPath string) (Manifest, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return Manifest{}, fmt.Errorf("open bundle: %w", err)
	}
	defer func() { _ = r.Close() }()
	for _, f := range r.File {
		if f.Name != ManifestName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Manifest{}, err
		}
		defer func() { _ = rc.Close() }()
		var m Manifest
		if err := json.NewDecoder(rc).Decode(&m); err != nil {
			return Manifest{}, fmt.Errorf("parse manifest: %w", err)
		}
		return m, nil
	}
	return Manifest{}, errors.New("bundle has no manifest")
}
