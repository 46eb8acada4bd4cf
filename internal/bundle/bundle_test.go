/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package bundle

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingdocs/internal/domain"
	"trainingdocs/internal/export"
	"trainingdocs/internal/storage"
)

func trainingFolder(t *testing.T) *storage.ProjectHandle {
	t.Helper()
	ph, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	ph.Live = domain.NewProject()
	ph.Live.Training[domain.KeyNumber] = "3/2025"
	ph.Live.Training[domain.KeyName] = "Prawo oświatowe"
	ph.Live.Participants = []domain.Participant{{FullName: "Jan Kowalski"}, {FullName: "Ewa Nowak"}}
	require.NoError(t, storage.Save(ph))
	return ph
}

func TestExportWithGeneratedDocuments(t *testing.T) {
	ph := trainingFolder(t)
	root := ph.Root
	require.NoError(t, os.WriteFile(filepath.Join(root, export.LogbookFileName), []byte("%PDF-logbook"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, export.CertificatesDirName), 0o755))
	for i := 1; i >= 0; i-- {
		require.NoError(t, os.WriteFile(filepath.Join(root, export.CertificatesDirName, export.CertificateFileName(i)), []byte("%PDF"), 0o644))
	}

	zipPath := filepath.Join(t.TempDir(), "out", "paczka.zip")
	m, err := Export(root, zipPath)
	require.NoError(t, err)
	assert.Equal(t, []string{
		storage.DataFileName,
		export.LogbookFileName,
		"certyfikaty/certyfikat_1.pdf",
		"certyfikaty/certyfikat_2.pdf",
	}, m.Files)
	assert.Equal(t, 2, m.Participants)

	r, err := zip.OpenReader(zipPath)
	require.NoError(t, err)
	defer r.Close()
	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, append([]string{ManifestName}, m.Files...), names)

	got, err := ReadManifest(zipPath)
	require.NoError(t, err)
	assert.Equal(t, "3/2025", got.TrainingNumber)
	assert.Equal(t, "Prawo oświatowe", got.TrainingName)
	assert.True(t, got.Created.Equal(m.Created))
}

func TestExportSkipsMissingDocuments(t *testing.T) {
	ph := trainingFolder(t)
	m, err := Export(ph.Root, filepath.Join(t.TempDir(), "b.zip"))
	require.NoError(t, err)
	assert.Equal(t, []string{storage.DataFileName}, m.Files)
}

func TestExportRequiresDataFile(t *testing.T) {
	_, err := Export(t.TempDir(), filepath.Join(t.TempDir(), "b.zip"))
	assert.Error(t, err)
	_, err = Export("", "x.zip")
	assert.Error(t, err)
}

func TestReadManifestMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, zip.NewWriter(f).Close())
	require.NoError(t, f.Close())
	_, err = ReadManifest(path)
	assert.Error(t, err)
}
