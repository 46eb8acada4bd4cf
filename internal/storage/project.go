/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trainingdocs/internal/domain"
	applog "trainingdocs/internal/log"
)

const (
	DataFileName     = "data.json"
	SnapshotFileName = "data.json.old"
	ArchiveDirName   = "archiwum"
)

// ErrNotDirectory is returned when a training folder path is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// ProjectHandle is an open training folder. Live is the record being edited,
// Saved the state last written by Save.
type ProjectHandle struct {
	Root         string
	DataPath     string
	SnapshotPath string
	Live         domain.Project
	Saved        domain.Project
}

// LoadFile strictly reads a data file.
func LoadFile(path string) (domain.Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Project{}, fmt.Errorf("read data file: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return domain.Project{}, fmt.Errorf("parse data file %s: %w", path, err)
	}
	return p, nil
}

// Open loads the training folder at root. A missing or malformed data file
// or snapshot yields an empty record and a warning.
func Open(root string) (*ProjectHandle, error) {
	fi, err := os.Stat(root)
	if err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("open %s: %w", root, ErrNotDirectory)
	}
	ph := &ProjectHandle{
		Root:         root,
		DataPath:     filepath.Join(root, DataFileName),
		SnapshotPath: filepath.Join(root, SnapshotFileName),
	}
	ph.Reload()
	return ph, nil
}

// Reload discards in-memory edits and rereads both files.
func (ph *ProjectHandle) Reload() {
	ph.Live = loadLenient(ph.DataPath)
	ph.Saved = loadLenient(ph.SnapshotPath)
}

func loadLenient(path string) domain.Project {
	p, err := LoadFile(path)
	if err != nil {
		l := applog.WithOperation(applog.WithComponent("storage"), "open")
		if errors.Is(err, os.ErrNotExist) {
			l.Warn("data file missing, using empty record", slog.String("path", path))
		} else {
			l.Warn("data file unreadable, using empty record", slog.String("path", path), slog.Any("err", err))
		}
		return domain.Project{}
	}
	return p
}

// Dirty reports whether Live differs from the last saved state.
func (ph *ProjectHandle) Dirty() bool {
	return !ph.Live.Equal(ph.Saved)
}

// Save writes Live to the data file and then to the snapshot, each transactionally.
func Save(ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if ph.DataPath == "" || ph.SnapshotPath == "" {
		return errors.New("invalid ProjectHandle: missing paths")
	}
	data, err := marshalProject(ph.Live)
	if err != nil {
		return err
	}
	if err := writeAtomic(ph.DataPath, data); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := writeAtomic(ph.SnapshotPath, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	ph.Saved = ph.Live.Clone()
	applog.WithOperation(applog.WithComponent("storage"), "save").Info("training saved",
		slog.String("path", ph.DataPath), slog.Int("participants", len(ph.Live.Participants)))
	return nil
}

// marshalProject renders the data file: four-space indent, non-ASCII kept verbatim.
func marshalProject(p domain.Project) ([]byte, error) {
	if p.Training == nil {
		p.Training = domain.Training{}
	}
	if p.Participants == nil {
		p.Participants = []domain.Participant{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("marshal data file: %w", err)
	}
	return buf.Bytes(), nil
}

// NewTrainingFolder creates parent/name with its archive subfolder.
func NewTrainingFolder(parent, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("folder name is required")
	}
	if fi, err := os.Stat(parent); err != nil || !fi.IsDir() {
		return "", fmt.Errorf("parent %s: %w", parent, ErrNotDirectory)
	}
	root := filepath.Join(parent, name)
	if _, err := os.Stat(root); err == nil {
		return "", fmt.Errorf("create training folder: %w", os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Join(root, ArchiveDirName), 0o755); err != nil {
		return "", fmt.Errorf("create training folder: %w", err)
	}
	return root, nil
}

// AutosaveCrashSnapshot writes Live next to the data file as data.json.crash-<stamp>.
// It never touches the data file itself.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil || ph.Root == "" {
		return "", errors.New("invalid ProjectHandle")
	}
	data, err := marshalProject(ph.Live)
	if err != nil {
		return "", err
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(ph.Root, fmt.Sprintf("%s.crash-%s", DataFileName, stamp))
	if err := writeAtomic(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	return path, nil
}

// writeAtomic writes to a temp file in the same directory, then renames it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		_ = os.Remove(temp)
		return err
	}
	if err := os.Rename(temp, path); err != nil {
		// Windows refuses to rename over an existing file.
		_ = os.Remove(path)
		if err2 := os.Rename(temp, path); err2 != nil {
			_ = os.Remove(temp)
			return err2
		}
	}
	return nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if exists).
// Copying a file onto itself is a no-op.
func copyFile(src, dst string) (err error) {
	if si, serr := os.Stat(src); serr == nil {
		if di, derr := os.Stat(dst); derr == nil && os.SameFile(si, di) {
			return nil
		}
	}
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}
