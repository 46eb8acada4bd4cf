/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package crash

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trainingdocs/internal/domain"
	"trainingdocs/internal/storage"
)

// TestRecover_Panicking ensures Recover handles a panic, writes a report and
// a crash snapshot, and calls the injected exitFn instead of terminating.
func TestRecover_Panicking(t *testing.T) {
	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	defer func() {
		_ = w.Close()
		os.Stderr = oldStderr
		_, _ = io.Copy(io.Discard, r)
	}()

	called := 0
	oldExit := exitFn
	exitFn = func(code int) { called = code }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	ph, err := storage.Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ph.Live = domain.NewProject()
	ph.Live.Training[domain.KeyName] = "niezapisane"

	func() {
		defer Recover(ph)
		panic("boom")
	}()

	var report string
	files, _ := os.ReadDir(filepath.Join(root, storage.RegisterDirName))
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "crash-") && strings.HasSuffix(f.Name(), ".log") {
			report = filepath.Join(root, storage.RegisterDirName, f.Name())
			break
		}
	}
	if report == "" {
		t.Fatalf("expected crash report file under register dir")
	}
	b, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !bytes.Contains(b, []byte("Panic: boom")) {
		t.Fatalf("report does not contain panic: %s", string(b))
	}

	snaps, _ := filepath.Glob(filepath.Join(root, storage.DataFileName+".crash-*"))
	if len(snaps) != 1 {
		t.Fatalf("expected one crash snapshot, got %v", snaps)
	}
	snap, err := storage.LoadFile(snaps[0])
	if err != nil || snap.Training[domain.KeyName] != "niezapisane" {
		t.Fatalf("snapshot should hold unsaved edits: %v %v", snap, err)
	}

	if called != 2 {
		t.Fatalf("expected exit code 2, got %d", called)
	}
}
