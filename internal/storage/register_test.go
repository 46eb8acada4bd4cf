/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestRegisterInitCreatesWALAndTables(t *testing.T) {
	root := t.TempDir()
	db, err := OpenRegister(root)
	if err != nil {
		t.Fatalf("OpenRegister error: %v", err)
	}
	defer db.Close()
	if _, err := os.Stat(RegisterPath(root)); err != nil {
		t.Fatalf("register file missing: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var mode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&mode); err != nil {
		t.Fatalf("read journal_mode: %v", err)
	}
	if mode != "wal" && mode != "WAL" {
		t.Fatalf("expected WAL mode, got %s", mode)
	}
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('meta','version','issuances','imports')").Scan(&cnt); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if cnt != 4 {
		t.Fatalf("expected 4 tables, got %d", cnt)
	}
}

func TestRecordAndListIssuances(t *testing.T) {
	root := t.TempDir()
	db, err := OpenRegister(root)
	if err != nil {
		t.Fatalf("OpenRegister error: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	in := []Issuance{
		{Serial: "5/2025/1", Participant: "Jan Kowalski", TrainingNumber: "5/2025", Path: "certyfikat_1.pdf", IssuedAt: at},
		{Serial: "5/2025/2", Participant: "Ewa Nowak", TrainingNumber: "5/2025", Path: "certyfikat_2.pdf", IssuedAt: at},
	}
	if err := RecordIssuances(ctx, db, in); err != nil {
		t.Fatalf("RecordIssuances: %v", err)
	}
	if err := RecordIssuances(ctx, db, nil); err != nil {
		t.Fatalf("empty batch should be a no-op: %v", err)
	}
	got, err := ListIssuances(ctx, db)
	if err != nil {
		t.Fatalf("ListIssuances: %v", err)
	}
	if len(got) != 2 || got[1].Serial != "5/2025/2" || !got[0].IssuedAt.Equal(at) {
		t.Fatalf("unexpected issuances: %#v", got)
	}
}

func TestRecordAndListImports(t *testing.T) {
	root := t.TempDir()
	db, err := OpenRegister(root)
	if err != nil {
		t.Fatalf("OpenRegister error: %v", err)
	}
	defer db.Close()
	ctx := context.Background()
	rec := ImportRecord{Kind: ImportAttendanceKind, Source: "/tmp/lista.ods", Archived: "archiwum/lista_obecnosci.ods", Rows: 12, Dropped: 1, Uncertain: 2, ImportedAt: time.Now()}
	if err := RecordImport(ctx, db, rec); err != nil {
		t.Fatalf("RecordImport: %v", err)
	}
	got, err := ListImports(ctx, db)
	if err != nil {
		t.Fatalf("ListImports: %v", err)
	}
	if len(got) != 1 || got[0].Rows != 12 || got[0].Uncertain != 2 || got[0].Kind != ImportAttendanceKind {
		t.Fatalf("unexpected imports: %#v", got)
	}
}

func TestCheckRegisterRecreatesCorruptFile(t *testing.T) {
	root := t.TempDir()
	db, err := OpenRegister(root)
	if err != nil {
		t.Fatalf("OpenRegister error: %v", err)
	}
	db.Close()
	ctx := context.Background()
	recreated, err := CheckRegister(ctx, root)
	if err != nil || recreated {
		t.Fatalf("healthy register should be kept: %v %v", recreated, err)
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(RegisterPath(root) + suffix)
	}
	if err := os.WriteFile(RegisterPath(root), []byte("garbage garbage garbage garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	recreated, err = CheckRegister(ctx, root)
	if err != nil {
		t.Fatalf("CheckRegister error: %v", err)
	}
	if !recreated {
		t.Fatalf("corrupt register should be recreated")
	}
	db, err = OpenRegister(root)
	if err != nil {
		t.Fatalf("reopen after recreate: %v", err)
	}
	defer db.Close()
	if items, err := ListIssuances(ctx, db); err != nil || len(items) != 0 {
		t.Fatalf("recreated register should be empty: %v %v", items, err)
	}
}
