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
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "trainingdocs/internal/log"
	"trainingdocs/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// RegisterDirName holds derived per-folder state under the training root.
	RegisterDirName  = ".trainingdocs"
	RegisterFileName = "index.sqlite"

	// schemaVersion tracks the register schema. Bump it and add a migration step
	// for every change.
	schemaVersion = 2
)

// RegisterPath returns the register database file of a training folder.
func RegisterPath(root string) string {
	return filepath.Join(root, RegisterDirName, RegisterFileName)
}

// OpenRegister ensures the register exists, opens it in WAL mode and brings
// the schema up to date. Callers close the returned database.
func OpenRegister(root string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "register_open").With(
		slog.String("root", root),
	)
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("training root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, RegisterDirName), 0o755); err != nil {
		l.Error("create register dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create register dir: %w", err)
	}

	path := RegisterPath(root)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureRegisterSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure register schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}
	l.Debug("register ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Keep the stored schema so migrations can run from it.
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

func ensureRegisterSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS issuances (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			serial          TEXT NOT NULL,
			participant     TEXT NOT NULL,
			training_number TEXT NOT NULL,
			path            TEXT NOT NULL,
			issued_at       TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS imports (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			kind        TEXT NOT NULL,
			source      TEXT NOT NULL,
			archived    TEXT NOT NULL,
			row_count   INTEGER NOT NULL DEFAULT 0,
			dropped     INTEGER NOT NULL DEFAULT 0,
			uncertain   INTEGER NOT NULL DEFAULT 0,
			imported_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_issuances_serial ON issuances(serial);`,
		`CREATE INDEX IF NOT EXISTS idx_imports_kind ON imports(kind, imported_at);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create register schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Written by a newer build; never downgrade.
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		var stmts []string
		switch next {
		case 2:
			stmts = []string{
				`CREATE INDEX IF NOT EXISTS idx_issuances_serial ON issuances(serial);`,
				`CREATE INDEX IF NOT EXISTS idx_imports_kind ON imports(kind, imported_at);`,
			}
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", next, err)
		}
		for _, q := range stmts {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d stmt failed: %w", next, err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d update version: %w", next, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d commit: %w", next, err)
		}
		cur = next
	}
	return nil
}

// CheckRegister runs an integrity check and, when the register is unreadable
// or corrupt, moves it aside and creates an empty one. It reports whether the
// register was recreated.
func CheckRegister(ctx context.Context, root string) (bool, error) {
	path := RegisterPath(root)
	db, err := OpenRegister(root)
	if err == nil {
		var chk string
		qerr := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk)
		_ = db.Close()
		if qerr == nil && strings.EqualFold(strings.TrimSpace(chk), "ok") {
			return false, nil
		}
	}
	backupRegisterFile(path)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	db, err = OpenRegister(root)
	if err != nil {
		return false, fmt.Errorf("recreate register: %w", err)
	}
	_ = db.Close()
	applog.WithComponent("storage").Warn("register recreated", slog.String("path", path))
	return true, nil
}

// backupRegisterFile copies the register into a timestamped file under .trainingdocs/backups.
func backupRegisterFile(path string) {
	bdir := filepath.Join(filepath.Dir(path), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(path), stamp))
	if data, err := os.ReadFile(path); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// Issuance is one certificate recorded in the register.
type Issuance struct {
	Serial         string
	Participant    string
	TrainingNumber string
	Path           string
	IssuedAt       time.Time
}

// RecordIssuances appends issued certificates in one transaction.
func RecordIssuances(ctx context.Context, db *sql.DB, items []Issuance) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, `INSERT INTO issuances(serial, participant, training_number, path, issued_at) VALUES(?,?,?,?,?);`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, it := range items {
		if _, err := ins.ExecContext(ctx, it.Serial, it.Participant, it.TrainingNumber, it.Path, it.IssuedAt.UTC().Format(time.RFC3339)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert issuance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListIssuances returns recorded certificates, oldest first.
func ListIssuances(ctx context.Context, db *sql.DB) ([]Issuance, error) {
	rows, err := db.QueryContext(ctx, `SELECT serial, participant, training_number, path, issued_at FROM issuances ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query issuances: %w", err)
	}
	defer rows.Close()
	var out []Issuance
	for rows.Next() {
		var it Issuance
		var at string
		if err := rows.Scan(&it.Serial, &it.Participant, &it.TrainingNumber, &it.Path, &at); err != nil {
			return nil, fmt.Errorf("scan issuance: %w", err)
		}
		it.IssuedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, it)
	}
	return out, rows.Err()
}

// Import kinds stored in the register.
const (
	ImportAttendanceKind = "attendance"
	ImportSurveyKind     = "survey"
)

// ImportRecord is one spreadsheet import recorded in the register.
type ImportRecord struct {
	Kind       string
	Source     string
	Archived   string
	Rows       int
	Dropped    int
	Uncertain  int
	ImportedAt time.Time
}

// RecordImport appends an import entry.
func RecordImport(ctx context.Context, db *sql.DB, rec ImportRecord) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO imports(kind, source, archived, row_count, dropped, uncertain, imported_at) VALUES(?,?,?,?,?,?,?);`,
		rec.Kind, rec.Source, rec.Archived, rec.Rows, rec.Dropped, rec.Uncertain, rec.ImportedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert import: %w", err)
	}
	return nil
}

// ListImports returns recorded imports, oldest first.
func ListImports(ctx context.Context, db *sql.DB) ([]ImportRecord, error) {
	rows, err := db.QueryContext(ctx, `SELECT kind, source, archived, row_count, dropped, uncertain, imported_at FROM imports ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()
	var out []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		var at string
		if err := rows.Scan(&rec.Kind, &rec.Source, &rec.Archived, &rec.Rows, &rec.Dropped, &rec.Uncertain, &at); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		rec.ImportedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, rec)
	}
	return out, rows.Err()
}
