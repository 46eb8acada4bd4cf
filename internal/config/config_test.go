/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigFile, path)
	for _, k := range []string{EnvTrainingRoot, EnvAssetsDir, EnvFontFile, EnvCity, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Organization.City != "Wieliczka" {
		t.Fatalf("City = %q", cfg.Organization.City)
	}
	if cfg.Assets.FontName != "DejaVuSans" {
		t.Fatalf("FontName = %q", cfg.Assets.FontName)
	}
}

func TestEnvOverridesTrainingRoot(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTrainingRoot, "/srv/szkolenia")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.General.TrainingRoot, "/srv/szkolenia"; got != want {
		t.Fatalf("TrainingRoot = %q, want %q", got, want)
	}
	if env, ok := EnvOverrideFor("general.training_root"); !ok || env != EnvTrainingRoot {
		t.Fatalf("EnvOverrideFor = %q, %v", env, ok)
	}
	if _, ok := EnvOverrideFor("organization.city"); ok {
		t.Fatalf("city should not report an override")
	}
}

func TestSaveAndLoadRoundTripsOrganization(t *testing.T) {
	path := isolate(t)
	cfg := Defaults()
	cfg.Organization.City = "Kraków"
	cfg.Organization.OrganizerLines = []string{"linia 1"}
	cfg.General.MergeCertificates = true
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Organization.City != "Kraków" || len(got.Organization.OrganizerLines) != 1 || !got.General.MergeCertificates {
		t.Fatalf("round trip mismatch: %#v", got)
	}
}

func TestLoadMalformedFileReportsError(t *testing.T) {
	path := isolate(t)
	if err := os.WriteFile(path, []byte("general: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load()
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Organization.City != "Wieliczka" {
		t.Fatalf("defaults should survive a parse error, got %q", cfg.Organization.City)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Logging: LoggingConfig{Level: " DEBUG ", Format: "json", Source: true, File: "/tmp/td.log"}}
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/td.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
	if dst.Assets.Logo != "logo.png" {
		t.Fatalf("blank fields must keep defaults, got %q", dst.Assets.Logo)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	isolate(t)
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "yes")
	t.Setenv(EnvLogFile, "/var/log/td.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/var/log/td.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestAssetPathResolution(t *testing.T) {
	a := AssetsConfig{Dir: "/opt/td/assets", FontFile: "DejaVuSans.ttf", Logo: "/abs/logo.png"}
	if got := a.FontPath(); got != filepath.Join("/opt/td/assets", "DejaVuSans.ttf") {
		t.Fatalf("FontPath = %q", got)
	}
	if got := a.LogoPath(); got != "/abs/logo.png" {
		t.Fatalf("LogoPath = %q", got)
	}
	if got := a.StampPath(); got != "" {
		t.Fatalf("StampPath = %q", got)
	}
}
