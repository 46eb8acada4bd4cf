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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied at load time.
//
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int                `yaml:"config_version"`
	General       GeneralConfig      `yaml:"general"`
	Assets        AssetsConfig       `yaml:"assets"`
	Organization  OrganizationConfig `yaml:"organization"`
	Logging       LoggingConfig      `yaml:"logging"`
}

type GeneralConfig struct {
	// TrainingRoot is where new training folders are created.
	TrainingRoot string `yaml:"training_root"`
	// MergeCertificates also writes one combined certificates PDF on generation.
	MergeCertificates bool `yaml:"merge_certificates"`
}

// AssetsConfig locates the font and images used on generated documents.
// Relative file names are resolved against Dir.
type AssetsConfig struct {
	Dir      string `yaml:"dir"`
	FontName string `yaml:"font_name"`
	FontFile string `yaml:"font_file"`
	Logo     string `yaml:"logo"`
	Stamp    string `yaml:"stamp"`
}

// OrganizationConfig holds the institution wording printed on logbooks and certificates.
type OrganizationConfig struct {
	Institution    string   `yaml:"institution"`
	OrganizerLines []string `yaml:"organizer_lines"`
	Supervisor     string   `yaml:"supervisor"`
	City           string   `yaml:"city"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TrainingRoot: defaultTrainingRoot()},
		Assets: AssetsConfig{
			Dir:      defaultAssetsDir(),
			FontName: "DejaVuSans",
			FontFile: "DejaVuSans.ttf",
			Logo:     "logo.png",
			Stamp:    "podpis.png",
		},
		Organization: DefaultOrganization(),
		Logging:      LoggingConfig{Level: "info", Format: "console"},
	}
}

// DefaultOrganization is the wording used when no configuration overrides it.
func DefaultOrganization() OrganizationConfig {
	return OrganizationConfig{
		Institution: "Małopolski Niepubliczny Ośrodek Doskonalenia Nauczycieli Best Practice Edukacja",
		OrganizerLines: []string{
			"zorganizowane przez Niepubliczną Placówkę Doskonalenia Nauczycieli",
			"Best Practice Edukacja w Wieliczce",
		},
		Supervisor: "Małgorzata Cużytek",
		City:       "Wieliczka",
	}
}

// Env var names used as overrides.
const (
	EnvConfigFile   = "TRAININGDOCS_CONFIG"
	EnvTrainingRoot = "TRAININGDOCS_TRAINING_ROOT"
	EnvAssetsDir    = "TRAININGDOCS_ASSETS_DIR"
	EnvFontFile     = "TRAININGDOCS_FONT_FILE"
	EnvCity         = "TRAININGDOCS_CITY"
	EnvLogLevel     = "TRAININGDOCS_LOG_LEVEL"
	EnvLogFormat    = "TRAININGDOCS_LOG_FORMAT"
	EnvLogSource    = "TRAININGDOCS_LOG_SOURCE"
	EnvLogFile      = "TRAININGDOCS_LOG_FILE"
)

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "TrainingDocs")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "TrainingDocs")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "trainingdocs")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "trainingdocs")
		}
	}
	if base == "" || base == "TrainingDocs" || base == "trainingdocs" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path, honoring TRAININGDOCS_CONFIG.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultAssetsDir() string {
	dir, err := ConfigDir()
	if err != nil {
		return "assets"
	}
	return filepath.Join(dir, "assets")
}

func defaultTrainingRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Documents", "generated_certificates")
}

// Load reads the user config file (if present), applies defaults and merges environment overrides.
// A missing file is not an error; a malformed one is.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load for an explicit file path.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to the user config file.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	setIfNotBlank(&dst.General.TrainingRoot, src.General.TrainingRoot)
	dst.General.MergeCertificates = src.General.MergeCertificates

	setIfNotBlank(&dst.Assets.Dir, src.Assets.Dir)
	setIfNotBlank(&dst.Assets.FontName, src.Assets.FontName)
	setIfNotBlank(&dst.Assets.FontFile, src.Assets.FontFile)
	setIfNotBlank(&dst.Assets.Logo, src.Assets.Logo)
	setIfNotBlank(&dst.Assets.Stamp, src.Assets.Stamp)

	setIfNotBlank(&dst.Organization.Institution, src.Organization.Institution)
	if len(src.Organization.OrganizerLines) > 0 {
		dst.Organization.OrganizerLines = append([]string(nil), src.Organization.OrganizerLines...)
	}
	setIfNotBlank(&dst.Organization.Supervisor, src.Organization.Supervisor)
	setIfNotBlank(&dst.Organization.City, src.Organization.City)

	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	setIfNotBlank(&dst.Logging.File, src.Logging.File)
}

func setIfNotBlank(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTrainingRoot)); v != "" {
		cfg.General.TrainingRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAssetsDir)); v != "" {
		cfg.Assets.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFontFile)); v != "" {
		cfg.Assets.FontFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCity)); v != "" {
		cfg.Organization.City = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by the environment.
func EnvOverrideFor(key string) (string, bool) {
	env := map[string]string{
		"general.training_root": EnvTrainingRoot,
		"assets.dir":            EnvAssetsDir,
		"assets.font_file":      EnvFontFile,
		"organization.city":     EnvCity,
		"logging.level":         EnvLogLevel,
		"logging.format":        EnvLogFormat,
		"logging.source":        EnvLogSource,
		"logging.file":          EnvLogFile,
	}[key]
	if env != "" && os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// Path resolves an asset file name against Dir. Absolute names are returned unchanged.
func (a AssetsConfig) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.Dir, name)
}

func (a AssetsConfig) FontPath() string  { return a.Path(a.FontFile) }
func (a AssetsConfig) LogoPath() string  { return a.Path(a.Logo) }
func (a AssetsConfig) StampPath() string { return a.Path(a.Stamp) }
