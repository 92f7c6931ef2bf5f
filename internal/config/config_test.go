package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/mgpai22/fixsrt/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultConfigMissingFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "fixsrt", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.Rules.Language != "fr" {
		t.Fatalf("unexpected default language: %q", cfg.Rules.Language)
	}
	if !cfg.Files.Backup {
		t.Fatal("expected backups enabled by default")
	}
	if cfg.Files.BackupSuffix != "~" {
		t.Fatalf("unexpected backup suffix: %q", cfg.Files.BackupSuffix)
	}
	if cfg.Files.Jobs != 1 {
		t.Fatalf("unexpected jobs: %d", cfg.Files.Jobs)
	}
	if cfg.Text.NormalizeNFC {
		t.Fatal("expected NFC normalization disabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadFileOverridesAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := writeConfig(t, `
[rules]
language = " EN "
extra_files = ["~/rules/extra.yaml", ""]

[files]
backup = false
backup_suffix = ".bak"
jobs = 4

[text]
normalize_nfc = true

[logging]
format = "JSON"
level = "Debug"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Rules.Language != "en" {
		t.Fatalf("language not normalized: %q", cfg.Rules.Language)
	}
	wantExtra := filepath.Join(tempHome, "rules", "extra.yaml")
	if len(cfg.Rules.ExtraFiles) != 1 || cfg.Rules.ExtraFiles[0] != wantExtra {
		t.Fatalf("unexpected extra files: %v", cfg.Rules.ExtraFiles)
	}
	if cfg.Files.Backup {
		t.Fatal("expected backups disabled")
	}
	if cfg.Files.BackupSuffix != ".bak" || cfg.Files.Jobs != 4 {
		t.Fatalf("unexpected files section: %+v", cfg.Files)
	}
	if !cfg.Text.NormalizeNFC {
		t.Fatal("expected NFC normalization enabled")
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[files]\njobs = 2\n")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Files.Jobs != 2 {
		t.Fatalf("unexpected jobs: %d", cfg.Files.Jobs)
	}
	if !cfg.Files.Backup || cfg.Rules.Language != "fr" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative jobs", "[files]\njobs = -1\n", "files.jobs"},
		{"suffix with separator", "[files]\nbackup_suffix = \"/old\"\n", "files.backup_suffix"},
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"unknown key", "[files]\nbakup = true\n", "parse config"},
		{"bad toml", "[files\n", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := config.Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDirectoryPath(t *testing.T) {
	if _, _, _, err := config.Load(t.TempDir()); err == nil {
		t.Fatal("expected error for directory config path")
	}
}

func TestSampleConfigMatchesDefaults(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.Sample()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}

	def := config.Default()
	if cfg.Rules.Language != def.Rules.Language {
		t.Fatalf("sample language %q, default %q", cfg.Rules.Language, def.Rules.Language)
	}
	if cfg.Files != def.Files {
		t.Fatalf("sample files %+v, default %+v", cfg.Files, def.Files)
	}
	if cfg.Text != def.Text || cfg.Logging != def.Logging {
		t.Fatalf("sample text/logging differ from defaults")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != config.Sample() {
		t.Fatal("written sample differs from embedded sample")
	}
	if err := config.CreateSample(path); err == nil {
		t.Fatal("expected error when config already exists")
	}
}
