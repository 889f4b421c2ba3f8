package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load should not error for missing file: %v", err)
	}

	if cfg.Backend != BackendMoco {
		t.Errorf("expected default backend %q, got %q", BackendMoco, cfg.Backend)
	}
	if cfg.DailyTargetHours != DefaultDailyTargetHours {
		t.Errorf("expected default target hours, got %v", cfg.DailyTargetHours)
	}
	if cfg.FirstDayOfWeek() != time.Monday {
		t.Errorf("expected Monday week start, got %v", cfg.FirstDayOfWeek())
	}
	if cfg.MocoLoggedIn() {
		t.Error("default config should not be logged in")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFile)
	userID := int64(933590696)

	cfg := Default()
	cfg.Moco = MocoConfig{
		Company:   "acme",
		APIKey:    "secret",
		BotAPIKey: "bot-secret",
		UserID:    &userID,
	}
	cfg.WeekStart = "sunday"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "api_key: secret") {
		t.Errorf("expected yaml keys in file, got:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !loaded.MocoLoggedIn() {
		t.Error("loaded config should be logged in")
	}
	if *loaded.Moco.UserID != userID {
		t.Errorf("expected user id %d, got %d", userID, *loaded.Moco.UserID)
	}
	if loaded.FirstDayOfWeek() != time.Sunday {
		t.Errorf("expected Sunday week start, got %v", loaded.FirstDayOfWeek())
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFile)
	os.WriteFile(path, []byte("backend: local\nlocal:\n  db_path: /tmp/x.db\n"), 0600)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend != BackendLocal {
		t.Errorf("expected local backend, got %q", cfg.Backend)
	}
	if cfg.DailyTargetHours != DefaultDailyTargetHours {
		t.Errorf("missing keys should keep defaults, got %v", cfg.DailyTargetHours)
	}
	if p, _ := cfg.LocalDBPath(); p != "/tmp/x.db" {
		t.Errorf("expected configured db path, got %q", p)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":    "backend: [",
		"bad backend": "backend: jira\n",
		"bad weekday": "week_start: someday\n",
		"bad target":  "daily_target_hours: 30\n",
	}
	for name, content := range tests {
		path := filepath.Join(t.TempDir(), ConfigFile)
		os.WriteFile(path, []byte(content), 0600)
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestPathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/mococli.yaml")

	p, err := Path()
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if p != "/etc/mococli.yaml" {
		t.Errorf("expected env override, got %q", p)
	}
}

func TestPathDefault(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	p, err := Path()
	if err != nil {
		t.Fatalf("Path failed: %v", err)
	}
	if !strings.HasSuffix(p, filepath.Join(AppDir, ConfigFile)) {
		t.Errorf("unexpected default path %q", p)
	}
}
