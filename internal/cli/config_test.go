package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tmewes/graphsmith/pkg/reconcile"
)

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DefaultMode != string(reconcile.ModeHierarchy) {
		t.Errorf("DefaultMode = %q", cfg.DefaultMode)
	}
	if !cfg.PrettyXML {
		t.Errorf("PrettyXML should default to true")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "yed_path = \"/opt/yed/yed\"\ndefault_mode = \"relations\"\npretty_xml = false\nkeep_workbook = true\n"
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.YedPath != "/opt/yed/yed" {
		t.Errorf("YedPath = %q", cfg.YedPath)
	}
	if cfg.DefaultMode != string(reconcile.ModeRelations) {
		t.Errorf("DefaultMode = %q", cfg.DefaultMode)
	}
	if cfg.PrettyXML {
		t.Errorf("PrettyXML should be false")
	}
	if !cfg.KeepWorkbook {
		t.Errorf("KeepWorkbook should be true")
	}
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("default_mode = \"sideways\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(); err == nil {
		t.Errorf("LoadConfig accepted an invalid mode")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    reconcile.Mode
		wantErr bool
	}{
		{"obj_and_hierarchy", reconcile.ModeHierarchy, false},
		{"relations", reconcile.ModeRelations, false},
		{"object_data", reconcile.ModeObjectData, false},
		{"sideways", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := parseMode(tt.input)
		if tt.wantErr != (err != nil) {
			t.Errorf("parseMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
