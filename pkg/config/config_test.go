package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), File)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileIsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "ru" || cfg.MaxDepth != 3 || !cfg.Animation.Enabled {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
language: en
scan_paths: [~/graphs]
animation:
  enabled: false
  frame_ms: 50
input:
  link_modifier: alt
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "en" || cfg.Animation.Enabled || cfg.Animation.FrameMS != 50 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Animation.MaxPeople != 900 {
		t.Errorf("unset field lost its default: %d", cfg.Animation.MaxPeople)
	}
	if cfg.Input.LinkModifier != "alt" {
		t.Errorf("link modifier = %q", cfg.Input.LinkModifier)
	}
	if strings.HasPrefix(cfg.ScanPaths[0], "~") {
		t.Errorf("scan path not expanded: %q", cfg.ScanPaths[0])
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, yaml, want string
	}{
		{"language", "language: de\n", "language must be one of"},
		{"frame", "animation:\n  frame_ms: 1\n", "animation.frame_ms must be at least 16"},
		{"cell", "canvas:\n  cell_width: 0\n", "canvas.cell_width"},
		{"modifier", "input:\n  link_modifier: meta\n", "input.link_modifier"},
		{"syntax", "language: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Path(); got != filepath.Join("/tmp/xdg", Dir, File) {
		t.Errorf("Path = %q", got)
	}
}
