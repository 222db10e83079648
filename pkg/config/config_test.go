package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return p
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if cfg.Analysis.Workers != 0 {
		t.Errorf("Analysis.Workers = %d, want 0", cfg.Analysis.Workers)
	}
	if cfg.Analysis.MaxFileSize != 1<<20 {
		t.Errorf("Analysis.MaxFileSize = %d, want 1 MiB", cfg.Analysis.MaxFileSize)
	}
	if cfg.Thresholds.Complexity != 10 {
		t.Errorf("Thresholds.Complexity = %d, want 10", cfg.Thresholds.Complexity)
	}
	if cfg.Thresholds.Coupling != 10 {
		t.Errorf("Thresholds.Coupling = %d, want 10", cfg.Thresholds.Coupling)
	}
	if cfg.Complexity.IsolateNestedFunctions {
		t.Error("Complexity.IsolateNestedFunctions should be false by default")
	}
	if !cfg.Exclude.Gitignore {
		t.Error("Exclude.Gitignore should be true by default")
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("Exclude.Dirs should have default values")
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled should be false by default")
	}
	if cfg.Cache.TTL != 24 {
		t.Errorf("Cache.TTL = %d, want 24", cfg.Cache.TTL)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %s, want text", cfg.Output.Format)
	}
}

func TestLoadTOML(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "tangle.toml", `
[analysis]
workers = 4

[thresholds]
complexity = 15

[complexity]
isolate_nested_functions = true

[resolver]
external_modules = ["numpy", "django"]

[exclude]
dirs = ["vendor", "custom_exclude"]

[output]
format = "json"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Analysis.Workers != 4 {
		t.Errorf("Analysis.Workers = %d, want 4", cfg.Analysis.Workers)
	}
	if cfg.Thresholds.Complexity != 15 {
		t.Errorf("Thresholds.Complexity = %d, want 15", cfg.Thresholds.Complexity)
	}
	if cfg.Thresholds.Coupling != 10 {
		t.Errorf("Thresholds.Coupling = %d, want default 10", cfg.Thresholds.Coupling)
	}
	if !cfg.Complexity.IsolateNestedFunctions {
		t.Error("Complexity.IsolateNestedFunctions should be true")
	}
	if len(cfg.Resolver.ExternalModules) != 2 || cfg.Resolver.ExternalModules[1] != "django" {
		t.Errorf("Resolver.ExternalModules = %v", cfg.Resolver.ExternalModules)
	}
	if len(cfg.Exclude.Dirs) != 2 {
		t.Errorf("Exclude.Dirs = %v, want 2 entries", cfg.Exclude.Dirs)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want json", cfg.Output.Format)
	}
}

func TestLoadYAML(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "tangle.yaml", `
thresholds:
  coupling: 20
cache:
  enabled: true
  ttl: 48
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Thresholds.Coupling != 20 {
		t.Errorf("Thresholds.Coupling = %d, want 20", cfg.Thresholds.Coupling)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 48 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
}

func TestLoadJSON(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "tangle.json", `{"output": {"format": "markdown", "color": false}}`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Output.Format != "markdown" || cfg.Output.Color {
		t.Errorf("Output = %+v", cfg.Output)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := Load("/nonexistent/tangle.toml"); err == nil {
		t.Error("Load() should return error for non-existent file")
	}
}

func TestLoadInvalidFile(t *testing.T) {
	configPath := writeConfig(t, t.TempDir(), "tangle.toml", "this is [[ not toml")

	if _, err := Load(configPath); err == nil {
		t.Error("Load() should return error for invalid TOML")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, path, err := LoadOrDefault(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.Thresholds.Complexity != 10 {
		t.Error("expected default config")
	}
}

func TestLoadOrDefaultWithConfigFile(t *testing.T) {
	dir := t.TempDir()
	want := writeConfig(t, dir, ".tangle/tangle.toml", "[thresholds]\ncomplexity = 7\n")

	cfg, path, err := LoadOrDefault(dir)
	if err != nil {
		t.Fatalf("LoadOrDefault() error: %v", err)
	}
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if cfg.Thresholds.Complexity != 7 {
		t.Errorf("Thresholds.Complexity = %d, want 7", cfg.Thresholds.Complexity)
	}
}

func TestFindPrefersRootDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".tangle/tangle.toml", "")
	want := writeConfig(t, dir, ".tangle.yaml", "")

	if got := Find(dir); got != want {
		t.Errorf("Find() = %q, want %q", got, want)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		path string
		want bool
	}{
		{"src/app.ts", false},
		{"node_modules/react/index.js", true},
		{"web/node_modules/x/y.js", true},
		{"pkg/__pycache__/mod.py", true},
		{"static/vendor.min.js", true},
		{"types/global.d.ts", true},
		{"app/models.py", false},
		{"distribution/setup.py", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := cfg.ShouldExclude(tt.path); got != tt.want {
				t.Errorf("ShouldExclude(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestShouldExcludeCustomPatterns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = []string{"test_*.py", "migrations/**"}

	if !cfg.ShouldExclude("app/test_models.py") {
		t.Error("base name pattern should match in any directory")
	}
	if !cfg.ShouldExclude("migrations/0001_initial.py") {
		t.Error("path pattern should match")
	}
	if cfg.ShouldExclude("app/migrations/0001_initial.py") {
		t.Error("anchored path pattern should not match nested directory")
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	valid := writeConfig(t, dir, "ok.toml", "[thresholds]\ncomplexity = 12\n[output]\nformat = \"toon\"\n")
	if err := Validate(valid); err != nil {
		t.Errorf("Validate(valid) error: %v", err)
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown section", "a.toml", "[bogus]\nx = 1\n"},
		{"wrong type", "b.yaml", "thresholds:\n  complexity: high\n"},
		{"out of range", "c.json", `{"thresholds": {"coupling": 0}}`},
		{"bad format", "d.toml", "[output]\nformat = \"html\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, dir, tt.file, tt.content)
			if err := Validate(p); err == nil {
				t.Errorf("Validate(%s) should fail", tt.name)
			}
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.Complexity = 17
	cfg.Resolver.ExternalModules = []string{"requests"}

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), "[thresholds]") {
		t.Errorf("expected TOML table header, got:\n%s", data)
	}

	p := writeConfig(t, t.TempDir(), "tangle.toml", string(data))
	loaded, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Thresholds.Complexity != 17 {
		t.Errorf("Thresholds.Complexity = %d, want 17", loaded.Thresholds.Complexity)
	}
	if len(loaded.Resolver.ExternalModules) != 1 {
		t.Errorf("Resolver.ExternalModules = %v", loaded.Resolver.ExternalModules)
	}
	if err := Validate(p); err != nil {
		t.Errorf("rendered config should validate: %v", err)
	}
}

func TestMarshalYAML(t *testing.T) {
	data, err := MarshalYAML(DefaultConfig())
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if !strings.Contains(string(data), "max_file_size: 1048576") {
		t.Errorf("unexpected YAML:\n%s", data)
	}
}
