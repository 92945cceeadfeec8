package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel_path: /tmp/m.gguf\nlog_level: debug\nadaptation:\n  max_steps: 12\n  confidence_threshold: 0.8\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelPath != "/tmp/m.gguf" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Adaptation.MaxSteps != 12 || cfg.Adaptation.ConfidenceThreshold != 0.8 {
		t.Fatalf("unexpected adaptation cfg: %+v", cfg.Adaptation)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","journal_dir":"/j","adaptation":{"rank_set":[4,8],"min_steps":3}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.JournalDir != "/j" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.Adaptation.RankSet) != 2 || cfg.Adaptation.RankSet[0] != 4 || cfg.Adaptation.MinSteps != 3 {
		t.Fatalf("unexpected adaptation cfg: %+v", cfg.Adaptation)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\ncors_enabled=true\ncors_origins=[\"http://localhost:5173\"]\n[adaptation]\nlearning_rate=0.05\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || !cfg.CORSEnabled || len(cfg.CORSOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Adaptation.LearningRate != 0.05 {
		t.Fatalf("unexpected adaptation cfg: %+v", cfg.Adaptation)
	}
}

func TestLoadPatternOverrides(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "adaptation:\n  patterns:\n    - kind: analogy\n      weight: 0.95\n      max_examples: 4\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Adaptation.Patterns) != 1 {
		t.Fatalf("expected 1 pattern override, got %d", len(cfg.Adaptation.Patterns))
	}
	ov := cfg.Adaptation.Patterns[0]
	if ov.Kind != "analogy" || ov.Weight != 0.95 || ov.MaxExamples != 4 {
		t.Fatalf("unexpected override: %+v", ov)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error on missing file")
	}
}
