package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// PatternOverride customizes one entry of the pattern registry. Zero fields
// keep the built-in default for that entry.
type PatternOverride struct {
	Kind        string  `json:"kind" yaml:"kind" toml:"kind"`
	Weight      float64 `json:"weight" yaml:"weight" toml:"weight"`
	MinExamples int     `json:"min_examples" yaml:"min_examples" toml:"min_examples"`
	MaxExamples int     `json:"max_examples" yaml:"max_examples" toml:"max_examples"`
	MinStrength float64 `json:"min_strength" yaml:"min_strength" toml:"min_strength"`
}

// Adaptation holds the engine tunables. Zero values mean "unspecified" and
// are replaced by engine defaults.
type Adaptation struct {
	RankSet              []int             `json:"rank_set" yaml:"rank_set" toml:"rank_set"`
	MinSteps             int               `json:"min_steps" yaml:"min_steps" toml:"min_steps"`
	MaxSteps             int               `json:"max_steps" yaml:"max_steps" toml:"max_steps"`
	LearningRate         float64           `json:"learning_rate" yaml:"learning_rate" toml:"learning_rate"`
	ConvergenceThreshold float64           `json:"convergence_threshold" yaml:"convergence_threshold" toml:"convergence_threshold"`
	ConfidenceThreshold  float64           `json:"confidence_threshold" yaml:"confidence_threshold" toml:"confidence_threshold"`
	MaxWallClockMS       int               `json:"max_wall_clock_ms" yaml:"max_wall_clock_ms" toml:"max_wall_clock_ms"`
	MemoryLimitBytes     int               `json:"memory_limit_bytes" yaml:"memory_limit_bytes" toml:"memory_limit_bytes"`
	Patterns             []PatternOverride `json:"patterns" yaml:"patterns" toml:"patterns"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr         string     `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath    string     `json:"model_path" yaml:"model_path" toml:"model_path"`
	LlamaCtx     int        `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads int        `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	LogLevel     string     `json:"log_level" yaml:"log_level" toml:"log_level"`
	JournalDir   string     `json:"journal_dir" yaml:"journal_dir" toml:"journal_dir"`
	CORSEnabled  bool       `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins  []string   `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	Adaptation   Adaptation `json:"adaptation" yaml:"adaptation" toml:"adaptation"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
