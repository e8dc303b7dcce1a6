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

// Config holds runtime parameters for the service.
// Zero values mean "unspecified"; WithDefaults fills them in.
type Config struct {
	Addr             string   `json:"addr" yaml:"addr" toml:"addr"`
	RunnerBin        string   `json:"runner_bin" yaml:"runner_bin" toml:"runner_bin"`
	RunnerSubcommand string   `json:"runner_subcommand" yaml:"runner_subcommand" toml:"runner_subcommand"`
	Model            string   `json:"model" yaml:"model" toml:"model"`
	RunnerArgs       []string `json:"runner_args" yaml:"runner_args" toml:"runner_args"`
	TimeoutSeconds   int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	MaxOutputBytes   int64    `json:"max_output_bytes" yaml:"max_output_bytes" toml:"max_output_bytes"`
	MaxBodyBytes     int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	LogLevel         string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat        string   `json:"log_format" yaml:"log_format" toml:"log_format"`
	LogFile          string   `json:"log_file" yaml:"log_file" toml:"log_file"`
	RequestLog       string   `json:"request_log" yaml:"request_log" toml:"request_log"`
	CORSOrigins      []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
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
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Merge overlays every non-zero field of over onto base.
func Merge(base, over Config) Config {
	out := base
	setStr(&out.Addr, over.Addr)
	setStr(&out.RunnerBin, over.RunnerBin)
	setStr(&out.RunnerSubcommand, over.RunnerSubcommand)
	setStr(&out.Model, over.Model)
	setStr(&out.LogLevel, over.LogLevel)
	setStr(&out.LogFormat, over.LogFormat)
	setStr(&out.LogFile, over.LogFile)
	setStr(&out.RequestLog, over.RequestLog)
	if len(over.RunnerArgs) > 0 {
		out.RunnerArgs = append([]string(nil), over.RunnerArgs...)
	}
	if len(over.CORSOrigins) > 0 {
		out.CORSOrigins = append([]string(nil), over.CORSOrigins...)
	}
	if over.TimeoutSeconds != 0 {
		out.TimeoutSeconds = over.TimeoutSeconds
	}
	if over.MaxOutputBytes != 0 {
		out.MaxOutputBytes = over.MaxOutputBytes
	}
	if over.MaxBodyBytes != 0 {
		out.MaxBodyBytes = over.MaxBodyBytes
	}
	return out
}

func setStr(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
