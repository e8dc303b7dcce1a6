package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is prepended to every environment variable read by FromEnv.
const EnvPrefix = "LLAMARELAY_"

// FromEnv builds a Config from LLAMARELAY_* variables. Unset variables leave
// the corresponding field zero so the result can be merged over file config.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	get := func(key string) string {
		v, _ := lookup(EnvPrefix + key)
		return strings.TrimSpace(v)
	}
	cfg.Addr = get("ADDR")
	cfg.RunnerBin = get("RUNNER_BIN")
	cfg.RunnerSubcommand = get("RUNNER_SUBCOMMAND")
	cfg.Model = get("MODEL")
	if v := get("RUNNER_ARGS"); v != "" {
		cfg.RunnerArgs = strings.Fields(v)
	}
	cfg.LogLevel = get("LOG_LEVEL")
	cfg.LogFormat = get("LOG_FORMAT")
	cfg.LogFile = get("LOG_FILE")
	cfg.RequestLog = get("REQUEST_LOG")
	cfg.CORSOrigins = splitCSV(get("CORS_ORIGINS"))

	var err error
	if v := get("TIMEOUT_SECONDS"); v != "" {
		if cfg.TimeoutSeconds, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("%sTIMEOUT_SECONDS: %w", EnvPrefix, err)
		}
	}
	if v := get("MAX_OUTPUT_BYTES"); v != "" {
		if cfg.MaxOutputBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return cfg, fmt.Errorf("%sMAX_OUTPUT_BYTES: %w", EnvPrefix, err)
		}
	}
	if v := get("MAX_BODY_BYTES"); v != "" {
		if cfg.MaxBodyBytes, err = strconv.ParseInt(v, 10, 64); err != nil {
			return cfg, fmt.Errorf("%sMAX_BODY_BYTES: %w", EnvPrefix, err)
		}
	}
	return cfg, nil
}

// splitCSV splits a comma-separated list, trimming blanks and dropping empties.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
