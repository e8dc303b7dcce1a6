package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		" error ": zerolog.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestNew_JSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, c, err := New(Options{Level: "warn", Out: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer c.Close()
	l.Info().Msg("hidden")
	l.Warn().Str("k", "v").Msg("shown")
	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("expected one json line, got %q: %v", out, err)
	}
	if m["message"] != "shown" || m["k"] != "v" || m["service"] != "llamarelay" {
		t.Fatalf("unexpected fields: %v", m)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l, _, err := New(Options{Format: "console", Out: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Info().Msg("hello console")
	if !strings.Contains(buf.String(), "hello console") {
		t.Fatalf("missing message: %q", buf.String())
	}
	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("console output should not be json: %q", buf.String())
	}
}

func TestNew_Errors(t *testing.T) {
	if _, _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatalf("expected unknown format error")
	}
	if _, _, err := New(Options{Level: "nope"}); err == nil {
		t.Fatalf("expected level error")
	}
}

func TestNew_WritesFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "relay.log")
	var buf bytes.Buffer
	l, c, err := New(Options{Out: &buf, File: p})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	l.Info().Msg("to both")
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "to both") || !strings.Contains(buf.String(), "to both") {
		t.Fatalf("expected message in both sinks; file=%q out=%q", string(b), buf.String())
	}
}
