package config

import "testing"

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnv_ReadsPrefixedVars(t *testing.T) {
	cfg, err := fromLookup(lookupMap(map[string]string{
		"LLAMARELAY_ADDR":             ":6000",
		"LLAMARELAY_RUNNER_BIN":       "/usr/bin/ollama",
		"LLAMARELAY_MODEL":            "llama3.2",
		"LLAMARELAY_RUNNER_ARGS":      "--verbose  --nowordwrap",
		"LLAMARELAY_TIMEOUT_SECONDS":  "12",
		"LLAMARELAY_MAX_BODY_BYTES":   "100",
		"LLAMARELAY_MAX_OUTPUT_BYTES": "200",
		"LLAMARELAY_CORS_ORIGINS":     " http://a , ,http://b ",
	}))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Addr != ":6000" || cfg.RunnerBin != "/usr/bin/ollama" || cfg.Model != "llama3.2" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.RunnerArgs) != 2 || cfg.RunnerArgs[1] != "--nowordwrap" {
		t.Fatalf("runner args: %v", cfg.RunnerArgs)
	}
	if cfg.TimeoutSeconds != 12 || cfg.MaxBodyBytes != 100 || cfg.MaxOutputBytes != 200 {
		t.Fatalf("numeric fields: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "http://a" || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestFromEnv_BadNumber(t *testing.T) {
	for _, key := range []string{"LLAMARELAY_TIMEOUT_SECONDS", "LLAMARELAY_MAX_BODY_BYTES", "LLAMARELAY_MAX_OUTPUT_BYTES"} {
		if _, err := fromLookup(lookupMap(map[string]string{key: "ten"})); err == nil {
			t.Fatalf("%s: expected parse error", key)
		}
	}
}

func TestFromEnv_EmptyIsZero(t *testing.T) {
	cfg, err := fromLookup(lookupMap(nil))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Addr != "" || cfg.RunnerArgs != nil || cfg.CORSOrigins != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}

	cfg, err = fromLookup(lookupMap(map[string]string{"LLAMARELAY_RUNNER_ARGS": "   "}))
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.RunnerArgs != nil {
		t.Fatalf("blank RUNNER_ARGS should stay unset, got %#v", cfg.RunnerArgs)
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}
