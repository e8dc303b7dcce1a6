package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"llamarelay/internal/runner"
	"llamarelay/pkg/types"
)

// fakeRunner records prompts and returns canned output.
type fakeRunner struct {
	stdout   string
	err      error
	found    bool
	prompts  []string
	inflight int64
}

func (f *fakeRunner) Run(ctx context.Context, prompt string) (runner.Result, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return runner.Result{}, f.err
	}
	return runner.Result{RunID: "r1", Stdout: f.stdout}, nil
}

func (f *fakeRunner) Sanity() types.SanityReport {
	return types.SanityReport{Bin: "ollama", Found: f.found, Model: "m"}
}

func (f *fakeRunner) Inflight() int64 { return f.inflight }

func TestPrompt_TrimsWhitespace(t *testing.T) {
	fr := &fakeRunner{stdout: "  hello world  \n"}
	rl := New(fr, zerolog.Nop())
	got, err := rl.Prompt(context.Background(), "say hi")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q", got)
	}
	if len(fr.prompts) != 1 || fr.prompts[0] != "say hi" {
		t.Fatalf("prompts=%q", fr.prompts)
	}
}

func TestPrompt_EmptyInputForwarded(t *testing.T) {
	fr := &fakeRunner{stdout: "\n"}
	rl := New(fr, zerolog.Nop())
	got, err := rl.Prompt(context.Background(), "")
	if err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	if len(fr.prompts) != 1 || fr.prompts[0] != "" {
		t.Fatalf("expected one empty prompt, got %q", fr.prompts)
	}
}

func TestPrompt_RepairsInvalidUTF8(t *testing.T) {
	fr := &fakeRunner{stdout: "ok \xff done"}
	got, err := New(fr, zerolog.Nop()).Prompt(context.Background(), "x")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if got != "ok \uFFFD done" {
		t.Fatalf("got %q", got)
	}
}

func TestPrompt_ErrorRecordedInStatus(t *testing.T) {
	fr := &fakeRunner{err: runner.ErrExit(1, "boom"), found: true}
	rl := New(fr, zerolog.Nop())
	if _, err := rl.Prompt(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
	st := rl.Status()
	if st.RunsTotal != 1 || st.FailuresTotal != 1 {
		t.Fatalf("counters: %+v", st)
	}
	if st.LastError == "" {
		t.Fatalf("expected last error")
	}
	if !st.Ready || !st.Runner.Found {
		t.Fatalf("expected ready: %+v", st)
	}
}

func TestPrompt_CancelNotCountedAsFailure(t *testing.T) {
	fr := &fakeRunner{err: runner.ErrCanceled(context.Canceled)}
	rl := New(fr, zerolog.Nop())
	_, err := rl.Prompt(context.Background(), "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	st := rl.Status()
	if st.RunsTotal != 1 || st.FailuresTotal != 0 || st.LastError != "" {
		t.Fatalf("cancel counted as failure: %+v", st)
	}
}

func TestReady(t *testing.T) {
	if New(&fakeRunner{found: false}, zerolog.Nop()).Ready() {
		t.Fatalf("expected not ready")
	}
	if !New(&fakeRunner{found: true}, zerolog.Nop()).Ready() {
		t.Fatalf("expected ready")
	}
}

func TestStatus_Inflight(t *testing.T) {
	st := New(&fakeRunner{inflight: 2}, zerolog.Nop()).Status()
	if st.Inflight != 2 || st.ServerTimeUnix == 0 {
		t.Fatalf("status: %+v", st)
	}
}
