// Package runner invokes the external model runner (ollama by default) as a
// child process and captures what it prints.
//
// One call to Run is one process: there is no pooling, reuse or retry. The
// prompt is always passed as the final argv element, never through a shell.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"llamarelay/internal/common/fsutil"
	"llamarelay/pkg/types"
)

// stderrTailBytes bounds how much runner stderr is kept for error messages.
const stderrTailBytes = 4096

// waitDelay is how long Wait may block on inherited pipes after the process
// has been killed.
const waitDelay = 2 * time.Second

// Config describes how to invoke the runner.
type Config struct {
	Bin        string
	Subcommand string
	Model      string
	// ExtraArgs are inserted after the model and before the prompt.
	ExtraArgs []string
	// Timeout bounds a single run; zero means wait indefinitely.
	Timeout time.Duration
	// MaxOutputBytes caps captured stdout; zero means unbounded.
	MaxOutputBytes int64
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	Stdout    string
	Stderr    string
	Truncated bool
	Duration  time.Duration
}

// Runner runs prompts through the configured executable.
type Runner struct {
	cfg      Config
	bin      string
	log      zerolog.Logger
	inflight atomic.Int64
}

// New constructs a Runner. A leading '~' in Bin is expanded.
func New(cfg Config, log zerolog.Logger) *Runner {
	bin := strings.TrimSpace(cfg.Bin)
	if p, err := fsutil.ExpandHome(bin); err == nil {
		bin = p
	}
	cfg.ExtraArgs = append([]string(nil), cfg.ExtraArgs...)
	return &Runner{cfg: cfg, bin: bin, log: log.With().Str("component", "runner").Logger()}
}

// Config returns a copy of the runner configuration.
func (r *Runner) Config() Config {
	c := r.cfg
	c.ExtraArgs = append([]string(nil), r.cfg.ExtraArgs...)
	return c
}

// Inflight returns the number of runs currently executing.
func (r *Runner) Inflight() int64 { return r.inflight.Load() }

// Args returns the argv (without the executable) used for prompt.
func (r *Runner) Args(prompt string) []string {
	args := make([]string, 0, 3+len(r.cfg.ExtraArgs))
	if r.cfg.Subcommand != "" {
		args = append(args, r.cfg.Subcommand)
	}
	if r.cfg.Model != "" {
		args = append(args, r.cfg.Model)
	}
	args = append(args, r.cfg.ExtraArgs...)
	return append(args, prompt)
}

// Run executes the runner once with prompt and blocks until it exits.
// Canceling ctx kills the child process.
func (r *Runner) Run(ctx context.Context, prompt string) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := r.log.With().Str("run_id", res.RunID).Logger()

	runCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	stdout := &capBuffer{max: r.cfg.MaxOutputBytes}
	stderr := &tailBuffer{max: stderrTailBytes}
	cmd := exec.CommandContext(runCtx, r.bin, r.Args(prompt)...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	log.Debug().Str("bin", r.bin).Int("prompt_bytes", len(prompt)).Msg("runner start")
	r.inflight.Add(1)
	runsInflight.Inc()
	start := time.Now()
	err := cmd.Run()
	res.Duration = time.Since(start)
	runsInflight.Dec()
	r.inflight.Add(-1)

	res.Stdout = stdout.String()
	res.Stderr = strings.TrimSpace(stderr.String())
	res.Truncated = stdout.truncated
	err = r.classify(ctx, runCtx, err, res.Stderr)

	label := resultLabel(err)
	runsTotal.WithLabelValues(label).Inc()
	runDuration.WithLabelValues(label).Observe(res.Duration.Seconds())

	ev := log.Info()
	if err != nil && !IsCanceled(err) {
		ev = log.Warn().Err(err)
	}
	ev.Str("result", label).Dur("dur", res.Duration).Int("stdout_bytes", len(res.Stdout)).Bool("truncated", res.Truncated).Msg("runner end")
	if res.Truncated {
		log.Warn().Int64("max_output_bytes", r.cfg.MaxOutputBytes).Msg("runner stdout truncated")
	}
	return res, err
}

// classify maps a raw cmd.Run error onto the package error kinds.
func (r *Runner) classify(parent, runCtx context.Context, err error, stderr string) error {
	if err == nil {
		return nil
	}
	if parent.Err() != nil {
		return canceledError{cause: parent.Err()}
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return ErrTimeout(r.cfg.Timeout)
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		return ErrExit(ee.ExitCode(), stderr)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return ErrNotFound(r.bin, err)
	}
	return fmt.Errorf("run %s: %w", r.bin, err)
}

// Sanity reports whether the runner executable currently resolves.
func (r *Runner) Sanity() types.SanityReport {
	rep := types.SanityReport{Bin: r.cfg.Bin, Model: r.cfg.Model}
	p, err := fsutil.ResolveExecutable(r.bin)
	if err != nil {
		rep.Error = err.Error()
		return rep
	}
	rep.Found = true
	rep.Path = p
	return rep
}

// capBuffer keeps at most max bytes (0 = unlimited) and drops the rest.
// It never returns a short write so the child is not killed by EPIPE.
type capBuffer struct {
	buf       bytes.Buffer
	max       int64
	truncated bool
}

func (b *capBuffer) Write(p []byte) (int, error) {
	if b.max <= 0 {
		return b.buf.Write(p)
	}
	room := b.max - int64(b.buf.Len())
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if int64(len(p)) > room {
		b.buf.Write(p[:room])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *capBuffer) String() string { return b.buf.String() }

// tailBuffer keeps the last max bytes written.
type tailBuffer struct {
	buf []byte
	max int
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
	}
	return len(p), nil
}

func (b *tailBuffer) String() string { return string(b.buf) }
