// Package relay implements the prompt relay: forward one prompt to the model
// runner and hand back its trimmed output.
package relay

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"llamarelay/internal/runner"
	"llamarelay/pkg/types"
)

// Runner is the process boundary used by the relay.
type Runner interface {
	Run(ctx context.Context, prompt string) (runner.Result, error)
	Sanity() types.SanityReport
	Inflight() int64
}

// Relay serves prompts. It is safe for concurrent use; each call blocks for
// the full runner invocation.
type Relay struct {
	runner    Runner
	log       zerolog.Logger
	startTime time.Time

	runs     atomic.Uint64
	failures atomic.Uint64

	mu      sync.RWMutex
	lastErr string
}

// New constructs a Relay around r.
func New(r Runner, log zerolog.Logger) *Relay {
	return &Relay{runner: r, log: log.With().Str("component", "relay").Logger(), startTime: time.Now()}
}

// Prompt runs input through the runner and returns stdout with leading and
// trailing whitespace removed. Invalid UTF-8 in the output is replaced with
// U+FFFD so the result is always encodable as JSON text.
func (r *Relay) Prompt(ctx context.Context, input string) (string, error) {
	r.runs.Add(1)
	res, err := r.runner.Run(ctx, input)
	if err != nil {
		if !runner.IsCanceled(err) {
			r.failures.Add(1)
			r.setLastError(err)
		}
		return "", err
	}
	out := strings.TrimSpace(res.Stdout)
	if !utf8.ValidString(out) {
		r.log.Warn().Str("run_id", res.RunID).Msg("runner output is not valid UTF-8; replacing invalid bytes")
		out = strings.ToValidUTF8(out, "\uFFFD")
	}
	return out, nil
}

// Ready reports whether the runner executable resolves.
func (r *Relay) Ready() bool { return r.runner.Sanity().Found }

// Status summarizes the relay for GET /status.
func (r *Relay) Status() types.StatusResponse {
	rep := r.runner.Sanity()
	r.mu.RLock()
	lastErr := r.lastErr
	r.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		Runner:         rep,
		Ready:          rep.Found,
		RunsTotal:      r.runs.Load(),
		FailuresTotal:  r.failures.Load(),
		Inflight:       r.runner.Inflight(),
		LastError:      lastErr,
		UptimeSeconds:  int64(now.Sub(r.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}

func (r *Relay) setLastError(err error) {
	r.mu.Lock()
	r.lastErr = err.Error()
	r.mu.Unlock()
}
