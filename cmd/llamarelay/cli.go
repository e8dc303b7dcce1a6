package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llamarelay/internal/config"
	"llamarelay/internal/httpapi"
	"llamarelay/internal/logging"
	"llamarelay/internal/relay"
	"llamarelay/internal/runner"
)

const shutdownTimeout = 5 * time.Second

// newRootCmd constructs the command tree. Running the root command serves HTTP.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "llamarelay",
		Short:         "Relay prompts over HTTP to a local model runner",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (.yaml, .yml, .json, .toml); defaults to LLAMARELAY_CONFIG")
	pf.String("runner-bin", "", "Runner executable (default "+config.DefaultRunnerBin+")")
	pf.String("runner-subcommand", "", "Runner subcommand (default "+config.DefaultRunnerSubcommand+")")
	pf.String("model", "", "Model identifier passed to the runner (default "+config.DefaultModel+")")
	pf.StringArray("runner-arg", nil, "Extra runner argument placed before the prompt (repeatable)")
	pf.Int("timeout-seconds", 0, "Kill the runner after this many seconds (0 = no timeout)")
	pf.Int64("max-output-bytes", 0, "Cap on captured runner stdout (0 = unbounded)")
	pf.String("log-level", "", "Log level: trace|debug|info|warn|error")
	pf.String("log-format", "", "Log format: json|console")
	pf.String("log-file", "", "Also write logs to this rotated file")

	addServeFlags(root)
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /llama (default command)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd)
		},
	}
	addServeFlags(serve)

	check := &cobra.Command{
		Use:   "check",
		Short: "Report whether the runner executable can be found",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			rep := runner.New(runnerConfig(cfg), zerolog.Nop()).Sanity()
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if !rep.Found {
				return fmt.Errorf("runner %q not usable: %s", rep.Bin, rep.Error)
			}
			return nil
		},
	}

	ask := &cobra.Command{
		Use:     "ask [prompt...]",
		Short:   "Run one prompt through the runner and print the trimmed output",
		Example: "  llamarelay ask Why is the sky blue?\n  echo 'hello' | llamarelay ask",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			log, closer, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closer.Close()
			prompt := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read prompt: %w", err)
				}
				// Drop the newline that ends piped input; anything before it is kept.
				prompt = strings.TrimSuffix(strings.TrimSuffix(string(b), "\n"), "\r")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			out, err := relay.New(runner.New(runnerConfig(cfg), log), log).Prompt(ctx, prompt)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	root.AddCommand(serve, check, ask)
	return root
}

func addServeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("addr", "", "HTTP listen address (default "+config.DefaultAddr+")")
	f.Int64("max-body-bytes", 0, "Maximum request body size (default 1MiB)")
	f.StringSlice("cors-origins", nil, "Enable CORS for these origins (comma separated)")
	f.String("request-log", "", "Per-request log level: off|error|info|debug")
}

// loadConfig layers defaults < config file < LLAMARELAY_* env < flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv("LLAMARELAY_CONFIG")
	}
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = fileCfg
	}
	envCfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	cfg = config.Merge(cfg, envCfg)
	cfg = config.Merge(cfg, flagConfig(cmd))
	return cfg.WithDefaults(), nil
}

// flagConfig collects only the flags the user actually set.
func flagConfig(cmd *cobra.Command) config.Config {
	var c config.Config
	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Lookup(name) != nil && f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	str("addr", &c.Addr)
	str("runner-bin", &c.RunnerBin)
	str("runner-subcommand", &c.RunnerSubcommand)
	str("model", &c.Model)
	str("log-level", &c.LogLevel)
	str("log-format", &c.LogFormat)
	str("log-file", &c.LogFile)
	str("request-log", &c.RequestLog)
	if f.Changed("runner-arg") {
		c.RunnerArgs, _ = f.GetStringArray("runner-arg")
	}
	if f.Changed("timeout-seconds") {
		c.TimeoutSeconds, _ = f.GetInt("timeout-seconds")
	}
	if f.Changed("max-output-bytes") {
		c.MaxOutputBytes, _ = f.GetInt64("max-output-bytes")
	}
	if f.Lookup("max-body-bytes") != nil && f.Changed("max-body-bytes") {
		c.MaxBodyBytes, _ = f.GetInt64("max-body-bytes")
	}
	if f.Lookup("cors-origins") != nil && f.Changed("cors-origins") {
		c.CORSOrigins, _ = f.GetStringSlice("cors-origins")
	}
	return c
}

func runnerConfig(cfg config.Config) runner.Config {
	return runner.Config{
		Bin:            cfg.RunnerBin,
		Subcommand:     cfg.RunnerSubcommand,
		Model:          cfg.Model,
		ExtraArgs:      cfg.RunnerArgs,
		Timeout:        time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxOutputBytes: cfg.MaxOutputBytes,
	}
}

func newLogger(cfg config.Config, out io.Writer) (zerolog.Logger, io.Closer, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile, Out: out})
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	rn := runner.New(runnerConfig(cfg), log)
	if rep := rn.Sanity(); !rep.Found {
		// Keep serving; /readyz reports 503 and requests fail with 500 until it appears.
		log.Warn().Str("bin", rep.Bin).Str("error", rep.Error).Msg("runner not found")
	}
	svc := relay.New(rn, log)

	httpapi.SetLogger(log)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestLogLevel(cfg.RequestLog)
	httpapi.SetCORS(httpapi.CORS{Origins: cfg.CORSOrigins})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	httpapi.SetBaseContext(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("runner", cfg.RunnerBin).Str("model", cfg.Model).Msg("llamarelay listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
