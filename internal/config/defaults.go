package config

// Defaults listen on every interface at port 5000 and run
// `ollama run <model> <prompt>` with no timeout.
const (
	DefaultAddr             = "0.0.0.0:5000"
	DefaultRunnerBin        = "ollama"
	DefaultRunnerSubcommand = "run"
	DefaultModel            = "meta-llama/Llama-2-7b-chat-hf"
	DefaultMaxBodyBytes     = 1 << 20
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultRequestLog       = "info"
)

// Defaults returns a Config populated with default values.
func Defaults() Config {
	return Config{
		Addr:             DefaultAddr,
		RunnerBin:        DefaultRunnerBin,
		RunnerSubcommand: DefaultRunnerSubcommand,
		Model:            DefaultModel,
		MaxBodyBytes:     DefaultMaxBodyBytes,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
		RequestLog:       DefaultRequestLog,
	}
}

// WithDefaults fills unspecified fields and normalizes negative limits.
func (c Config) WithDefaults() Config {
	out := Merge(Defaults(), c)
	if out.TimeoutSeconds < 0 {
		out.TimeoutSeconds = 0
	}
	if out.MaxOutputBytes < 0 {
		out.MaxOutputBytes = 0
	}
	if out.MaxBodyBytes < 0 {
		out.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return out
}
