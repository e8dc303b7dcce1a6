package types

// PromptRequest is the body accepted by POST /llama.
type PromptRequest struct {
	// Prompt text forwarded verbatim to the model runner. Absent means "".
	// example: Write a haiku about the ocean.
	Input string `json:"input" example:"Write a haiku about the ocean."`
}

// PromptResponse is returned by POST /llama on success.
type PromptResponse struct {
	// Runner standard output with surrounding whitespace removed.
	// example: Waves fold into foam
	Response string `json:"response" example:"Waves fold into foam"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// SanityReport describes whether the external runner can be invoked.
type SanityReport struct {
	// Configured runner executable (as given, before PATH lookup).
	// example: ollama
	Bin string `json:"bin" example:"ollama"`
	// Whether the executable resolved to a runnable file.
	// example: true
	Found bool `json:"found" example:"true"`
	// Resolved absolute path of the executable.
	// example: /usr/local/bin/ollama
	Path string `json:"path,omitempty" example:"/usr/local/bin/ollama"`
	// Model identifier passed to the runner.
	// example: meta-llama/Llama-2-7b-chat-hf
	Model string `json:"model" example:"meta-llama/Llama-2-7b-chat-hf"`
	// Lookup error, if any.
	Error string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Runner resolution report.
	Runner SanityReport `json:"runner"`
	// Whether the relay can currently serve prompts.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Total number of runner invocations.
	// example: 12
	RunsTotal uint64 `json:"runs_total" example:"12"`
	// Number of invocations that ended in an error.
	// example: 1
	FailuresTotal uint64 `json:"failures_total" example:"1"`
	// Number of invocations currently running.
	// example: 0
	Inflight int64 `json:"inflight" example:"0"`
	// Last error observed by the relay (if any).
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
