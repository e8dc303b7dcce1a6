package httpapi

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// zlog stays silent until SetLogger installs the process logger.
var zlog = zerolog.Nop()

// SetLogger replaces the HTTP layer's logger.
func SetLogger(l zerolog.Logger) { zlog = l.With().Str("component", "httpapi").Logger() }

// requestLevel is the prompt log level used when a request has no override.
var requestLevel = zerolog.InfoLevel

// SetRequestLogLevel sets the default prompt log level by name. Accepts any
// zerolog level name plus "off"; unknown names mean info.
func SetRequestLogLevel(s string) { requestLevel = parseRequestLevel(s, zerolog.InfoLevel) }

func parseRequestLevel(s string, fallback zerolog.Level) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return fallback
	case "off", "none", "disabled":
		return zerolog.Disabled
	case "1":
		return zerolog.DebugLevel
	}
	l, err := zerolog.ParseLevel(s)
	if err != nil || l == zerolog.NoLevel {
		return fallback
	}
	return l
}

// requestLogger returns zlog filtered to the level asked for by ?log= or
// X-Log-Level, tagged with the chi request id.
func requestLogger(r *http.Request, rid string) zerolog.Logger {
	lvl := requestLevel
	if v := r.URL.Query().Get("log"); v != "" {
		lvl = parseRequestLevel(v, lvl)
	} else if v := r.Header.Get("X-Log-Level"); v != "" {
		lvl = parseRequestLevel(v, lvl)
	}
	c := zlog.Level(lvl).With()
	if rid != "" {
		c = c.Str("request_id", rid)
	}
	return c.Logger()
}
