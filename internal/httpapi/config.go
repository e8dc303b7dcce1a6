package httpapi

import (
	"net/http"

	"github.com/go-chi/cors"
)

const defaultMaxBodyBytes int64 = 1 << 20

var maxBodyBytes = defaultMaxBodyBytes

// SetMaxBodyBytes bounds the size of a /llama request body.
// Non-positive values restore the 1 MiB default.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		n = defaultMaxBodyBytes
	}
	maxBodyBytes = n
}

// CORS is the cross-origin policy applied by routers built after SetCORS.
// No origins means CORS handling is off.
type CORS struct {
	Origins []string
	Methods []string
	Headers []string
}

var corsPolicy CORS

// SetCORS installs p. Empty Methods or Headers get what browsers need to
// call POST /llama.
func SetCORS(p CORS) {
	p.Origins = append([]string(nil), p.Origins...)
	if len(p.Methods) == 0 {
		p.Methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(p.Headers) == 0 {
		p.Headers = []string{"Content-Type", "X-Log-Level", "X-Request-Id"}
	}
	corsPolicy = p
}

func (p CORS) middleware() func(http.Handler) http.Handler {
	if len(p.Origins) == 0 {
		return nil
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: p.Origins,
		AllowedMethods: p.Methods,
		AllowedHeaders: p.Headers,
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
