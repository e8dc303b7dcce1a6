package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"llamarelay/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Prompt(ctx context.Context, input string) (string, error)
	Status() types.StatusResponse
	Ready() bool
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	if mw := corsPolicy.middleware(); mw != nil {
		r.Use(mw)
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Post("/llama", promptHandler(svc))

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, svc.Status())
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("runner unavailable"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// promptHandler relays one prompt.
//
// @Summary      Relay a prompt to the model runner
// @Tags         prompt
// @Accept       json
// @Produce      json
// @Param        request  body      types.PromptRequest  true  "Prompt"
// @Success      200      {object}  types.PromptResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      415      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      504      {object}  types.ErrorResponse
// @Router       /llama [post]
func promptHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isJSONMediaType(r.Header.Get("Content-Type")) {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		// MaxBytesReader overflow surfaces as a decode error and is reported as 400.
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		var req types.PromptRequest
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		// The body must hold exactly one JSON value.
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		log := requestLogger(r, middleware.GetReqID(r.Context()))
		start := time.Now()
		log.Info().Str("path", r.URL.Path).Int("input_bytes", len(req.Input)).Msg("prompt start")
		log.Debug().Str("input", req.Input).Msg("prompt input")

		ctx, cancel := promptContext(r)
		defer cancel()
		out, err := svc.Prompt(ctx, req.Input)
		if err != nil {
			if abandoned(r) {
				promptsAbandoned.Inc()
				log.Info().Dur("dur", time.Since(start)).Msg("prompt abandoned")
				return
			}
			status := statusFor(err)
			writeJSONError(w, status, err.Error())
			log.Error().Err(err).Int("status", status).Dur("dur", time.Since(start)).Msg("prompt end")
			return
		}

		writeJSON(w, types.PromptResponse{Response: out})
		log.Info().Int("status", http.StatusOK).Dur("dur", time.Since(start)).Int("response_bytes", len(out)).Msg("prompt end")
		log.Debug().Str("response", out).Msg("prompt output")
	}
}

// isJSONMediaType accepts application/json and any application/*+json type.
func isJSONMediaType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}
