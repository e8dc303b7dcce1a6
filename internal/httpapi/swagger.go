//go:build swagger

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "llamarelay API",
	Description:      "Relays a prompt to a local command-line model runner.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/llama": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["prompt"],
                "summary": "Relay a prompt to the model runner",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PromptRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PromptResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "500": {"description": "Runner missing or failed", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "504": {"description": "Runner timed out", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Relay status",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/healthz": {"get": {"tags": ["ops"], "summary": "Liveness", "responses": {"200": {"description": "ok"}}}},
        "/readyz": {"get": {"tags": ["ops"], "summary": "Readiness", "responses": {"200": {"description": "ready"}, "503": {"description": "runner unavailable"}}}}
    },
    "definitions": {
        "types.PromptRequest": {"type": "object", "properties": {"input": {"type": "string", "example": "Write a haiku about the ocean."}}},
        "types.PromptResponse": {"type": "object", "properties": {"response": {"type": "string", "example": "Waves fold into foam"}}},
        "types.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "integer"}}},
        "types.SanityReport": {"type": "object", "properties": {
            "bin": {"type": "string"}, "found": {"type": "boolean"}, "path": {"type": "string"},
            "model": {"type": "string"}, "error": {"type": "string"}}},
        "types.StatusResponse": {"type": "object", "properties": {
            "runner": {"$ref": "#/definitions/types.SanityReport"},
            "ready": {"type": "boolean"}, "runs_total": {"type": "integer"}, "failures_total": {"type": "integer"},
            "inflight": {"type": "integer"}, "last_error": {"type": "string"},
            "uptime_seconds": {"type": "integer"}, "server_time_unix": {"type": "integer"}}}
    }
}`
