// Package handler provides HTTP handlers for the LTI tool provider service.
package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lti-provider/internal/digest"
	"lti-provider/internal/lti"
	"lti-provider/internal/metrics"
	"lti-provider/internal/model"
)

// Handler holds dependencies for HTTP handlers.
// The configuration document is rendered once in New; handlers only read it.
type Handler struct {
	tool   *lti.ConfigurationBuilder
	doc    []byte
	etag   string
	digest string
	logger *slog.Logger
}

// New creates a Handler serving the document rendered from tool.
func New(tool *lti.ConfigurationBuilder, logger *slog.Logger) (*Handler, error) {
	doc := []byte(tool.Render())

	contentDigest, err := digest.Compute(doc)
	if err != nil {
		return nil, fmt.Errorf("computing content digest: %w", err)
	}
	metrics.DocumentBytes.Set(float64(len(doc)))

	return &Handler{
		tool:   tool,
		doc:    doc,
		etag:   entityTag(doc),
		digest: contentDigest,
		logger: logger,
	}, nil
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Tool provider configuration consumed by the LMS
	mux.HandleFunc("GET /lti/config.xml", h.handleConfigXML)

	// Ad-hoc rendering of a posted tool definition
	mux.HandleFunc("POST /lti/render", h.handleRender)

	// MCP transport - JSON-RPC endpoint using official MCP SDK
	mux.Handle("/mcp", h.NewMCPHandler())

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)
}

// entityTag derives a strong ETag from the document bytes.
func entityTag(doc []byte) string {
	sum := sha256.Sum256(doc)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeXML sends an XML document with its digest.
func (h *Handler) writeXML(w http.ResponseWriter, status int, doc []byte, contentDigest string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if contentDigest != "" {
		w.Header().Set(digest.Header, contentDigest)
	}
	w.WriteHeader(status)
	if _, err := w.Write(doc); err != nil {
		h.logger.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from the error chain.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	apiErr := model.FromError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}
