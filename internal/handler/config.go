package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/munnerz/goautoneg"

	"lti-provider/internal/config"
	"lti-provider/internal/digest"
	"lti-provider/internal/metrics"
	"lti-provider/internal/model"
)

// handleConfigXML returns the tool provider configuration document.
// GET /lti/config.xml
func (h *Handler) handleConfigXML(w http.ResponseWriter, r *http.Request) {
	if accept := r.Header.Get("Accept"); !acceptsXML(accept) {
		metrics.RecordConfigRequest(metrics.ResultNotAcceptable)
		h.writeError(w, model.NewNotAcceptableError(accept))
		return
	}

	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "public, max-age=300")

	if etagMatches(r.Header.Get("If-None-Match"), h.etag) {
		metrics.RecordConfigRequest(metrics.ResultNotModified)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	metrics.RecordConfigRequest(metrics.ResultServed)
	h.writeXML(w, http.StatusOK, h.doc, h.digest)
}

// handleRender renders a posted tool definition without touching the served document.
// POST /lti/render
func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	var tool config.ToolConfig
	if err := decodeJSON(r, &tool); err != nil {
		h.writeError(w, err)
		return
	}

	b, err := tool.Build()
	metrics.RecordRender("http", err)
	if err != nil {
		h.writeError(w, err)
		return
	}

	doc := []byte(b.Render())
	contentDigest, err := digest.Compute(doc)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Debug("rendered tool configuration",
		slog.String("tool_id", b.ID()),
		slog.Int("placements", len(b.ConfiguredOptions())),
	)

	h.writeXML(w, http.StatusOK, doc, contentDigest)
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", ToolID: h.tool.ID()})
}

type healthResponse struct {
	Status string `json:"status"`
	ToolID string `json:"tool_id"`
}

// acceptsXML reports whether an Accept header admits the XML document.
// The most specific range naming the document decides; ties take the highest q.
// application/xml and text/xml are the same representation.
func acceptsXML(accept string) bool {
	if strings.TrimSpace(accept) == "" {
		return true
	}
	best, q := -1, 0.0
	for _, r := range goautoneg.ParseAccept(strings.ToLower(accept)) {
		s := xmlSpecificity(r)
		switch {
		case s > best:
			best, q = s, r.Q
		case s == best && r.Q > q:
			q = r.Q
		}
	}
	return best >= 0 && q > 0
}

// xmlSpecificity ranks how closely a media range names the XML document, or -1.
func xmlSpecificity(r goautoneg.Accept) int {
	switch {
	case r.SubType == "xml" && (r.Type == "application" || r.Type == "text"):
		return 3
	case r.Type == "application" && r.SubType == "*+xml":
		return 2
	case r.SubType == "*" && (r.Type == "application" || r.Type == "text"):
		return 1
	case r.Type == "*" && r.SubType == "*":
		return 0
	}
	return -1
}

// etagMatches implements the weak comparison used by If-None-Match.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
