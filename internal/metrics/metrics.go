// Package metrics provides Prometheus metrics for the LTI tool provider service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Labels stay low-cardinality: no tool ids, URLs, or request ids.

// Results recorded for configuration requests.
const (
	ResultServed        = "served"
	ResultNotModified   = "not_modified"
	ResultNotAcceptable = "not_acceptable"
)

// Results recorded for render requests.
const (
	ResultRendered = "rendered"
	ResultInvalid  = "invalid"
)

var (
	// ConfigRequestsTotal counts GET /lti/config.xml outcomes.
	ConfigRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lti_config_requests_total",
		Help: "Total number of configuration document requests, by result.",
	}, []string{"result"})

	// RenderTotal counts ad-hoc renders by source (http, mcp) and result.
	RenderTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lti_render_total",
		Help: "Total number of ad-hoc configuration renders, by source and result.",
	}, []string{"source", "result"})

	// DocumentBytes reports the size of the served configuration document.
	DocumentBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lti_config_document_bytes",
		Help: "Size in bytes of the served configuration document.",
	})
)

// RecordConfigRequest increments the configuration request counter.
func RecordConfigRequest(result string) {
	ConfigRequestsTotal.WithLabelValues(result).Inc()
}

// RecordRender increments the render counter.
func RecordRender(source string, err error) {
	result := ResultRendered
	if err != nil {
		result = ResultInvalid
	}
	RenderTotal.WithLabelValues(source, result).Inc()
}
