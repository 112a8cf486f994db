package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unirecommender_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"}, // "success", "failure", "invalid"
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "unirecommender_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	StageFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unirecommender_stage_fallbacks_total",
			Help: "Deterministic fallbacks taken by LLM-backed stages",
		},
		[]string{"stage", "reason"}, // reason: "unavailable", "request_failed", "unparseable"
	)

	GatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unirecommender_gateway_requests_total",
			Help: "LLM gateway calls by outcome",
		},
		[]string{"outcome"}, // "success", "unavailable", "failed", "rejected", "invalid"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "unirecommender_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CatalogQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unirecommender_catalog_queries_total",
			Help: "Catalog queries by operation and status",
		},
		[]string{"operation", "status"},
	)
)

// WriteText dumps every registered metric family in the Prometheus text format.
func WriteText(w io.Writer, gatherer prometheus.Gatherer) error {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})

	for _, mf := range families {
		if !ownFamily(mf) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func ownFamily(mf *dto.MetricFamily) bool {
	return strings.HasPrefix(mf.GetName(), "unirecommender_")
}

// StatusLabel maps an error to the "status" label used by catalog counters.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
