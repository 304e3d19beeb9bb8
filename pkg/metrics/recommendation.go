package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder publishes recommendation pipeline metrics on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	tokens   *prometheus.CounterVec
}

// NewRecorder registers the collectors. Each call yields an isolated registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lawn_advisor",
			Name:      "recommendation_requests_total",
			Help:      "Recommendation requests by boundary status and error kind.",
		}, []string{"status", "kind"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lawn_advisor",
			Name:      "recommendation_duration_seconds",
			Help:      "End to end latency of recommendation requests.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"status"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lawn_advisor",
			Name:      "llm_tokens_total",
			Help:      "Tokens reported by the upstream model.",
		}, []string{"direction"}),
	}
	registry.MustRegister(r.requests, r.latency, r.tokens)
	registry.MustRegister(collectors.NewGoCollector())
	return r
}

// ObserveRequest records one finished boundary request.
func (r *Recorder) ObserveRequest(status int, kind string, elapsed time.Duration) {
	if r == nil {
		return
	}
	code := strconv.Itoa(status)
	if kind == "" {
		kind = "none"
	}
	r.requests.WithLabelValues(code, kind).Inc()
	r.latency.WithLabelValues(code).Observe(elapsed.Seconds())
}

// ObserveUsage adds upstream token counts.
func (r *Recorder) ObserveUsage(usage TokenUsage) {
	if r == nil || usage.IsZero() {
		return
	}
	r.tokens.WithLabelValues("input").Add(float64(usage.PromptTokens))
	r.tokens.WithLabelValues("output").Add(float64(usage.CompletionTokens))
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
