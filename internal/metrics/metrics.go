// Package metrics exposes Prometheus collectors for the HTTP server, the
// language model streams and the two engines.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mathbuddy"

// Metrics holds every collector the service reports.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	llmStreams  *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
	llmBytes    *prometheus.CounterVec
	llmTokens   *prometheus.CounterVec

	diagnosticSessions *prometheus.CounterVec
	diagnosticAnswers  *prometheus.CounterVec
	tutorTurns         *prometheus.CounterVec
	malformedFrames    prometheus.Counter
}

// New builds the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return MustNewMetrics(reg, reg)
}

// MustNewMetrics registers the collectors with reg and serves them from g.
// Registration errors panic, as promauto does.
func MustNewMetrics(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: g,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, including the full streamed body.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		llmStreams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "streams_total",
			Help:      "Language model streams by provider, purpose and outcome.",
		}, []string{"provider", "purpose", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "stream_duration_seconds",
			Help:      "Time from request to the end of the stream.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"provider"}),
		llmBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "stream_bytes_total",
			Help:      "Bytes read from language model streams.",
		}, []string{"provider"}),
		llmTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Tokens reported by language model streams, by direction.",
		}, []string{"provider", "model", "direction"}),
		diagnosticSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diagnostic",
			Name:      "sessions_total",
			Help:      "Diagnostic sessions by lifecycle event.",
		}, []string{"event"}),
		diagnosticAnswers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diagnostic",
			Name:      "answers_total",
			Help:      "Graded diagnostic answers by domain and correctness.",
		}, []string{"domain", "correct"}),
		tutorTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tutor",
			Name:      "turns_total",
			Help:      "Tutoring turns by outcome.",
		}, []string{"outcome"}),
		malformedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "malformed_frames_total",
			Help:      "Upstream SSE frames dropped because they could not be parsed.",
		}),
	}

	reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.llmStreams, m.llmDuration, m.llmBytes, m.llmTokens,
		m.diagnosticSessions, m.diagnosticAnswers,
		m.tutorTurns, m.malformedFrames,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveStream records one finished language model stream.
func (m *Metrics) ObserveStream(provider, purpose string, success bool, latency time.Duration, bytes int64) {
	if m == nil {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	m.llmStreams.WithLabelValues(provider, purpose, outcome).Inc()
	m.llmDuration.WithLabelValues(provider).Observe(latency.Seconds())
	m.llmBytes.WithLabelValues(provider).Add(float64(bytes))
}

// ObserveTokens records the token usage reported by one stream.
func (m *Metrics) ObserveTokens(provider, model string, input, output int) {
	if m == nil {
		return
	}
	m.llmTokens.WithLabelValues(provider, model, "input").Add(float64(input))
	m.llmTokens.WithLabelValues(provider, model, "output").Add(float64(output))
}

// SessionStarted counts a new diagnostic session.
func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.diagnosticSessions.WithLabelValues("started").Inc()
}

// SessionCompleted counts a finalized diagnostic session.
func (m *Metrics) SessionCompleted() {
	if m == nil {
		return
	}
	m.diagnosticSessions.WithLabelValues("completed").Inc()
}

// AnswerGraded counts a graded diagnostic answer.
func (m *Metrics) AnswerGraded(domain string, correct bool) {
	if m == nil {
		return
	}
	m.diagnosticAnswers.WithLabelValues(domain, strconv.FormatBool(correct)).Inc()
}

// TutorTurn counts a tutoring turn by outcome, e.g. "correct", "incorrect"
// or "error".
func (m *Metrics) TutorTurn(outcome string) {
	if m == nil {
		return
	}
	m.tutorTurns.WithLabelValues(outcome).Inc()
}

// MalformedFrame counts one dropped upstream frame.
func (m *Metrics) MalformedFrame() {
	if m == nil {
		return
	}
	m.malformedFrames.Inc()
}
