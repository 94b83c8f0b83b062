package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/mathbuddy/internal/llm"
)

var (
	_ llm.StreamObserver = (*Metrics)(nil)
	_ llm.TokenObserver  = (*Metrics)(nil)
)

func newTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	return MustNewMetrics(reg, reg)
}

// counter checks the value of a single-series collector.
func counter(t *testing.T, c prometheus.Collector, want float64) {
	t.Helper()
	if got := testutil.ToFloat64(c); got != want {
		t.Errorf("counter = %v, want %v", got, want)
	}
}

func TestObserveStream(t *testing.T) {
	m := newTestMetrics()
	m.ObserveStream("mock", "tutor", true, 120*time.Millisecond, 512)
	m.ObserveStream("mock", "tutor", false, time.Second, 0)

	counter(t, m.llmStreams.WithLabelValues("mock", "tutor", "success"), 1)
	counter(t, m.llmStreams.WithLabelValues("mock", "tutor", "failure"), 1)
	counter(t, m.llmBytes.WithLabelValues("mock"), 512)
}

func TestObserveTokens(t *testing.T) {
	m := newTestMetrics()
	m.ObserveTokens("anthropic", "claude-haiku-4-5-20251001", 40, 9)
	m.ObserveTokens("anthropic", "claude-haiku-4-5-20251001", 10, 1)

	if got := testutil.ToFloat64(m.llmTokens.WithLabelValues("anthropic", "claude-haiku-4-5-20251001", "input")); got != 50 {
		t.Errorf("input tokens = %v, want 50", got)
	}
	if got := testutil.ToFloat64(m.llmTokens.WithLabelValues("anthropic", "claude-haiku-4-5-20251001", "output")); got != 10 {
		t.Errorf("output tokens = %v, want 10", got)
	}
}

func TestDiagnosticCounters(t *testing.T) {
	m := newTestMetrics()
	m.SessionStarted()
	m.SessionStarted()
	m.SessionCompleted()
	m.AnswerGraded("addition", true)
	m.AnswerGraded("addition", false)
	m.AnswerGraded("addition", true)

	counter(t, m.diagnosticSessions.WithLabelValues("started"), 2)
	counter(t, m.diagnosticSessions.WithLabelValues("completed"), 1)
	counter(t, m.diagnosticAnswers.WithLabelValues("addition", "true"), 2)
}

func TestTutorAndMalformed(t *testing.T) {
	m := newTestMetrics()
	m.TutorTurn("correct")
	m.MalformedFrame()
	m.MalformedFrame()

	counter(t, m.tutorTurns.WithLabelValues("correct"), 1)
	counter(t, m.malformedFrames, 2)
}

func TestObserveRequest(t *testing.T) {
	m := newTestMetrics()
	m.ObserveRequest("/healthz", http.MethodGet, 200, time.Millisecond)
	m.ObserveRequest("", http.MethodGet, 404, time.Millisecond)

	counter(t, m.httpRequests.WithLabelValues("/healthz", "GET", "200"), 1)
	counter(t, m.httpRequests.WithLabelValues("unmatched", "GET", "404"), 1)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("/", "GET", 200, 0)
	m.ObserveStream("p", "x", true, 0, 0)
	m.ObserveTokens("p", "m", 1, 1)
	m.SessionStarted()
	m.SessionCompleted()
	m.AnswerGraded("d", true)
	m.TutorTurn("error")
	m.MalformedFrame()
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.SessionStarted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`mathbuddy_diagnostic_sessions_total{event="started"} 1`, "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
