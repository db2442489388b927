package observability

import (
	"io"
	"net/http"
	"strconv"
	"time"
)

// Metrics holds the process counters exposed in Prometheus text format.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	apiRequests *counterVec
	apiLatency  *histogramVec
	apiInflight *gaugeVec

	llmAttempts *counterVec
	llmLatency  *histogramVec

	quizGenerations *counterVec
	quizSubmissions *counterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: newCounterVec("lp_api_requests_total", "API requests by method/route/status.", "method", "route", "status"),
		apiLatency: newHistogramVec("lp_api_request_duration_seconds", "API request latency in seconds.",
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}, "method", "route"),
		apiInflight: newGaugeVec("lp_api_inflight_requests", "In-flight API requests."),

		llmAttempts: newCounterVec("lp_llm_attempts_total", "LLM model attempts by model/outcome.", "model", "outcome"),
		llmLatency: newHistogramVec("lp_llm_attempt_duration_seconds", "LLM attempt latency in seconds.",
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120}, "model"),

		quizGenerations: newCounterVec("lp_quiz_generations_total", "Quiz generation requests by outcome.", "outcome"),
		quizSubmissions: newCounterVec("lp_quiz_submissions_total", "Scored quiz submissions.", "result"),
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.add(1, method, route, strconv.Itoa(status))
	m.apiLatency.observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.add(delta)
}

// ObserveLLMAttempt records one model attempt. outcome is "ok" or "error".
func (m *Metrics) ObserveLLMAttempt(model, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmAttempts.add(1, model, outcome)
	m.llmLatency.observe(dur.Seconds(), model)
}

// IncQuizGeneration counts a generation request by outcome: created, existing or failed.
func (m *Metrics) IncQuizGeneration(outcome string) {
	if m == nil {
		return
	}
	m.quizGenerations.add(1, outcome)
}

func (m *Metrics) IncQuizSubmission(passed bool) {
	if m == nil {
		return
	}
	result := "below_threshold"
	if passed {
		result = "passed"
	}
	m.quizSubmissions.add(1, result)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []writer{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmAttempts, m.llmLatency,
		m.quizGenerations, m.quizSubmissions,
	} {
		if err := c.write(w); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP exposes the metrics page.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}
