package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Question-answering metrics
	Questions     *prometheus.CounterVec
	AnswerLatency prometheus.Histogram

	// Identification metrics
	Identifications       prometheus.Counter
	IdentificationErrors  *prometheus.CounterVec
	IdentificationLatency prometheus.Histogram

	// Submission metrics
	ObservationsSubmitted prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		Questions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wildwatch_questions_total",
			Help: "Total number of questions answered, by answer source",
		}, []string{"mode"}), // "offline" or "rag"

		AnswerLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wildwatch_answer_duration_seconds",
			Help:    "Question answering latency in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30}, // rag mode waits on the generation model
		}),

		Identifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wildwatch_identifications_total",
			Help: "Total number of identification pipeline runs",
		}),

		IdentificationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wildwatch_identification_errors_total",
			Help: "Total number of identification failures by stage",
		}, []string{"stage"}), // "fetch", "classify", "enhance"

		IdentificationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wildwatch_identification_duration_seconds",
			Help:    "Identification pipeline latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),

		ObservationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wildwatch_observations_submitted_total",
			Help: "Total number of observations submitted",
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordQuestion records an answered question by answer source
func (m *Metrics) RecordQuestion(mode string) {
	m.Questions.WithLabelValues(mode).Inc()
}

// RecordAnswerLatency records question answering latency
func (m *Metrics) RecordAnswerLatency(seconds float64) {
	m.AnswerLatency.Observe(seconds)
}

// RecordIdentification records one identification pipeline run
func (m *Metrics) RecordIdentification(seconds float64) {
	m.Identifications.Inc()
	m.IdentificationLatency.Observe(seconds)
}

// RecordIdentificationError records an identification failure by stage
func (m *Metrics) RecordIdentificationError(stage string) {
	m.IdentificationErrors.WithLabelValues(stage).Inc()
}

// RecordObservationSubmitted records a submitted observation
func (m *Metrics) RecordObservationSubmitted() {
	m.ObservationsSubmitted.Inc()
}
