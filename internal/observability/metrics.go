// Package observability exposes the relay's Prometheus metrics.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type relayMetrics struct {
	turnsTotal          *prometheus.CounterVec
	turnDuration        *prometheus.HistogramVec
	transcriptionsTotal *prometheus.CounterVec
	synthesisBytesTotal prometheus.Counter

	activeConnections prometheus.Gauge
	activeSessions    prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metricsInst *relayMetrics
)

func getMetrics() *relayMetrics {
	metricsOnce.Do(func() {
		m := &relayMetrics{
			turnsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "turns_total",
					Help: "Total tutoring turns by mode and status.",
				},
				[]string{"mode", "status"},
			),
			turnDuration: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "turn_duration_seconds",
					Help:    "End-to-end turn duration in seconds by mode.",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"mode"},
			),
			transcriptionsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "transcriptions_total",
					Help: "Total transcription requests by status.",
				},
				[]string{"status"},
			),
			synthesisBytesTotal: prometheus.NewCounter(
				prometheus.CounterOpts{
					Name: "synthesis_bytes_total",
					Help: "Total synthesized audio bytes delivered.",
				},
			),
			activeConnections: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "active_connections",
					Help: "Current connected client count.",
				},
			),
			activeSessions: prometheus.NewGauge(
				prometheus.GaugeOpts{
					Name: "active_sessions",
					Help: "Current active roleplay session count.",
				},
			),
		}

		prometheus.MustRegister(
			m.turnsTotal,
			m.turnDuration,
			m.transcriptionsTotal,
			m.synthesisBytesTotal,
			m.activeConnections,
			m.activeSessions,
		)

		metricsInst = m
	})

	return metricsInst
}

// EnsureRegistered initializes and registers metrics the first time it is called.
func EnsureRegistered() {
	_ = getMetrics()
}

func MetricsHandler() http.Handler {
	EnsureRegistered()
	return promhttp.Handler()
}

func RecordTurn(mode, status string, duration time.Duration) {
	m := getMetrics()
	m.turnsTotal.WithLabelValues(mode, status).Inc()
	m.turnDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func RecordTranscription(status string) {
	getMetrics().transcriptionsTotal.WithLabelValues(status).Inc()
}

func RecordSynthesisBytes(n int) {
	getMetrics().synthesisBytesTotal.Add(float64(n))
}

func SetActiveConnections(n int) {
	getMetrics().activeConnections.Set(float64(n))
}

func SetActiveSessions(n int) {
	getMetrics().activeSessions.Set(float64(n))
}
