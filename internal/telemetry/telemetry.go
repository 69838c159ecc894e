// Package telemetry exports rewind and session metrics to prometheus.
package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/timeslip/internal/rewind"
)

// Metrics holds the timeslip collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	rewinds        prometheus.Counter
	rewindDuration prometheus.Histogram
	rewindProgress prometheus.Gauge
	sessions       *prometheus.CounterVec
	activeSessions prometheus.Gauge
	runs           *prometheus.CounterVec

	now func() time.Time
}

// New registers the collectors with reg.
func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		rewinds: f.NewCounter(prometheus.CounterOpts{
			Name: "timeslip_rewinds_total",
			Help: "Total number of rewinds started",
		}),
		rewindDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "timeslip_rewind_duration_seconds",
			Help:    "Wall-clock length of each rewind",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		rewindProgress: f.NewGauge(prometheus.GaugeOpts{
			Name: "timeslip_rewind_progress",
			Help: "Last published rewind progress, 0 live to 1 at the oldest moment",
		}),
		sessions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "timeslip_sessions_total",
			Help: "Game sessions started, by transport",
		}, []string{"transport"}),
		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "timeslip_active_sessions",
			Help: "Sessions currently connected",
		}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "timeslip_runs_total",
			Help: "Finished runs, by level and result",
		}, []string{"level", "result"}),
		now: time.Now,
	}
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Observe subscribes to c's notifications. The returned func unsubscribes.
func (m *Metrics) Observe(c *rewind.Coordinator) func() {
	if m == nil || c == nil {
		return func() {}
	}

	var (
		mu      sync.Mutex
		started time.Time
	)
	unsubs := []func(){
		c.OnRewindStart(func() {
			mu.Lock()
			started = m.now()
			mu.Unlock()
			m.rewinds.Inc()
		}),
		c.OnRewindStop(func() {
			mu.Lock()
			d := m.now().Sub(started)
			mu.Unlock()
			m.rewindDuration.Observe(d.Seconds())
			m.rewindProgress.Set(0)
		}),
		c.OnRewindProgress(func(p float64) {
			m.rewindProgress.Set(p)
		}),
	}
	return func() {
		for _, fn := range unsubs {
			fn()
		}
	}
}

// SessionStarted counts a new session on transport ("local" or "ssh").
func (m *Metrics) SessionStarted(transport string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(transport).Inc()
	m.activeSessions.Inc()
}

// SessionEnded marks a session as disconnected.
func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// RunFinished counts a finished run.
func (m *Metrics) RunFinished(level string, won bool) {
	if m == nil {
		return
	}
	result := "lost"
	if won {
		result = "won"
	}
	m.runs.WithLabelValues(level, result).Inc()
}
