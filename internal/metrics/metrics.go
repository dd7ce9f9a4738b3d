// Package metrics exports submission and HTTP metrics to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-intake/pkg/submission"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	attemptsTotal      prometheus.Counter
	outcomesTotal      *prometheus.CounterVec
	attemptDuration    *prometheus.HistogramVec
	inFlight           prometheus.Gauge
	httpRequestsTotal  *prometheus.CounterVec
	httpRequestSeconds *prometheus.HistogramVec
}

// New creates the collectors under namespace and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		attemptsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_attempts_total",
			Help:      "Total number of dispatched workflow submissions",
		}),
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submission_outcomes_total",
			Help:      "Total number of completed submissions by outcome",
		}, []string{"status"}), // status: success, error
		attemptDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time from dispatch to outcome in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "submissions_in_flight",
			Help:      "Submissions currently awaiting a response",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		}, []string{"route", "method", "code"}),
		httpRequestSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	var err error
	if m.attemptsTotal, err = register(reg, m.attemptsTotal); err != nil {
		return nil, err
	}
	if m.outcomesTotal, err = register(reg, m.outcomesTotal); err != nil {
		return nil, err
	}
	if m.attemptDuration, err = register(reg, m.attemptDuration); err != nil {
		return nil, err
	}
	if m.inFlight, err = register(reg, m.inFlight); err != nil {
		return nil, err
	}
	if m.httpRequestsTotal, err = register(reg, m.httpRequestsTotal); err != nil {
		return nil, err
	}
	if m.httpRequestSeconds, err = register(reg, m.httpRequestSeconds); err != nil {
		return nil, err
	}
	return m, nil
}

// register returns the already registered collector when an identical one
// exists, so a second New against the same registry shares series.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Observe records a controller transition. It satisfies submission.Observer.
func (m *Metrics) Observe(tr submission.Transition) {
	switch tr.To {
	case submission.StatusLoading:
		m.attemptsTotal.Inc()
		m.inFlight.Inc()
	case submission.StatusSuccess, submission.StatusError:
		m.inFlight.Dec()
		m.outcomesTotal.WithLabelValues(string(tr.To)).Inc()
		m.attemptDuration.WithLabelValues(string(tr.To)).Observe(tr.Elapsed.Seconds())
	}
}

// Middleware records request counts and latency keyed by the matched mux
// route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := routeTemplate(r)
		m.httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.httpRequestSeconds.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func routeTemplate(r *http.Request) string {
	if current := mux.CurrentRoute(r); current != nil {
		if tpl, err := current.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
