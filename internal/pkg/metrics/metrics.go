// Package metrics exposes Prometheus collectors for HTTP traffic and
// outstanding settlement balances.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	unpaidBase       *prometheus.GaugeVec
	unpaidDays       *prometheus.GaugeVec
	unpaidBaseTotal  prometheus.Gauge
	lastSnapshotUnix prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ktv",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ktv",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		unpaidBase: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ktv",
			Name:      "settlement_unpaid_base_salary",
			Help:      "Unpaid base salary per employee at the last snapshot.",
		}, []string{"employee_id", "employee_name"}),
		unpaidDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ktv",
			Name:      "settlement_unpaid_days",
			Help:      "Unpaid working days per employee at the last snapshot.",
		}, []string{"employee_id", "employee_name"}),
		unpaidBaseTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ktv",
			Name:      "settlement_unpaid_base_salary_total",
			Help:      "Unpaid base salary across all employees at the last snapshot.",
		}),
		lastSnapshotUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ktv",
			Name:      "settlement_last_snapshot_timestamp_seconds",
			Help:      "Unix time of the last successful settlement snapshot.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.unpaidBase,
		m.unpaidDays,
		m.unpaidBaseTotal,
		m.lastSnapshotUnix,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// RecordSettlements replaces the settlement gauges with the given snapshot.
func (m *Metrics) RecordSettlements(list salary.SettlementListResponse) {
	m.unpaidBase.Reset()
	m.unpaidDays.Reset()
	for _, s := range list.Settlements {
		m.unpaidBase.WithLabelValues(s.EmployeeID, s.EmployeeName).Set(s.UnpaidBaseSalary.InexactFloat64())
		m.unpaidDays.WithLabelValues(s.EmployeeID, s.EmployeeName).Set(float64(s.UnpaidDays))
	}
	m.unpaidBaseTotal.Set(list.TotalUnpaidBase.InexactFloat64())
	m.lastSnapshotUnix.Set(float64(time.Now().Unix()))
}
