package metrics

import (
	"net/http"
	"time"

	"github.com/danthegoodman1/bikeshare/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder keeps its own registry so tests and multiple servers do not collide.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	queriesTotal         *prometheus.CounterVec
	queryDurationSeconds *prometheus.HistogramVec

	loadsTotal          *prometheus.CounterVec
	rowsLoadedTotal     *prometheus.CounterVec
	loadDurationSeconds *prometheus.HistogramVec

	groupDurationSeconds *prometheus.HistogramVec
	groupErrorsTotal     *prometheus.CounterVec
}

func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &PrometheusRecorder{
		registry: registry,
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_queries_total",
			Help: "Total number of trip queries by city and status.",
		}, []string{"city", "status"}),
		queryDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_query_duration_seconds",
			Help:    "Duration of trip queries, load through report.",
			Buckets: prometheus.DefBuckets,
		}, []string{"city", "status"}),
		loadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_loads_total",
			Help: "Total number of dataset loads by city and status.",
		}, []string{"city", "status"}),
		rowsLoadedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_rows_loaded_total",
			Help: "Total trip rows loaded by city.",
		}, []string{"city"}),
		loadDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_load_duration_seconds",
			Help:    "Duration of dataset loads.",
			Buckets: prometheus.DefBuckets,
		}, []string{"city", "status"}),
		groupDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bikeshare_stats_group_duration_seconds",
			Help:    "Duration of each statistic group computation.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"group"}),
		groupErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bikeshare_stats_group_errors_total",
			Help: "Total statistic group failures, e.g. empty tables.",
		}, []string{"group"}),
	}

	registry.MustRegister(r.queriesTotal)
	registry.MustRegister(r.queryDurationSeconds)
	registry.MustRegister(r.loadsTotal)
	registry.MustRegister(r.rowsLoadedTotal)
	registry.MustRegister(r.loadDurationSeconds)
	registry.MustRegister(r.groupDurationSeconds)
	registry.MustRegister(r.groupErrorsTotal)

	return r
}

func (r *PrometheusRecorder) GetRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *PrometheusRecorder) RecordQuery(city string, elapsed time.Duration, err error) {
	r.queriesTotal.WithLabelValues(city, status(err)).Inc()
	r.queryDurationSeconds.WithLabelValues(city, status(err)).Observe(elapsed.Seconds())
}

func (r *PrometheusRecorder) RecordLoad(city string, rows int, elapsed time.Duration, err error) {
	r.loadsTotal.WithLabelValues(city, status(err)).Inc()
	r.loadDurationSeconds.WithLabelValues(city, status(err)).Observe(elapsed.Seconds())
	if err == nil {
		r.rowsLoadedTotal.WithLabelValues(city).Add(float64(rows))
	}
}

func (r *PrometheusRecorder) ObserveGroup(group stats.Group, elapsed time.Duration, err error) {
	r.groupDurationSeconds.WithLabelValues(string(group)).Observe(elapsed.Seconds())
	if err != nil {
		r.groupErrorsTotal.WithLabelValues(string(group)).Inc()
	}
}

var _ Recorder = (*PrometheusRecorder)(nil)
