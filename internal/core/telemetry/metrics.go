package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreCounts is a point-in-time view of how many records the store holds.
type StoreCounts struct {
	Todos     int
	TodosDone int
	Posts     int
}

// StoreSampler reads StoreCounts, usually by listing through the services.
type StoreSampler func(ctx context.Context) (StoreCounts, error)

type AppMetrics struct {
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	activeConnections  prometheus.Gauge
	recordOperations   *prometheus.CounterVec
	databaseOperations *prometheus.CounterVec
	rateLimitHits      *prometheus.CounterVec
	rateLimitAllowed   *prometheus.CounterVec
	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	storedRecords      *prometheus.GaugeVec
}

func counter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, labels)
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: counter("http_requests_total", "Total number of HTTP requests", "method", "path", "status"),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Requests currently being served",
		}),
		recordOperations:   counter("record_operations_total", "Total number of todo, post and profile operations", "entity", "operation"),
		databaseOperations: counter("database_operations_total", "Total number of repository calls", "operation", "table"),
		rateLimitHits:      counter("rate_limit_hits_total", "Requests rejected by the rate limiter", "path", "key_type"),
		rateLimitAllowed:   counter("rate_limit_allowed_total", "Requests admitted by the rate limiter", "path", "key_type"),
		cacheHits:          counter("cache_hits_total", "Cache reads served from cache", "key"),
		cacheMisses:        counter("cache_misses_total", "Cache reads that fell through to the store", "key"),
		storedRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stored_records",
			Help: "Records currently held, by kind",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.activeConnections,
		m.recordOperations,
		m.databaseOperations,
		m.rateLimitHits,
		m.rateLimitAllowed,
		m.cacheHits,
		m.cacheMisses,
		m.storedRecords,
	)

	return m
}

func (m *AppMetrics) RecordRequest(ctx context.Context, method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) IncrementActiveConnections(ctx context.Context) {
	m.activeConnections.Inc()
}

func (m *AppMetrics) DecrementActiveConnections(ctx context.Context) {
	m.activeConnections.Dec()
}

func (m *AppMetrics) RecordOperation(ctx context.Context, entity, operation string) {
	m.recordOperations.WithLabelValues(entity, operation).Inc()
}

func (m *AppMetrics) RecordDatabaseOperation(ctx context.Context, operation, table string) {
	m.databaseOperations.WithLabelValues(operation, table).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(ctx context.Context, path, keyType string) {
	m.rateLimitHits.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) RecordRateLimitAllowed(ctx context.Context, path, keyType string) {
	m.rateLimitAllowed.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) RecordCacheHit(ctx context.Context, key string) {
	m.cacheHits.WithLabelValues(key).Inc()
}

func (m *AppMetrics) RecordCacheMiss(ctx context.Context, key string) {
	m.cacheMisses.WithLabelValues(key).Inc()
}

func (m *AppMetrics) SetStoreCounts(counts StoreCounts) {
	m.storedRecords.WithLabelValues("todo").Set(float64(counts.Todos))
	m.storedRecords.WithLabelValues("todo_done").Set(float64(counts.TodosDone))
	m.storedRecords.WithLabelValues("post").Set(float64(counts.Posts))
}

// StartStoreMetrics samples once immediately, then every interval until ctx is done.
// Go runtime and process gauges come from the registry's collectors.
func (m *AppMetrics) StartStoreMetrics(ctx context.Context, interval time.Duration, sample StoreSampler) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	refresh := func() {
		counts, err := sample(ctx)
		if err != nil {
			slog.Warn("Store metrics sample failed", "error", err)
			return
		}
		m.SetStoreCounts(counts)
	}

	refresh()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				refresh()
			case <-ctx.Done():
				return
			}
		}
	}()
}
