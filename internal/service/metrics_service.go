package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/room-allocation-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	allocationRuns     *prometheus.CounterVec
	allocationDuration *prometheus.HistogramVec
	allocationPlaced   *prometheus.GaugeVec
	unplacedTeams      prometheus.Gauge
	oasisDayUsage      *prometheus.GaugeVec
	adhocRequests      *prometheus.CounterVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	allocationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_runs_total",
		Help: "Allocation runs by kind and outcome",
	}, []string{"kind", "status"})

	allocationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocation_run_duration_seconds",
		Help:    "Wall time of allocation runs, lock wait excluded",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	allocationPlaced := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "allocation_placed",
		Help: "Teams (rooms) or people (oasis) holding at least one booking after the last run",
	}, []string{"kind"})

	unplacedTeams := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "allocation_unplaced_teams",
		Help: "Teams left without a room after the last run",
	})

	oasisDayUsage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "oasis_day_usage",
		Help: "Oasis seats booked per weekday",
	}, []string{"day"})

	adhocRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oasis_adhoc_requests_total",
		Help: "Ad-hoc Oasis bookings by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		allocationRuns, allocationDuration, allocationPlaced, unplacedTeams, oasisDayUsage, adhocRequests, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLatency:       cacheLatency,
		cacheWrite:         cacheWrite,
		cacheHitRatio:      cacheHitRatio,
		cacheHits:          cacheHits,
		cacheMisses:        cacheMisses,
		allocationRuns:     allocationRuns,
		allocationDuration: allocationDuration,
		allocationPlaced:   allocationPlaced,
		unplacedTeams:      unplacedTeams,
		oasisDayUsage:      oasisDayUsage,
		adhocRequests:      adhocRequests,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveAllocationRun counts a run and, for completed runs, records its duration.
func (m *MetricsService) ObserveAllocationRun(kind, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.allocationRuns.WithLabelValues(kind, status).Inc()
	if status == runStatusSuccess {
		m.allocationDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

// SetRoomOutcome publishes the result of the last room run.
func (m *MetricsService) SetRoomOutcome(placedTeams, unplacedTeams int) {
	if m == nil {
		return
	}
	m.allocationPlaced.WithLabelValues(KindRooms).Set(float64(placedTeams))
	m.unplacedTeams.Set(float64(unplacedTeams))
}

// SetOasisOutcome publishes per-day usage and the number of people holding a seat.
func (m *MetricsService) SetOasisOutcome(usage map[models.Weekday]int, placedPeople int) {
	if m == nil {
		return
	}
	m.allocationPlaced.WithLabelValues(KindOasis).Set(float64(placedPeople))
	for _, day := range models.Weekdays {
		m.oasisDayUsage.WithLabelValues(string(day)).Set(float64(usage[day]))
	}
}

// RecordAdhoc counts an ad-hoc Oasis request by outcome.
func (m *MetricsService) RecordAdhoc(outcome string) {
	if m == nil {
		return
	}
	m.adhocRequests.WithLabelValues(outcome).Inc()
}
