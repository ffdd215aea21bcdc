package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/workspace-backend/internal/data/aggregates"
	"github.com/yungbote/workspace-backend/internal/pkg/logger"
)

// Metrics records repository and API activity. It implements
// aggregates.Hooks, so the same instance is handed to every repository.
type Metrics struct {
	repoOps       *CounterVec
	repoLatency   *HistogramVec
	repoConflicts *CounterVec
	repoRetries   *CounterVec

	storeOps     *CounterVec
	storeLatency *HistogramVec

	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *GaugeVec

	dbStats *GaugeVec
	redisUp *GaugeVec

	scrapeInterval time.Duration
}

var _ aggregates.Hooks = (*Metrics)(nil)

func NewMetrics(scrapeInterval time.Duration) *Metrics {
	if scrapeInterval <= 0 {
		scrapeInterval = 10 * time.Second
	}
	return &Metrics{
		repoOps: NewCounterVec("ws_repository_operations_total",
			"Repository operations by collection, op and outcome.", []string{"collection", "op", "status"}),
		repoLatency: NewHistogramVec("ws_repository_operation_duration_seconds",
			"Repository operation latency in seconds.", []string{"collection", "op"}, nil),
		repoConflicts: NewCounterVec("ws_repository_cas_conflicts_total",
			"Relation updates that exhausted their compare-and-swap attempts.", []string{"collection", "op"}),
		repoRetries: NewCounterVec("ws_repository_cas_retries_total",
			"Compare-and-swap retries after a version conflict.", []string{"collection", "op"}),
		storeOps: NewCounterVec("ws_store_operations_total",
			"Document store primitive calls by driver, primitive and outcome.", []string{"driver", "primitive", "status"}),
		storeLatency: NewHistogramVec("ws_store_operation_duration_seconds",
			"Document store primitive latency in seconds.", []string{"driver", "primitive"}, nil),
		apiRequests: NewCounterVec("ws_api_requests_total",
			"API requests by method, route and status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec("ws_api_request_duration_seconds",
			"API request latency in seconds.", []string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}),
		apiInflight: NewGaugeVec("ws_api_inflight_requests", "In-flight API requests.", nil),
		dbStats:     NewGaugeVec("ws_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:     NewGaugeVec("ws_redis_up", "Whether the last redis ping succeeded.", nil),

		scrapeInterval: scrapeInterval,
	}
}

// splitName turns "workspaces.addMembers" into its collection and op.
func splitName(name string) (string, string) {
	collection, op, ok := strings.Cut(name, ".")
	if !ok {
		return "unknown", name
	}
	return collection, op
}

func (m *Metrics) ObserveOperation(name, status string, dur time.Duration) {
	if m == nil {
		return
	}
	collection, op := splitName(name)
	m.repoOps.Inc(collection, op, status)
	m.repoLatency.Observe(dur.Seconds(), collection, op)
}

func (m *Metrics) IncConflict(name string) {
	if m == nil {
		return
	}
	collection, op := splitName(name)
	m.repoConflicts.Inc(collection, op)
}

func (m *Metrics) IncRetry(name string) {
	if m == nil {
		return
	}
	collection, op := splitName(name)
	m.repoRetries.Inc(collection, op)
}

// Operations returns the count recorded for one repository outcome.
func (m *Metrics) Operations(collection, op, status string) float64 {
	if m == nil {
		return 0
	}
	return m.repoOps.Value(collection, op, status)
}

func (m *Metrics) Retries(collection, op string) float64 {
	if m == nil {
		return 0
	}
	return m.repoRetries.Value(collection, op)
}

// ObserveStoreOperation records one document store primitive call.
func (m *Metrics) ObserveStoreOperation(driver, primitive, status string, dur time.Duration) {
	if m == nil {
		return
	}
	m.storeOps.Inc(driver, primitive, status)
	m.storeLatency.Observe(dur.Seconds(), driver, primitive)
}

func (m *Metrics) StoreOperations(driver, primitive, status string) float64 {
	if m == nil {
		return 0
	}
	return m.storeOps.Value(driver, primitive, status)
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) InflightInc() {
	if m != nil {
		m.apiInflight.Add(1)
	}
}

func (m *Metrics) InflightDec() {
	if m != nil {
		m.apiInflight.Add(-1)
	}
}

// ServeHTTP exposes every metric in the Prometheus text format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.repoOps, m.repoLatency, m.repoConflicts, m.repoRetries,
		m.storeOps, m.storeLatency,
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.dbStats, m.redisUp,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

// StartDBCollector samples the gorm connection pool until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	if log == nil {
		log = logger.NewNop()
	}
	go m.every(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
			return
		}
		stats := sqlDB.Stats()
		m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
		m.dbStats.Set(float64(stats.InUse), "in_use")
		m.dbStats.Set(float64(stats.Idle), "idle")
		m.dbStats.Set(float64(stats.WaitCount), "wait_count")
		m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
		m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
	})
}

// StartRedisCollector pings rdb until ctx is done.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	if log == nil {
		log = logger.NewNop()
	}
	go m.every(ctx, func() {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			m.redisUp.Set(0)
			log.Warn("metrics: redis ping failed", "error", err)
			return
		}
		m.redisUp.Set(1)
	})
}

func (m *Metrics) every(ctx context.Context, fn func()) {
	ticker := time.NewTicker(m.scrapeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
