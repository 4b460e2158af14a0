package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/studio-tracker/internal/platform/envutil"
	"github.com/yungbote/studio-tracker/internal/platform/logger"
)

// Metrics is the process-wide Prometheus registry. Every method is safe on a
// nil receiver so call sites never check Enabled.
type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	storeRequests *CounterVec
	storeLatency  *HistogramVec

	pollerRefresh *CounterVec
	activePollers *Gauge
	deletes       *CounterVec
	sseClients    *Gauge
	busPublished  *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second)
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("studio_api_requests_total", "API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"studio_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight:   NewGauge("studio_api_inflight_requests", "In-flight API requests."),
		storeRequests: NewCounterVec("studio_store_requests_total", "Job store calls by backend/op/result.", []string{"backend", "op", "result"}),
		storeLatency: NewHistogramVec(
			"studio_store_request_duration_seconds",
			"Job store latency in seconds by backend/op.",
			[]string{"backend", "op"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
		),
		pollerRefresh: NewCounterVec("studio_poller_refresh_total", "Status poller refreshes by result.", []string{"result"}),
		activePollers: NewGauge("studio_active_pollers", "Status pollers currently subscribed."),
		deletes:       NewCounterVec("studio_delete_total", "Job deletions by outcome.", []string{"outcome"}),
		sseClients:    NewGauge("studio_sse_clients", "Connected SSE clients."),
		busPublished:  NewCounterVec("studio_bus_published_total", "Realtime bus publishes by event/result.", []string{"event", "result"}),
		dbStats:       NewGaugeVec("studio_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:       NewGauge("studio_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:     NewGauge("studio_redis_ping_seconds", "Last redis ping latency in seconds."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
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
	for _, c := range []collector{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.storeRequests, m.storeLatency,
		m.pollerRefresh, m.activePollers, m.deletes, m.sseClients, m.busPublished,
		m.dbStats, m.redisUp, m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	method = orUnknown(method)
	route = orUnknown(route)
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveStore records one job store call. result is "ok", "not_found" or "error".
func (m *Metrics) ObserveStore(backend, op, result string, dur time.Duration) {
	if m == nil {
		return
	}
	backend = orUnknown(backend)
	op = orUnknown(op)
	m.storeRequests.Inc(backend, op, orUnknown(result))
	m.storeLatency.Observe(dur.Seconds(), backend, op)
}

func (m *Metrics) ObservePollerRefresh(result string) {
	if m == nil {
		return
	}
	m.pollerRefresh.Inc(orUnknown(result))
}

func (m *Metrics) ActivePollersInc() {
	if m == nil {
		return
	}
	m.activePollers.Inc()
}

func (m *Metrics) ActivePollersDec() {
	if m == nil {
		return
	}
	m.activePollers.Dec()
}

func (m *Metrics) ObserveDelete(outcome string) {
	if m == nil {
		return
	}
	m.deletes.Inc(orUnknown(outcome))
}

func (m *Metrics) SSEClientsInc() {
	if m == nil {
		return
	}
	m.sseClients.Inc()
}

func (m *Metrics) SSEClientsDec() {
	if m == nil {
		return
	}
	m.sseClients.Dec()
}

func (m *Metrics) ObserveBusPublish(event, result string) {
	if m == nil {
		return
	}
	m.busPublished.Inc(orUnknown(event), orUnknown(result))
}

// StartDBCollector samples connection pool stats until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go m.every(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			if log != nil {
				log.Warn("metrics: db stats unavailable", "error", err)
			}
			return
		}
		stats := sqlDB.Stats()
		m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
		m.dbStats.Set(float64(stats.InUse), "in_use")
		m.dbStats.Set(float64(stats.Idle), "idle")
		m.dbStats.Set(float64(stats.WaitCount), "wait_count")
		m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	})
}

// StartRedisCollector pings the shared client until ctx is done. The client is
// owned by the caller.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb goredis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go m.every(ctx, func() {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.Set(0)
			if log != nil && ctx.Err() == nil {
				log.Warn("metrics: redis ping failed", "error", err)
			}
			return
		}
		m.redisUp.Set(1)
		m.redisPing.Set(time.Since(start).Seconds())
	})
}

func (m *Metrics) every(ctx context.Context, fn func()) {
	ticker := time.NewTicker(scrapeInterval())
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

func orUnknown(v string) string {
	if strings.TrimSpace(v) == "" {
		return "unknown"
	}
	return v
}
