package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics коллектор метрик сервиса.
// Все методы безопасны для nil-получателя: при выключенных метриках передается nil.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueriesTotal  *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec

	ScheduleGenerationsTotal   *prometheus.CounterVec
	ScheduleGenerationDuration *prometheus.HistogramVec
	ScheduleConflictsTotal     *prometheus.CounterVec
	OptimizerMovesTotal        *prometheus.CounterVec
	CacheRequestsTotal         *prometheus.CounterVec

	serviceName string
}

// New создает и регистрирует метрики в собственном реестре
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry:    prometheus.NewRegistry(),
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"service", "operation"}),

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_queries_total",
			Help: "Total number of database queries",
		}, []string{"service", "operation", "status"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		ScheduleGenerationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_generations_total",
			Help: "Total number of generated schedules by source",
		}, []string{"service", "source"}),

		ScheduleGenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schedule_generation_duration_seconds",
			Help:    "Schedule engine run duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service"}),

		ScheduleConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_conflicts_total",
			Help: "Conflicts found in generated schedules",
		}, []string{"service", "type", "severity"}),

		OptimizerMovesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "optimizer_moves_total",
			Help: "Bookings or assignments moved by optimizer passes",
		}, []string{"service", "pass"}),

		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_cache_requests_total",
			Help: "Schedule cache lookups by result",
		}, []string{"service", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueriesTotal,
		m.DBConnections,
		m.ScheduleGenerationsTotal,
		m.ScheduleGenerationDuration,
		m.ScheduleConflictsTotal,
		m.OptimizerMovesTotal,
		m.CacheRequestsTotal,
	)

	return m
}

// Registry возвращает реестр метрик
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler http.Handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность и результат запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
	m.DBQueriesTotal.WithLabelValues(m.serviceName, operation, status).Inc()
}

// SetDBConnections обновляет состояние пула соединений
func (m *Metrics) SetDBConnections(open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBConnections.WithLabelValues(m.serviceName, "open").Set(float64(open))
	m.DBConnections.WithLabelValues(m.serviceName, "in_use").Set(float64(inUse))
	m.DBConnections.WithLabelValues(m.serviceName, "idle").Set(float64(idle))
}

// ObserveScheduleGeneration учитывает выдачу расписания.
// source: "engine" - расписание построено, "cache" - отдано из кэша.
func (m *Metrics) ObserveScheduleGeneration(source string, duration time.Duration) {
	if m == nil {
		return
	}
	m.ScheduleGenerationsTotal.WithLabelValues(m.serviceName, source).Inc()
	if source == SourceEngine {
		m.ScheduleGenerationDuration.WithLabelValues(m.serviceName).Observe(duration.Seconds())
	}
}

// ObserveConflicts учитывает найденные конфликты
func (m *Metrics) ObserveConflicts(conflictType, severity string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.ScheduleConflictsTotal.WithLabelValues(m.serviceName, conflictType, severity).Add(float64(count))
}

// ObserveOptimizerMoves учитывает перемещения, сделанные проходом оптимизатора
func (m *Metrics) ObserveOptimizerMoves(pass string, moves int) {
	if m == nil || moves <= 0 {
		return
	}
	m.OptimizerMovesTotal.WithLabelValues(m.serviceName, pass).Add(float64(moves))
}

// ObserveCache учитывает попадание или промах кэша расписаний
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequestsTotal.WithLabelValues(m.serviceName, result).Inc()
}

// Источники расписания
const (
	SourceEngine = "engine"
	SourceCache  = "cache"
)
