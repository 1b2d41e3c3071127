package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus метрик сервиса
// Все Record* методы безопасны для nil-получателя: при выключенных метриках передаётся nil
type Metrics struct {
	registry *prometheus.Registry
	service  string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec
	DBConnections   *prometheus.GaugeVec
	DBWaitCount     *prometheus.GaugeVec

	BookingsCreated      *prometheus.CounterVec
	BookingTransitions   *prometheus.CounterVec
	NotificationsCreated *prometheus.CounterVec
}

// New создает и регистрирует метрики в собственном registry
func New(serviceName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		service:  serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database operation latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"service", "operation"}),

		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "db_query_errors_total",
			Help: "Total number of failed database operations",
		}, []string{"service", "operation"}),

		DBConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections",
			Help: "Database connection pool state",
		}, []string{"service", "state"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_connections_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings committed by the orchestrator",
		}, []string{"service", "mode"}),

		BookingTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_transitions_total",
			Help: "Accepted booking status transitions",
		}, []string{"service", "from", "to"}),

		NotificationsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Notification records created by fan-out",
		}, []string{"service", "recipient"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.DBConnections,
		m.DBWaitCount,
		m.BookingsCreated,
		m.BookingTransitions,
		m.NotificationsCreated,
	)

	return m
}

// Handler возвращает http.Handler для эндпоинта /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ServiceName имя сервиса, используемое в label service
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.service
}

// RecordBookingCreated учитывает успешно созданное бронирование
func (m *Metrics) RecordBookingCreated(mode string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(m.service, mode).Inc()
}

// RecordTransition учитывает принятый переход статуса
func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(m.service, from, to).Inc()
}

// RecordNotifications учитывает созданные уведомления по классу получателя
func (m *Metrics) RecordNotifications(recipient string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.NotificationsCreated.WithLabelValues(m.service, recipient).Add(float64(count))
}
