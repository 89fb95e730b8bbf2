// Package observability métricas Prometheus de la API y del worker.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
)

var _ inventory.Metrics = (*Metrics)(nil)

// Metrics registro propio con los colectores de la aplicación.
type Metrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestsTotal     *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	ledgerOperations  *prometheus.CounterVec
	barcodeCollisions prometheus.Counter
	auditDrift        prometheus.Gauge
	jobRuns           *prometheus.CounterVec
}

// NewMetrics inicializa el registro y los colectores.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "equipos_http_requests_total",
			Help: "Peticiones HTTP por ruta, método y status.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "equipos_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP por ruta.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ledgerOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "equipos_ledger_operations_total",
			Help: "Operaciones confirmadas sobre el libro por tipo de evento y de movimiento.",
		}, []string{"kind", "movement_type"}),
		barcodeCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "equipos_barcode_collisions_total",
			Help: "Códigos de barras generados que ya existían.",
		}),
		auditDrift: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "equipos_ledger_audit_drift_products",
			Help: "Productos descuadrados en la última auditoría del libro.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "equipos_job_runs_total",
			Help: "Ejecuciones de tareas en segundo plano por resultado.",
		}, []string{"job", "status"}),
	}
	registry.MustRegister(
		m.requestsTotal, m.requestDuration, m.ledgerOperations,
		m.barcodeCollisions, m.auditDrift, m.jobRuns,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware registra cada petición con el patrón de ruta de Fiber (no la URL concreta).
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		if route == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		return err
	}
}

// LedgerOperation implementa inventory.Metrics.
func (m *Metrics) LedgerOperation(kind, movementType string) {
	if m == nil {
		return
	}
	m.ledgerOperations.WithLabelValues(kind, movementType).Inc()
}

// BarcodeCollision implementa inventory.Metrics.
func (m *Metrics) BarcodeCollision() {
	if m == nil {
		return
	}
	m.barcodeCollisions.Inc()
}

// AuditDrift fija la cantidad de productos descuadrados de la última auditoría.
func (m *Metrics) AuditDrift(products int) {
	if m == nil {
		return
	}
	m.auditDrift.Set(float64(products))
}

// JobRun cuenta una ejecución de tarea; err nil = success.
func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.jobRuns.WithLabelValues(job, status).Inc()
}
