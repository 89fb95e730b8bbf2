package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CuentaPorPatronDeRuta(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/api/products/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "x" {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	for _, id := range []string{"a", "b", "x"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products/"+id, nil), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/products/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/products/:id", "GET", "404")))
}

func TestLedgerYBarcode(t *testing.T) {
	m := NewMetrics()
	m.LedgerOperation("movement.added", "In")
	m.LedgerOperation("movement.added", "In")
	m.BarcodeCollision()
	m.AuditDrift(3)
	m.JobRun("inventory:ledger_audit", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ledgerOperations.WithLabelValues("movement.added", "In")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.barcodeCollisions))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.auditDrift))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("inventory:ledger_audit", "success")))
}

func TestHandler_ExponeMetricas(t *testing.T) {
	m := NewMetrics()
	m.BarcodeCollision()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "equipos_barcode_collisions_total 1")
}

func TestMetricsNil_NoEntraEnPanico(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LedgerOperation("k", "In")
		m.BarcodeCollision()
		m.AuditDrift(1)
		m.JobRun("j", nil)
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
