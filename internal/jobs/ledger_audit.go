package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

// Auditor lo que la tarea necesita del servicio de inventario.
type Auditor interface {
	Audit(ctx context.Context) (inventory.AuditReport, error)
}

// AuditMetrics métricas del resultado (observability.Metrics). Puede ser nil.
type AuditMetrics interface {
	AuditDrift(products int)
	JobRun(job string, err error)
}

// LedgerAuditJob manejador de TaskLedgerAudit.
type LedgerAuditJob struct {
	auditor Auditor
	metrics AuditMetrics
	log     *logger.Logger
}

// NewLedgerAuditJob construye el manejador.
func NewLedgerAuditJob(auditor Auditor, metrics AuditMetrics, log *logger.Logger) *LedgerAuditJob {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerAuditJob{auditor: auditor, metrics: metrics, log: log}
}

// Handle ejecuta la auditoría. Un payload ilegible no se reintenta.
func (j *LedgerAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload LedgerAuditPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		j.log.Error().Err(err).Msg("payload de auditoría inválido")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	report, err := j.auditor.Audit(ctx)
	if j.metrics != nil {
		j.metrics.JobRun(TaskLedgerAudit, err)
	}
	if err != nil {
		return fmt.Errorf("auditoría del libro: %w", err)
	}
	if j.metrics != nil {
		j.metrics.AuditDrift(len(report.Drifts))
	}

	ev := j.log.Info()
	if len(report.Drifts) > 0 {
		ev = j.log.Warn()
	}
	ev.Str("trigger", payload.Trigger).
		Int("products", report.Products).
		Int("movements", report.Movements).
		Int("drifts", len(report.Drifts)).
		Msg("auditoría del libro ejecutada")
	for _, d := range report.Drifts {
		j.log.Warn().
			Str("product_id", d.ProductID).
			Str("barcode", d.Barcode).
			Int("recorded", d.Recorded).
			Int("expected", d.Expected).
			Msg("producto descuadrado")
	}
	return nil
}
