// Package jobs tareas en segundo plano sobre asynq (Redis): auditoría programada del libro.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// QueueDefault cola única del worker.
const QueueDefault = "default"

// TaskLedgerAudit recarga el inventario y compara cantidades contra el libro.
const TaskLedgerAudit = "inventory:ledger_audit"

// Orígenes de una auditoría.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// LedgerAuditPayload datos de la tarea.
type LedgerAuditPayload struct {
	Trigger     string    `json:"trigger"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewLedgerAuditTask construye la tarea de auditoría.
func NewLedgerAuditTask(trigger string, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LedgerAuditPayload{Trigger: trigger, RequestedAt: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerAudit, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}
