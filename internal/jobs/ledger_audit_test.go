package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
)

type stubAuditor struct {
	report inventory.AuditReport
	err    error
	calls  int
}

func (a *stubAuditor) Audit(context.Context) (inventory.AuditReport, error) {
	a.calls++
	return a.report, a.err
}

type recordingMetrics struct {
	drift int
	runs  map[string]int
}

func (m *recordingMetrics) AuditDrift(n int) { m.drift = n }

func (m *recordingMetrics) JobRun(job string, err error) {
	if m.runs == nil {
		m.runs = map[string]int{}
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.runs[job+":"+status]++
}

func TestNewLedgerAuditTask_Payload(t *testing.T) {
	at := time.Date(2024, 4, 5, 3, 0, 0, 0, time.UTC)
	task, err := NewLedgerAuditTask(TriggerSchedule, at)
	require.NoError(t, err)
	assert.Equal(t, TaskLedgerAudit, task.Type())

	var p LedgerAuditPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, TriggerSchedule, p.Trigger)
	assert.True(t, at.Equal(p.RequestedAt))
}

func TestLedgerAuditJob_RegistraDescuadres(t *testing.T) {
	auditor := &stubAuditor{report: inventory.AuditReport{
		Products: 2,
		Drifts:   []inventory.Drift{{ProductID: "p1", Recorded: 7, Expected: 3, Diff: 4}},
	}}
	metrics := &recordingMetrics{}
	job := NewLedgerAuditJob(auditor, metrics, nil)

	task, err := NewLedgerAuditTask(TriggerManual, time.Now())
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	assert.Equal(t, 1, auditor.calls)
	assert.Equal(t, 1, metrics.drift)
	assert.Equal(t, 1, metrics.runs[TaskLedgerAudit+":success"])
}

func TestLedgerAuditJob_ErrorSeReintenta(t *testing.T) {
	auditor := &stubAuditor{err: errors.New("db caída")}
	metrics := &recordingMetrics{}
	job := NewLedgerAuditJob(auditor, metrics, nil)

	task, err := NewLedgerAuditTask(TriggerSchedule, time.Now())
	require.NoError(t, err)
	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry, "un error del almacén debe reintentarse")
	assert.Equal(t, 1, metrics.runs[TaskLedgerAudit+":failure"])
}

func TestLedgerAuditJob_PayloadInvalidoNoSeReintenta(t *testing.T) {
	auditor := &stubAuditor{}
	job := NewLedgerAuditJob(auditor, nil, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskLedgerAudit, []byte("{no-json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, auditor.calls)
}
