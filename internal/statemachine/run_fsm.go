package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/ntusports/reconcile-api/internal/models"
)

// RunFSM wraps a reconciliation run with its state machine
type RunFSM struct {
	run *models.ReconciliationRun
	fsm *fsm.FSM
}

// NewRunFSM creates a state machine for a reconciliation run
func NewRunFSM(run *models.ReconciliationRun) *RunFSM {
	r := &RunFSM{run: run}

	r.fsm = fsm.NewFSM(
		run.Status,
		fsm.Events{
			// pending → running
			{Name: "start", Src: []string{models.RunStatusPending}, Dst: models.RunStatusRunning},

			// running → completed
			{Name: "complete", Src: []string{models.RunStatusRunning}, Dst: models.RunStatusCompleted},

			// pending/running → failed
			{Name: "fail", Src: []string{models.RunStatusPending, models.RunStatusRunning}, Dst: models.RunStatusFailed},
		},
		fsm.Callbacks{},
	)

	return r
}

// Start transitions the run to running
func (r *RunFSM) Start(ctx context.Context) error {
	if !r.run.MayStart() {
		return fmt.Errorf("run cannot start in current state: %s", r.run.Status)
	}

	if err := r.fsm.Event(ctx, "start"); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	r.run.Status = r.fsm.Current()
	return nil
}

// Complete transitions the run to completed and stamps the finish time
func (r *RunFSM) Complete(ctx context.Context) error {
	if !r.run.MayFinish() {
		return fmt.Errorf("run cannot complete in current state: %s", r.run.Status)
	}

	if err := r.fsm.Event(ctx, "complete"); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	r.run.Status = r.fsm.Current()
	now := time.Now()
	r.run.CompletedAt = &now
	return nil
}

// Fail transitions the run to failed, recording the cause
func (r *RunFSM) Fail(ctx context.Context, cause error) error {
	if err := r.fsm.Event(ctx, "fail"); err != nil {
		return fmt.Errorf("failed to fail run: %w", err)
	}

	r.run.Status = r.fsm.Current()
	now := time.Now()
	r.run.CompletedAt = &now
	if cause != nil {
		r.run.Error = cause.Error()
	}
	return nil
}

// Current returns the current state
func (r *RunFSM) Current() string {
	return r.fsm.Current()
}

// Can checks if a transition is possible
func (r *RunFSM) Can(event string) bool {
	return r.fsm.Can(event)
}
