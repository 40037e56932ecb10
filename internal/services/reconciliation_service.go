package services

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ntusports/reconcile-api/internal/config"
	"github.com/ntusports/reconcile-api/internal/csvio"
	"github.com/ntusports/reconcile-api/internal/engine"
	"github.com/ntusports/reconcile-api/internal/jobs"
	"github.com/ntusports/reconcile-api/internal/metrics"
	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/ntusports/reconcile-api/internal/statemachine"
	"github.com/ntusports/reconcile-api/internal/storage"
	"github.com/ntusports/reconcile-api/pkg/logger"
)

// InputFile is one uploaded input document
type InputFile struct {
	Name string
	Data []byte
}

// RunResult pairs a completed run with its outputs
type RunResult struct {
	Run    models.ReconciliationRun `json:"run"`
	Result *engine.Result           `json:"result"`
}

// ReconciliationService executes batch reconciliation runs. Input parsing is
// all-or-nothing: a failed run leaves the previously published result in
// place.
type ReconciliationService struct {
	cfg       *config.Config
	reportSvc *ReportService
	exportSvc *ExportService
	store     *storage.LocalStorage
	worker    *jobs.Worker

	mu     sync.RWMutex
	latest *RunResult
}

func NewReconciliationService(cfg *config.Config, reportSvc *ReportService, exportSvc *ExportService, store *storage.LocalStorage, worker *jobs.Worker) *ReconciliationService {
	return &ReconciliationService{
		cfg:       cfg,
		reportSvc: reportSvc,
		exportSvc: exportSvc,
		store:     store,
		worker:    worker,
	}
}

func (s *ReconciliationService) engineConfig() engine.Config {
	return engine.Config{
		AnnualFee:   s.cfg.AnnualFee,
		HourlyRate:  s.cfg.HourlyRate,
		FuzzyCutoff: s.cfg.FuzzyCutoff,
	}
}

// Run parses the three input files, executes the reconciliation and
// publishes the result. Any parse failure aborts the whole run.
func (s *ReconciliationService) Run(ctx context.Context, membersFile, paymentsFile, bookingsFile InputFile) (*RunResult, error) {
	run := models.ReconciliationRun{
		ID:        uuid.NewString(),
		Status:    models.RunStatusPending,
		StartedAt: time.Now(),
	}
	fsm := statemachine.NewRunFSM(&run)

	logger.Info("[Reconciliation] Run started",
		"run_id", run.ID,
		"members_file", membersFile.Name,
		"payments_file", paymentsFile.Name,
		"bookings_file", bookingsFile.Name,
	)

	if err := fsm.Start(ctx); err != nil {
		return nil, err
	}

	members, err := csvio.ReadMembers(membersFile.Name, bytes.NewReader(membersFile.Data))
	if err != nil {
		return nil, s.failRun(ctx, fsm, &run, err)
	}
	payments, err := csvio.ReadPayments(paymentsFile.Name, bytes.NewReader(paymentsFile.Data))
	if err != nil {
		return nil, s.failRun(ctx, fsm, &run, err)
	}
	bookings, err := csvio.ReadBookings(bookingsFile.Name, bytes.NewReader(bookingsFile.Data))
	if err != nil {
		return nil, s.failRun(ctx, fsm, &run, err)
	}

	result := engine.Run(s.engineConfig(), members, payments, bookings)

	if err := fsm.Complete(ctx); err != nil {
		return nil, err
	}

	rr := &RunResult{Run: run, Result: &result}
	s.mu.Lock()
	s.latest = rr
	s.mu.Unlock()

	s.recordMetrics(&run, &result)
	s.archiveAsync(run.ID, []InputFile{membersFile, paymentsFile, bookingsFile}, &result)

	logger.Info("[Reconciliation] Run completed",
		"run_id", run.ID,
		"accounts", len(result.Accounts),
		"unmatched", len(result.Unmatched),
		"booking_issues", len(result.BookingIssues),
	)
	return rr, nil
}

func (s *ReconciliationService) failRun(ctx context.Context, fsm *statemachine.RunFSM, run *models.ReconciliationRun, cause error) error {
	if err := fsm.Fail(ctx, cause); err != nil {
		logger.Error("[Reconciliation] Failed to record run failure", "run_id", run.ID, "error", err)
	}
	metrics.RunsTotal.WithLabelValues("failed").Inc()
	logger.Error("[Reconciliation] Run failed", "run_id", run.ID, "error", cause)
	return cause
}

func (s *ReconciliationService) recordMetrics(run *models.ReconciliationRun, result *engine.Result) {
	metrics.RunsTotal.WithLabelValues("completed").Inc()
	if run.CompletedAt != nil {
		metrics.RunDuration.Observe(run.CompletedAt.Sub(run.StartedAt).Seconds())
	}
	for _, p := range result.Resolved {
		metrics.PaymentsResolved.WithLabelValues(p.MatchType).Inc()
	}
	metrics.BookingIssues.Add(float64(len(result.BookingIssues)))
}

// archiveAsync pushes input and artifact archiving off the request path
func (s *ReconciliationService) archiveAsync(runID string, inputs []InputFile, result *engine.Result) {
	s.worker.Enqueue(func(ctx context.Context) error {
		for _, in := range inputs {
			if _, err := s.store.SaveInput(runID, in.Name, in.Data); err != nil {
				return err
			}
		}

		for _, name := range s.reportSvc.Artifacts() {
			buf, err := s.reportSvc.ArtifactCSV(result, name)
			if err != nil {
				return err
			}
			if _, err := s.store.SaveArtifact(runID, name+".csv", buf.Bytes()); err != nil {
				return err
			}
		}

		if _, err := s.store.SaveArtifact(runID, "summary.txt", []byte(s.reportSvc.SummaryText(result))); err != nil {
			return err
		}

		data, filename, err := s.exportSvc.ExportXLSX(ctx, result)
		if err != nil {
			return err
		}
		if _, err := s.store.SaveArtifact(runID, filename, data); err != nil {
			return err
		}

		data, filename, err = s.exportSvc.ExportSummaryPDF(ctx, result)
		if err != nil {
			return err
		}
		_, err = s.store.SaveArtifact(runID, filename, data)
		return err
	})
}

// Latest returns the most recent completed run
func (s *ReconciliationService) Latest() (*RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, ErrNoRun
	}
	return s.latest, nil
}
