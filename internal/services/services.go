package services

import (
	"github.com/ntusports/reconcile-api/internal/config"
	"github.com/ntusports/reconcile-api/internal/jobs"
	"github.com/ntusports/reconcile-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth           *AuthService
	Reconciliation *ReconciliationService
	Report         *ReportService
	Export         *ExportService
}

// NewServices creates all service instances
func NewServices(cfg *config.Config, store *storage.LocalStorage, worker *jobs.Worker) *Services {
	reportSvc := NewReportService()
	exportSvc := NewExportService(reportSvc)

	return &Services{
		Auth:           NewAuthService(cfg),
		Reconciliation: NewReconciliationService(cfg, reportSvc, exportSvc, store, worker),
		Report:         reportSvc,
		Export:         exportSvc,
	}
}
