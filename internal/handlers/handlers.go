package handlers

import (
	"github.com/ntusports/reconcile-api/internal/config"
	"github.com/ntusports/reconcile-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health         *HealthHandler
	Auth           *AuthHandler
	Reconciliation *ReconciliationHandler
	Report         *ReportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(),
		Auth:           NewAuthHandler(svcs.Auth),
		Reconciliation: NewReconciliationHandler(svcs.Reconciliation, svcs.Report, cfg.MaxUploadMB),
		Report:         NewReportHandler(svcs.Reconciliation, svcs.Report, svcs.Export),
	}
}
