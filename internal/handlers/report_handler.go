package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ntusports/reconcile-api/internal/services"
)

type ReportHandler struct {
	reconciliationService *services.ReconciliationService
	reportService         *services.ReportService
	exportService         *services.ExportService
}

func NewReportHandler(reconciliationService *services.ReconciliationService, reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{
		reconciliationService: reconciliationService,
		reportService:         reportService,
		exportService:         exportService,
	}
}

// @Summary List Artifacts
// @Description Lists the downloadable CSV artifact names
// @Tags Reports
// @Produce json
// @Success 200 {array} string
// @Router /reports [get]
func (h *ReportHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"artifacts": h.reportService.Artifacts()})
}

// @Summary Download CSV Artifact
// @Description Downloads one named report artifact from the latest run as CSV
// @Tags Reports
// @Produce text/csv
// @Param artifact path string true "Artifact name"
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /reports/{artifact}.csv [get]
func (h *ReportHandler) DownloadCSV(c *gin.Context) {
	rr, ok := h.latest(c)
	if !ok {
		return
	}

	artifact := strings.TrimSuffix(c.Param("artifact"), ".csv")
	buf, err := h.reportService.ArtifactCSV(rr.Result, artifact)
	if err != nil {
		if errors.Is(err, services.ErrUnknownArtifact) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", artifact))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// @Summary Download Workbook
// @Description Downloads the latest run as a multi-sheet XLSX workbook
// @Tags Reports
// @Produce application/octet-stream
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /reports/workbook.xlsx [get]
func (h *ReportHandler) DownloadXLSX(c *gin.Context) {
	rr, ok := h.latest(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.ExportXLSX(c.Request.Context(), rr.Result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to generate workbook: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}

// @Summary Download Summary PDF
// @Description Downloads the latest run summary as a PDF
// @Tags Reports
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /reports/summary.pdf [get]
func (h *ReportHandler) DownloadPDF(c *gin.Context) {
	rr, ok := h.latest(c)
	if !ok {
		return
	}

	data, filename, err := h.exportService.ExportSummaryPDF(c.Request.Context(), rr.Result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to generate PDF: %v", err)})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *ReportHandler) latest(c *gin.Context) (*services.RunResult, bool) {
	rr, err := h.reconciliationService.Latest()
	if err != nil {
		if errors.Is(err, services.ErrNoRun) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return rr, true
}
