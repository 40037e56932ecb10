package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ntusports/reconcile-api/internal/csvio"
	"github.com/ntusports/reconcile-api/internal/services"
)

type ReconciliationHandler struct {
	reconciliationService *services.ReconciliationService
	reportService         *services.ReportService
	maxUploadBytes        int64
}

func NewReconciliationHandler(reconciliationService *services.ReconciliationService, reportService *services.ReportService, maxUploadMB int64) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		reportService:         reportService,
		maxUploadBytes:        maxUploadMB << 20,
	}
}

// @Summary Run Reconciliation
// @Description Uploads the three input files and runs a reconciliation
// @Tags Reconciliations
// @Accept multipart/form-data
// @Produce json
// @Param members formData file true "Club roster (CSV or XLSX)"
// @Param payments formData file true "Membership payments (CSV or XLSX)"
// @Param bookings formData file true "Facility bookings (CSV or XLSX)"
// @Success 201 {object} services.RunResult
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reconciliations [post]
func (h *ReconciliationHandler) Create(c *gin.Context) {
	members, ok := h.formFile(c, "members")
	if !ok {
		return
	}
	payments, ok := h.formFile(c, "payments")
	if !ok {
		return
	}
	bookings, ok := h.formFile(c, "bookings")
	if !ok {
		return
	}

	result, err := h.reconciliationService.Run(c.Request.Context(), members, payments, bookings)
	if err != nil {
		var loadErr *csvio.LoadError
		if errors.As(err, &loadErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "source": loadErr.Source})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *ReconciliationHandler) formFile(c *gin.Context, field string) (services.InputFile, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Missing %s file", field)})
		return services.InputFile{}, false
	}
	if fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s file exceeds the %dMB upload limit", field, h.maxUploadBytes>>20)})
		return services.InputFile{}, false
	}

	data, err := readFormFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to read %s file: %v", field, err)})
		return services.InputFile{}, false
	}

	return services.InputFile{Name: fileHeader.Filename, Data: data}, true
}

func readFormFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// @Summary Latest Run
// @Description Returns the status of the most recent reconciliation run
// @Tags Reconciliations
// @Produce json
// @Success 200 {object} models.RunResponse
// @Failure 404 {object} map[string]string
// @Router /reconciliations/latest [get]
func (h *ReconciliationHandler) Latest(c *gin.Context) {
	rr, err := h.latest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, rr.Run.ToResponse())
}

// @Summary Run Summary
// @Description Returns the aggregate summary of the latest run
// @Tags Reconciliations
// @Produce json
// @Success 200 {object} models.Summary
// @Failure 404 {object} map[string]string
// @Router /reconciliations/latest/summary [get]
func (h *ReconciliationHandler) Summary(c *gin.Context) {
	rr, err := h.latest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, rr.Result.Summary)
}

// @Summary Run Summary Text
// @Description Returns the latest run summary as plain text
// @Tags Reconciliations
// @Produce plain
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /reconciliations/latest/summary.txt [get]
func (h *ReconciliationHandler) SummaryText(c *gin.Context) {
	rr, err := h.latest(c)
	if err != nil {
		return
	}
	c.String(http.StatusOK, h.reportService.SummaryText(rr.Result))
}

// @Summary Member Accounts
// @Description Returns per-member fee status for the latest run
// @Tags Reconciliations
// @Produce json
// @Success 200 {array} models.MemberAccount
// @Failure 404 {object} map[string]string
// @Router /reconciliations/latest/accounts [get]
func (h *ReconciliationHandler) Accounts(c *gin.Context) {
	rr, err := h.latest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, rr.Result.Accounts)
}

// @Summary Review Queues
// @Description Returns the payments needing manual review for the latest run
// @Tags Reconciliations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /reconciliations/latest/review [get]
func (h *ReconciliationHandler) Review(c *gin.Context) {
	rr, err := h.latest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paid_not_selected": rr.Result.PaidNotSelected,
		"unmatched":         rr.Result.Unmatched,
		"suggestions":       rr.Result.Suggestions,
	})
}

// @Summary Booking Issues
// @Description Returns flagged facility bookings for the latest run
// @Tags Reconciliations
// @Produce json
// @Success 200 {array} models.ValidatedBooking
// @Failure 404 {object} map[string]string
// @Router /reconciliations/latest/booking-issues [get]
func (h *ReconciliationHandler) BookingIssues(c *gin.Context) {
	rr, err := h.latest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, rr.Result.BookingIssues)
}

func (h *ReconciliationHandler) latest(c *gin.Context) (*services.RunResult, error) {
	rr, err := h.reconciliationService.Latest()
	if err != nil {
		if errors.Is(err, services.ErrNoRun) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, err
	}
	return rr, nil
}
