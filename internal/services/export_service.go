package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/ntusports/reconcile-api/internal/engine"
	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders run results into binary office formats. CSV
// artifacts live in ReportService; this covers the workbook and PDF.
type ExportService struct {
	reportSvc *ReportService
}

func NewExportService(reportSvc *ReportService) *ExportService {
	return &ExportService{reportSvc: reportSvc}
}

// ExportXLSX builds a workbook with one sheet per artifact plus a summary sheet
func (s *ExportService) ExportXLSX(ctx context.Context, result *engine.Result) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetSheetName("Sheet1", "Summary")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	if err := s.writeSummarySheet(f, result, headerStyle); err != nil {
		return nil, "", err
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]interface{}
	}{
		{"Member Status", []string{"StudentID", "FullName", "Team", "PaidAmount", "PaidStatus", "Outstanding", "PaymentDate"}, memberRows(result.Accounts)},
		{"Paid Not Selected", []string{"StudentID", "FullName", "Amount", "PaymentDate"}, paymentRows(result.PaidNotSelected)},
		{"Unmatched", []string{"StudentID", "FullName", "Amount", "PaymentDate", "MatchType"}, resolvedRows(result.Unmatched, false)},
		{"Suggestions", []string{"EnteredName", "SuggestedName"}, suggestionRows(result.Suggestions)},
		{"Payments", []string{"StudentID", "FullName", "Amount", "PaymentDate", "ResolvedStudentID", "MatchType"}, resolvedRows(result.Resolved, true)},
		{"Bookings", bookingHeader(), bookingRows(result.Bookings)},
		{"Booking Issues", bookingHeader(), bookingRows(result.BookingIssues)},
	}

	for _, sh := range sheets {
		if _, err := f.NewSheet(sh.name); err != nil {
			return nil, "", err
		}
		cell, _ := excelize.CoordinatesToCellName(1, 1)
		_ = f.SetSheetRow(sh.name, cell, &sh.header)
		end, _ := excelize.CoordinatesToCellName(len(sh.header), 1)
		_ = f.SetCellStyle(sh.name, cell, end, headerStyle)
		for i, row := range sh.rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return nil, "", err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reconciliation_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func (s *ExportService) writeSummarySheet(f *excelize.File, result *engine.Result, headerStyle int) error {
	sum := result.Summary

	_ = f.SetCellValue("Summary", "A1", "Club Reconciliation Summary")
	_ = f.SetCellStyle("Summary", "A1", "A1", headerStyle)
	_ = f.SetCellValue("Summary", "A2", "Generated")
	_ = f.SetCellValue("Summary", "B2", sum.GeneratedAt.Format("2006-01-02 15:04:05"))

	rows := []struct {
		label string
		value interface{}
	}{
		{"Total selected members", sum.TotalSelected},
		{"Paid in full", sum.PaidCount},
		{"Underpaid", sum.UnderpaidCount},
		{"Unpaid", sum.UnpaidCount},
		{"Mismatch rate (%)", sum.MismatchRate},
		{"Membership expected", sum.MembershipExpected},
		{"Membership collected", sum.MembershipCollected},
		{"Membership difference", sum.MembershipDifference()},
		{"Total bookings", sum.TotalBookings},
		{"Booking expected", sum.BookingExpected},
		{"Booking collected", sum.BookingCollected},
		{"Booking difference", sum.BookingDifference()},
		{"Bookings with issues", sum.BookingIssueCount},
		{"Payments from non-selected members", sum.NotSelectedCount},
		{"Unmatched payments", sum.UnmatchedCount},
	}
	for i, r := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+4)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+4)
		_ = f.SetCellValue("Summary", labelCell, r.label)
		if err := f.SetCellValue("Summary", valueCell, r.value); err != nil {
			return err
		}
	}
	return nil
}

// ExportSummaryPDF renders the run summary as a one-page PDF
func (s *ExportService) ExportSummaryPDF(ctx context.Context, result *engine.Result) ([]byte, string, error) {
	sum := result.Summary

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Club Membership & Bookings Reconciliation")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 10, fmt.Sprintf("Generated: %s", sum.GeneratedAt.Format("2006-01-02 15:04:05")))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Membership")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	line := func(label, value string) {
		pdf.Cell(70, 10, label)
		pdf.Cell(40, 10, value)
		pdf.Ln(6)
	}
	line("Total selected members:", fmt.Sprintf("%d", sum.TotalSelected))
	line("Paid in full:", fmt.Sprintf("%d", sum.PaidCount))
	line("Underpaid:", fmt.Sprintf("%d", sum.UnderpaidCount))
	line("Unpaid:", fmt.Sprintf("%d", sum.UnpaidCount))
	line("Mismatch rate:", fmt.Sprintf("%.1f%%", sum.MismatchRate))
	line("Expected revenue:", fmt.Sprintf("GBP %.2f", sum.MembershipExpected))
	line("Collected:", fmt.Sprintf("GBP %.2f", sum.MembershipCollected))
	line("Difference:", fmt.Sprintf("GBP %.2f", sum.MembershipDifference()))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "External Bookings")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	line("Total bookings:", fmt.Sprintf("%d", sum.TotalBookings))
	line("Expected:", fmt.Sprintf("GBP %.2f", sum.BookingExpected))
	line("Collected:", fmt.Sprintf("GBP %.2f", sum.BookingCollected))
	line("Difference:", fmt.Sprintf("GBP %.2f", sum.BookingDifference()))
	line("Bookings with issues:", fmt.Sprintf("%d", sum.BookingIssueCount))
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Additional Findings")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	line("Payments from non-selected members:", fmt.Sprintf("%d", sum.NotSelectedCount))
	line("Unmatched payments:", fmt.Sprintf("%d", sum.UnmatchedCount))

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("reconciliation_summary_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

func bookingHeader() []string {
	return []string{"BookingID", "FullName", "BookingStart", "Hours", "AmountPaid", "Expected", "Underpaid", "MissingPayment"}
}

func memberRows(accounts []models.MemberAccount) [][]interface{} {
	rows := make([][]interface{}, 0, len(accounts))
	for _, a := range accounts {
		lastDate := ""
		if a.LastPaymentDate != nil {
			lastDate = *a.LastPaymentDate
		}
		rows = append(rows, []interface{}{a.MemberID, a.FullName, a.Team, a.PaidAmount, a.Status, a.Outstanding, lastDate})
	}
	return rows
}

func paymentRows(payments []models.PaymentRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(payments))
	for _, p := range payments {
		id := ""
		if p.MemberID != nil {
			id = *p.MemberID
		}
		rows = append(rows, []interface{}{id, p.FullName, p.Amount, p.PaymentDate})
	}
	return rows
}

func resolvedRows(payments []models.ResolvedPayment, withResolvedID bool) [][]interface{} {
	rows := make([][]interface{}, 0, len(payments))
	for _, p := range payments {
		id := ""
		if p.MemberID != nil {
			id = *p.MemberID
		}
		row := []interface{}{id, p.FullName, p.Amount, p.PaymentDate}
		if withResolvedID {
			resolvedID := ""
			if p.ResolvedMemberID != nil {
				resolvedID = *p.ResolvedMemberID
			}
			row = append(row, resolvedID)
		}
		row = append(row, p.MatchType)
		rows = append(rows, row)
	}
	return rows
}

func suggestionRows(suggestions []models.FuzzySuggestion) [][]interface{} {
	rows := make([][]interface{}, 0, len(suggestions))
	for _, sg := range suggestions {
		rows = append(rows, []interface{}{sg.EnteredName, sg.SuggestedName})
	}
	return rows
}

func bookingRows(bookings []models.ValidatedBooking) [][]interface{} {
	rows := make([][]interface{}, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, []interface{}{b.BookingID, b.FullName, b.BookingStart, b.Hours, b.AmountPaid, b.Expected, b.Underpaid, b.MissingPayment})
	}
	return rows
}
