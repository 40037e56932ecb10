package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/ntusports/reconcile-api/internal/engine"
	"github.com/ntusports/reconcile-api/internal/models"
)

// Report artifact names, one per downstream consumer
const (
	ArtifactMemberStatus    = "member_status"
	ArtifactPaidNotSelected = "paid_not_selected"
	ArtifactUnmatched       = "unmatched_payments"
	ArtifactSuggestions     = "fuzzy_suggestions"
	ArtifactResolved        = "payments_resolved"
	ArtifactBookings        = "bookings_all"
	ArtifactBookingIssues   = "booking_issues"
)

// ReportService renders run results into the tabular reports the finance
// team reviews. Pure rendering: no matching logic lives here.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

// Artifacts lists every downloadable CSV artifact name
func (s *ReportService) Artifacts() []string {
	return []string{
		ArtifactMemberStatus,
		ArtifactPaidNotSelected,
		ArtifactUnmatched,
		ArtifactSuggestions,
		ArtifactResolved,
		ArtifactBookings,
		ArtifactBookingIssues,
	}
}

// ArtifactCSV renders one named artifact to CSV
func (s *ReportService) ArtifactCSV(result *engine.Result, name string) (*bytes.Buffer, error) {
	switch name {
	case ArtifactMemberStatus:
		return s.MemberStatusCSV(result)
	case ArtifactPaidNotSelected:
		return s.PaidNotSelectedCSV(result)
	case ArtifactUnmatched:
		return s.UnmatchedCSV(result)
	case ArtifactSuggestions:
		return s.SuggestionsCSV(result)
	case ArtifactResolved:
		return s.ResolvedCSV(result)
	case ArtifactBookings:
		return s.bookingsCSV(result.Bookings)
	case ArtifactBookingIssues:
		return s.bookingsCSV(result.BookingIssues)
	default:
		return nil, ErrUnknownArtifact
	}
}

// MemberStatusCSV renders the selected-member fee status table
func (s *ReportService) MemberStatusCSV(result *engine.Result) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"StudentID", "FullName", "Team", "PaidAmount", "PaidStatus", "Outstanding", "PaymentDate"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, a := range result.Accounts {
		lastDate := ""
		if a.LastPaymentDate != nil {
			lastDate = *a.LastPaymentDate
		}
		record := []string{
			a.MemberID,
			a.FullName,
			a.Team,
			fmt.Sprintf("%.2f", a.PaidAmount),
			a.Status,
			fmt.Sprintf("%.2f", a.Outstanding),
			lastDate,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b, nil
}

// PaidNotSelectedCSV renders payments from known members who are not on the
// selected list
func (s *ReportService) PaidNotSelectedCSV(result *engine.Result) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	if err := w.Write([]string{"StudentID", "FullName", "Amount", "PaymentDate"}); err != nil {
		return nil, err
	}
	for _, p := range result.PaidNotSelected {
		id := ""
		if p.MemberID != nil {
			id = *p.MemberID
		}
		record := []string{id, p.FullName, fmt.Sprintf("%.2f", p.Amount), p.PaymentDate}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, w.Error()
}

// UnmatchedCSV renders payments that resolved to no selected member
func (s *ReportService) UnmatchedCSV(result *engine.Result) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	if err := w.Write([]string{"StudentID", "FullName", "Amount", "PaymentDate", "MatchType"}); err != nil {
		return nil, err
	}
	for _, p := range result.Unmatched {
		id := ""
		if p.MemberID != nil {
			id = *p.MemberID
		}
		record := []string{id, p.FullName, fmt.Sprintf("%.2f", p.Amount), p.PaymentDate, p.MatchType}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, w.Error()
}

// SuggestionsCSV renders the fuzzy-match name suggestions
func (s *ReportService) SuggestionsCSV(result *engine.Result) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	if err := w.Write([]string{"EnteredName", "SuggestedName"}); err != nil {
		return nil, err
	}
	for _, sg := range result.Suggestions {
		if err := w.Write([]string{sg.EnteredName, sg.SuggestedName}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, w.Error()
}

// ResolvedCSV renders the full payment audit trail
func (s *ReportService) ResolvedCSV(result *engine.Result) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"StudentID", "FullName", "Amount", "PaymentDate", "ResolvedStudentID", "MatchType"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, p := range result.Resolved {
		id := ""
		if p.MemberID != nil {
			id = *p.MemberID
		}
		resolvedID := ""
		if p.ResolvedMemberID != nil {
			resolvedID = *p.ResolvedMemberID
		}
		record := []string{id, p.FullName, fmt.Sprintf("%.2f", p.Amount), p.PaymentDate, resolvedID, p.MatchType}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, w.Error()
}

func (s *ReportService) bookingsCSV(bookings []models.ValidatedBooking) (*bytes.Buffer, error) {
	b := &bytes.Buffer{}
	w := csv.NewWriter(b)

	header := []string{"BookingID", "FullName", "BookingStart", "Hours", "AmountPaid", "Expected", "Underpaid", "MissingPayment"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, bk := range bookings {
		record := []string{
			bk.BookingID,
			bk.FullName,
			bk.BookingStart,
			fmt.Sprintf("%.2f", bk.Hours),
			fmt.Sprintf("%.2f", bk.AmountPaid),
			fmt.Sprintf("%.2f", bk.Expected),
			formatBool(bk.Underpaid),
			formatBool(bk.MissingPayment),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return b, w.Error()
}

// SummaryText renders the human-readable summary block
func (s *ReportService) SummaryText(result *engine.Result) string {
	sum := result.Summary
	return fmt.Sprintf(`Club Membership & Bookings Reconciliation
Generated: %s

MEMBERSHIP SUMMARY:
Total selected members: %d
- Paid in full: %d
- Underpaid: %d
- Unpaid: %d
Mismatch rate: %.1f%%

Membership revenue:
- Expected: £%.2f
- Collected: £%.2f
- Difference: £%.2f

EXTERNAL BOOKINGS:
Total bookings: %d
- Expected: £%.2f
- Collected: £%.2f
- Difference: £%.2f
- Bookings with issues: %d

ADDITIONAL FINDINGS:
- Payments from non-selected members: %d
- Unmatched payments (need review): %d
`,
		sum.GeneratedAt.Format("2006-01-02 15:04:05"),
		sum.TotalSelected,
		sum.PaidCount,
		sum.UnderpaidCount,
		sum.UnpaidCount,
		sum.MismatchRate,
		sum.MembershipExpected,
		sum.MembershipCollected,
		sum.MembershipDifference(),
		sum.TotalBookings,
		sum.BookingExpected,
		sum.BookingCollected,
		sum.BookingDifference(),
		sum.BookingIssueCount,
		sum.NotSelectedCount,
		sum.UnmatchedCount,
	)
}

func formatBool(v bool) string {
	return strconv.FormatBool(v)
}
