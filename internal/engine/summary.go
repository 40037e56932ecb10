package engine

import (
	"github.com/ntusports/reconcile-api/internal/models"
)

// BuildSummary folds the run outputs into aggregate statistics. No new
// matching logic: every quantity is a deterministic fold over upstream data.
func BuildSummary(cfg Config, res Resolution, bookings, issues []models.ValidatedBooking) models.Summary {
	s := models.Summary{
		GeneratedAt:       cfg.now(),
		TotalSelected:     len(res.Accounts),
		TotalBookings:     len(bookings),
		BookingIssueCount: len(issues),
		NotSelectedCount:  len(res.PaidNotSelected),
		UnmatchedCount:    len(res.Unmatched),
	}

	for _, a := range res.Accounts {
		switch a.Status {
		case models.AccountStatusPaid:
			s.PaidCount++
		case models.AccountStatusUnderpaid:
			s.UnderpaidCount++
		default:
			s.UnpaidCount++
		}
		s.MembershipCollected += a.PaidAmount
	}
	s.MembershipExpected = float64(s.TotalSelected) * cfg.AnnualFee

	// Rate is defined as 0 for an empty roster.
	if s.TotalSelected > 0 {
		s.MismatchRate = float64(s.UnderpaidCount+s.UnpaidCount) / float64(s.TotalSelected) * 100
	}

	for _, b := range bookings {
		s.BookingExpected += b.Expected
		s.BookingCollected += b.AmountPaid
	}

	return s
}
