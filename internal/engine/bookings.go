package engine

import (
	"github.com/ntusports/reconcile-api/internal/models"
)

// FeeEpsilon absorbs floating-point rounding in fee comparisons
const FeeEpsilon = 0.01

// ValidateBookings checks every booking against the hourly rate. Bookings
// are self-contained, so no identity matching is involved: each record is
// validated independently and the issues slice is the subset needing review.
func ValidateBookings(rate float64, bookings []models.BookingRecord) (all, issues []models.ValidatedBooking) {
	for _, b := range bookings {
		v := models.ValidatedBooking{
			BookingRecord: b,
			Expected:      b.Hours * rate,
		}
		v.Underpaid = b.AmountPaid < v.Expected-FeeEpsilon
		v.MissingPayment = b.AmountPaid <= 0

		all = append(all, v)
		if v.HasIssue() {
			issues = append(issues, v)
		}
	}
	return all, issues
}
