package models

import "time"

// Summary holds the aggregate statistics for one reconciliation run.
// All quantities are deterministic folds over the run outputs.
type Summary struct {
	GeneratedAt time.Time `json:"generated_at"`

	// Membership
	TotalSelected       int     `json:"total_selected"`
	PaidCount           int     `json:"paid_count"`
	UnderpaidCount      int     `json:"underpaid_count"`
	UnpaidCount         int     `json:"unpaid_count"`
	MismatchRate        float64 `json:"mismatch_rate"`
	MembershipExpected  float64 `json:"membership_expected"`
	MembershipCollected float64 `json:"membership_collected"`

	// Bookings
	TotalBookings     int     `json:"total_bookings"`
	BookingExpected   float64 `json:"booking_expected"`
	BookingCollected  float64 `json:"booking_collected"`
	BookingIssueCount int     `json:"booking_issue_count"`

	// Review queues
	NotSelectedCount int `json:"not_selected_count"`
	UnmatchedCount   int `json:"unmatched_count"`
}

// MembershipDifference is collected minus expected (negative = shortfall)
func (s *Summary) MembershipDifference() float64 {
	return s.MembershipCollected - s.MembershipExpected
}

// BookingDifference is collected minus expected (negative = shortfall)
func (s *Summary) BookingDifference() float64 {
	return s.BookingCollected - s.BookingExpected
}
