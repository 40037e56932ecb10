package engine

import (
	"testing"
	"time"

	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildSummary(t *testing.T) {
	fixed := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	cfg := Config{AnnualFee: 120, HourlyRate: 5, FuzzyCutoff: 0.86, Now: func() time.Time { return fixed }}

	res := Resolution{
		Accounts: []models.MemberAccount{
			{MemberID: "S001", Status: models.AccountStatusPaid, PaidAmount: 120},
			{MemberID: "S002", Status: models.AccountStatusUnderpaid, PaidAmount: 50},
			{MemberID: "S003", Status: models.AccountStatusUnpaid, PaidAmount: 0},
			{MemberID: "S004", Status: models.AccountStatusPaid, PaidAmount: 130},
		},
		PaidNotSelected: []models.PaymentRecord{{FullName: "Maria Garcia", Amount: 120}},
		Unmatched: []models.ResolvedPayment{
			{PaymentRecord: models.PaymentRecord{FullName: "Unknown"}, MatchType: models.MatchTypeUnmatched},
		},
	}
	bookings := []models.ValidatedBooking{
		{BookingRecord: models.BookingRecord{AmountPaid: 15}, Expected: 15},
		{BookingRecord: models.BookingRecord{AmountPaid: 10}, Expected: 15, Underpaid: true},
	}
	issues := bookings[1:]

	s := BuildSummary(cfg, res, bookings, issues)

	assert.Equal(t, fixed, s.GeneratedAt)
	assert.Equal(t, 4, s.TotalSelected)
	assert.Equal(t, 2, s.PaidCount)
	assert.Equal(t, 1, s.UnderpaidCount)
	assert.Equal(t, 1, s.UnpaidCount)
	assert.InDelta(t, 50.0, s.MismatchRate, 1e-9)
	assert.InDelta(t, 480.0, s.MembershipExpected, 1e-9)
	assert.InDelta(t, 300.0, s.MembershipCollected, 1e-9)
	assert.InDelta(t, -180.0, s.MembershipDifference(), 1e-9)

	assert.Equal(t, 2, s.TotalBookings)
	assert.InDelta(t, 30.0, s.BookingExpected, 1e-9)
	assert.InDelta(t, 25.0, s.BookingCollected, 1e-9)
	assert.InDelta(t, -5.0, s.BookingDifference(), 1e-9)
	assert.Equal(t, 1, s.BookingIssueCount)

	assert.Equal(t, 1, s.NotSelectedCount)
	assert.Equal(t, 1, s.UnmatchedCount)
}

func TestBuildSummaryZeroSelectedNoDivisionError(t *testing.T) {
	cfg := Config{AnnualFee: 120, HourlyRate: 5, FuzzyCutoff: 0.86}

	s := BuildSummary(cfg, Resolution{}, nil, nil)

	assert.Equal(t, 0, s.TotalSelected)
	assert.Equal(t, 0.0, s.MismatchRate)
	assert.Equal(t, 0.0, s.MembershipExpected)
}
