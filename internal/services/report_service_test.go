package services

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/ntusports/reconcile-api/internal/engine"
	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *engine.Result {
	id := "S001"
	date := "2024-03-01"
	return &engine.Result{
		Accounts: []models.MemberAccount{
			{MemberID: "S001", FullName: "John Smith", Team: "Rugby", PaidAmount: 120, Status: models.AccountStatusPaid, Outstanding: 0, LastPaymentDate: &date},
			{MemberID: "S002", FullName: "Ann Lee", Team: "Netball", PaidAmount: 0, Status: models.AccountStatusUnpaid, Outstanding: 120},
		},
		Resolved: []models.ResolvedPayment{
			{PaymentRecord: models.PaymentRecord{MemberID: &id, FullName: "John Smith", Amount: 120, PaymentDate: date}, ResolvedMemberID: &id, MatchType: models.MatchTypeExactID},
		},
		Suggestions: []models.FuzzySuggestion{
			{EnteredName: "Jon Smith", SuggestedName: "John Smith"},
		},
		PaidNotSelected: []models.PaymentRecord{
			{FullName: "Maria Garcia", Amount: 50, PaymentDate: "2024-02-01"},
		},
		Unmatched: []models.ResolvedPayment{
			{PaymentRecord: models.PaymentRecord{FullName: "Zzyzx Quux", Amount: 10, PaymentDate: "2024-02-02"}, MatchType: models.MatchTypeUnmatched},
		},
		Bookings: []models.ValidatedBooking{
			{BookingRecord: models.BookingRecord{BookingID: "B1", FullName: "Acme Corp", BookingStart: "2024-04-01 18:00", Hours: 2, AmountPaid: 10}, Expected: 10},
			{BookingRecord: models.BookingRecord{BookingID: "B2", FullName: "Beta Ltd", Hours: 3, AmountPaid: 0}, Expected: 15, MissingPayment: true},
		},
		BookingIssues: []models.ValidatedBooking{
			{BookingRecord: models.BookingRecord{BookingID: "B2", FullName: "Beta Ltd", Hours: 3, AmountPaid: 0}, Expected: 15, MissingPayment: true},
		},
		Summary: models.Summary{
			GeneratedAt:         time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			TotalSelected:       2,
			PaidCount:           1,
			UnpaidCount:         1,
			MismatchRate:        50,
			MembershipExpected:  240,
			MembershipCollected: 120,
			TotalBookings:       2,
			BookingExpected:     25,
			BookingCollected:    10,
			BookingIssueCount:   1,
			NotSelectedCount:    1,
			UnmatchedCount:      1,
		},
	}
}

func parseCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestMemberStatusCSV(t *testing.T) {
	svc := NewReportService()

	buf, err := svc.ArtifactCSV(sampleResult(), ArtifactMemberStatus)
	require.NoError(t, err)

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"StudentID", "FullName", "Team", "PaidAmount", "PaidStatus", "Outstanding", "PaymentDate"}, rows[0])
	assert.Equal(t, []string{"S001", "John Smith", "Rugby", "120.00", "paid", "0.00", "2024-03-01"}, rows[1])
	assert.Equal(t, []string{"S002", "Ann Lee", "Netball", "0.00", "unpaid", "120.00", ""}, rows[2])
}

func TestResolvedCSVIncludesMatchType(t *testing.T) {
	svc := NewReportService()

	buf, err := svc.ArtifactCSV(sampleResult(), ArtifactResolved)
	require.NoError(t, err)

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, "S001", rows[1][4])
	assert.Equal(t, "exact_id", rows[1][5])
}

func TestUnmatchedCSVEmptyIDColumn(t *testing.T) {
	svc := NewReportService()

	buf, err := svc.ArtifactCSV(sampleResult(), ArtifactUnmatched)
	require.NoError(t, err)

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][0])
	assert.Equal(t, "Zzyzx Quux", rows[1][1])
	assert.Equal(t, "unmatched", rows[1][4])
}

func TestBookingIssuesCSVOnlyFlagged(t *testing.T) {
	svc := NewReportService()

	buf, err := svc.ArtifactCSV(sampleResult(), ArtifactBookingIssues)
	require.NoError(t, err)

	rows := parseCSV(t, buf.String())
	require.Len(t, rows, 2)
	assert.Equal(t, "B2", rows[1][0])
	assert.Equal(t, "true", rows[1][7])
}

func TestArtifactCSVUnknownName(t *testing.T) {
	svc := NewReportService()

	_, err := svc.ArtifactCSV(sampleResult(), "nope")
	assert.ErrorIs(t, err, ErrUnknownArtifact)
}

func TestArtifactsListsAllSeven(t *testing.T) {
	svc := NewReportService()

	names := svc.Artifacts()
	assert.Len(t, names, 7)
	for _, name := range names {
		_, err := svc.ArtifactCSV(sampleResult(), name)
		assert.NoError(t, err, name)
	}
}

func TestSummaryText(t *testing.T) {
	svc := NewReportService()

	text := svc.SummaryText(sampleResult())
	assert.Contains(t, text, "Generated: 2024-06-01 12:00:00")
	assert.Contains(t, text, "Total selected members: 2")
	assert.Contains(t, text, "Mismatch rate: 50.0%")
	assert.Contains(t, text, "Expected: £240.00")
	assert.Contains(t, text, "Difference: £-120.00")
	assert.Contains(t, text, "Unmatched payments (need review): 1")
}
