package engine

import (
	"testing"

	"github.com/ntusports/reconcile-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func testConfig() Config {
	return Config{AnnualFee: 120, HourlyRate: 5, FuzzyCutoff: 0.86}
}

func selectedMember(id, name, team string) models.Member {
	return models.Member{MemberID: id, FullName: name, Team: team, Selected: true}
}

func TestResolveExactIDMatch(t *testing.T) {
	members := []models.Member{
		selectedMember("S001", "John Smith", "Badminton 1st"),
		selectedMember("S002", "Maria Lopez", "Badminton 2nd"),
	}
	payments := []models.PaymentRecord{
		{MemberID: strPtr("S002"), FullName: "Maria Lopez", Amount: 120, PaymentDate: "2024-10-01"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	require.Len(t, res.Resolved, 1)
	rp := res.Resolved[0]
	assert.Equal(t, models.MatchTypeExactID, rp.MatchType)
	require.NotNil(t, rp.ResolvedMemberID)
	// The resolved ID equals the payment's own identifier.
	assert.Equal(t, *rp.MemberID, *rp.ResolvedMemberID)

	assert.Equal(t, 0.0, res.Accounts[0].PaidAmount)
	assert.Equal(t, models.AccountStatusUnpaid, res.Accounts[0].Status)
	assert.Equal(t, 120.0, res.Accounts[1].PaidAmount)
	assert.Equal(t, models.AccountStatusPaid, res.Accounts[1].Status)
	assert.Equal(t, 0.0, res.Accounts[1].Outstanding)
	require.NotNil(t, res.Accounts[1].LastPaymentDate)
	assert.Equal(t, "2024-10-01", *res.Accounts[1].LastPaymentDate)
	assert.Empty(t, res.Unmatched)
	assert.Empty(t, res.Suggestions)
}

func TestResolveFuzzyFallbackAndSuggestion(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "Badminton 1st")}
	payments := []models.PaymentRecord{
		// Unknown ID forces the fuzzy pass; one edit away from the roster name.
		{MemberID: strPtr("S999"), FullName: "Jon Smith", Amount: 70, PaymentDate: "2024-10-02"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	require.Len(t, res.Resolved, 1)
	assert.Equal(t, models.MatchTypeFuzzyName, res.Resolved[0].MatchType)
	require.NotNil(t, res.Resolved[0].ResolvedMemberID)
	assert.Equal(t, "S001", *res.Resolved[0].ResolvedMemberID)

	assert.Equal(t, 70.0, res.Accounts[0].PaidAmount)
	assert.Equal(t, models.AccountStatusUnderpaid, res.Accounts[0].Status)
	assert.Equal(t, 50.0, res.Accounts[0].Outstanding)

	require.Len(t, res.Suggestions, 1)
	assert.Equal(t, "Jon Smith", res.Suggestions[0].EnteredName)
	assert.Equal(t, "John Smith", res.Suggestions[0].SuggestedName)
}

func TestResolveNoSuggestionWhenNamesNormalizeEqual(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "")}
	payments := []models.PaymentRecord{
		// No ID, but the normalized names are identical, so no suggestion.
		{FullName: "  JOHN  SMITH ", Amount: 120, PaymentDate: "2024-10-02"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	assert.Equal(t, models.MatchTypeFuzzyName, res.Resolved[0].MatchType)
	assert.Empty(t, res.Suggestions)
}

func TestResolveFuzzyTieBreakFirstSeen(t *testing.T) {
	members := []models.Member{
		selectedMember("S001", "Ann Lee X", ""),
		selectedMember("S002", "Ann Lee Y", ""),
	}
	payments := []models.PaymentRecord{
		{FullName: "Ann Lee Z", Amount: 40, PaymentDate: "2024-10-03"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	require.NotNil(t, res.Resolved[0].ResolvedMemberID)
	// Equal scores: the earlier roster position wins.
	assert.Equal(t, "S001", *res.Resolved[0].ResolvedMemberID)
	assert.Equal(t, 40.0, res.Accounts[0].PaidAmount)
	assert.Equal(t, 0.0, res.Accounts[1].PaidAmount)
}

func TestResolveStaticPoolAllowsInstallments(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "")}
	payments := []models.PaymentRecord{
		{FullName: "Jon Smith", Amount: 60, PaymentDate: "2024-09-01"},
		{FullName: "John Smyth", Amount: 60, PaymentDate: "2024-09-15"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	// The fuzzy pool does not shrink: both installments land on one account.
	assert.Equal(t, models.MatchTypeFuzzyName, res.Resolved[0].MatchType)
	assert.Equal(t, models.MatchTypeFuzzyName, res.Resolved[1].MatchType)
	assert.Equal(t, 120.0, res.Accounts[0].PaidAmount)
	assert.Equal(t, models.AccountStatusPaid, res.Accounts[0].Status)
	require.NotNil(t, res.Accounts[0].LastPaymentDate)
	assert.Equal(t, "2024-09-15", *res.Accounts[0].LastPaymentDate)
}

func TestResolveLastPaymentDateFollowsProcessingOrder(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "")}
	payments := []models.PaymentRecord{
		// Fuzzy-matched payment carries the chronologically earlier date but
		// is processed in the later pass, so it wins.
		{FullName: "Jon Smith", Amount: 50, PaymentDate: "2024-01-01"},
		{MemberID: strPtr("S001"), FullName: "John Smith", Amount: 50, PaymentDate: "2024-06-01"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	require.NotNil(t, res.Accounts[0].LastPaymentDate)
	assert.Equal(t, "2024-01-01", *res.Accounts[0].LastPaymentDate)
}

func TestResolveUnmatchedPayment(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "")}
	payments := []models.PaymentRecord{
		{MemberID: strPtr("S999"), FullName: "Zzyzx Quux", Amount: 25, PaymentDate: "2024-10-04"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	assert.Equal(t, models.MatchTypeUnmatched, res.Resolved[0].MatchType)
	assert.Nil(t, res.Resolved[0].ResolvedMemberID)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "Zzyzx Quux", res.Unmatched[0].FullName)
	assert.Empty(t, res.PaidNotSelected)
}

func TestResolveKnownButNotSelectedOverlapsUnmatched(t *testing.T) {
	members := []models.Member{
		selectedMember("S001", "John Smith", ""),
		{MemberID: "S050", FullName: "Maria Garcia", Team: "Social", Selected: false},
	}
	payments := []models.PaymentRecord{
		{FullName: "Maria Garcia", Amount: 120, PaymentDate: "2024-10-05"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	// Known roster name, not on the selected list: lands in both queues.
	require.Len(t, res.PaidNotSelected, 1)
	assert.Equal(t, "Maria Garcia", res.PaidNotSelected[0].FullName)
	require.Len(t, res.Unmatched, 1)
	assert.Equal(t, "Maria Garcia", res.Unmatched[0].FullName)
}

func TestResolveKnownByIDNotSelected(t *testing.T) {
	members := []models.Member{
		selectedMember("S001", "John Smith", ""),
		{MemberID: "S050", FullName: "Maria Garcia", Selected: false},
	}
	payments := []models.PaymentRecord{
		// ID belongs to a non-selected member and the name fuzzes to nothing.
		{MemberID: strPtr("S050"), FullName: "M G", Amount: 120, PaymentDate: "2024-10-06"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	assert.Equal(t, models.MatchTypeUnmatched, res.Resolved[0].MatchType)
	require.Len(t, res.PaidNotSelected, 1)
	assert.Equal(t, "S050", *res.PaidNotSelected[0].MemberID)
}

func TestResolveEmptyNameSkipsFuzzyPass(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "")}
	payments := []models.PaymentRecord{
		{FullName: "   ", Amount: 10, PaymentDate: "2024-10-07"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	assert.Equal(t, models.MatchTypeUnmatched, res.Resolved[0].MatchType)
	assert.Equal(t, 0.0, res.Accounts[0].PaidAmount)
}

func TestResolveOverpaymentClampsOutstanding(t *testing.T) {
	members := []models.Member{selectedMember("S001", "John Smith", "")}
	payments := []models.PaymentRecord{
		{MemberID: strPtr("S001"), FullName: "John Smith", Amount: 150, PaymentDate: "2024-10-08"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	assert.Equal(t, 150.0, res.Accounts[0].PaidAmount)
	assert.Equal(t, 0.0, res.Accounts[0].Outstanding)
	assert.Equal(t, models.AccountStatusPaid, res.Accounts[0].Status)
}

func TestResolvePaidAmountEqualsSumOfResolvedPayments(t *testing.T) {
	members := []models.Member{
		selectedMember("S001", "John Smith", ""),
		selectedMember("S002", "Maria Lopez", ""),
	}
	payments := []models.PaymentRecord{
		{MemberID: strPtr("S001"), FullName: "John Smith", Amount: 40, PaymentDate: "2024-01-01"},
		{MemberID: strPtr("S001"), FullName: "John Smith", Amount: 35, PaymentDate: "2024-02-01"},
		{FullName: "Maria Lopes", Amount: 120, PaymentDate: "2024-03-01"},
		{FullName: "Unknown Person", Amount: 99, PaymentDate: "2024-04-01"},
	}

	res := NewResolver(testConfig()).Resolve(members, payments)

	sums := make(map[string]float64)
	for _, rp := range res.Resolved {
		if rp.ResolvedMemberID != nil {
			sums[*rp.ResolvedMemberID] += rp.Amount
		}
	}
	for _, a := range res.Accounts {
		assert.InDelta(t, sums[a.MemberID], a.PaidAmount, 1e-9, "account %s", a.MemberID)
	}
}
