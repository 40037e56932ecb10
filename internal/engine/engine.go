// Package engine reconciles membership fee payments and pay-per-use facility
// bookings against the club roster. A run is a pure function of its three
// input collections plus the run configuration: identical, identically
// ordered inputs always produce identical outputs. Input ordering is part of
// the contract because fuzzy tie-breaks and last-payment-date attribution
// follow processing order.
package engine

import (
	"time"

	"github.com/ntusports/reconcile-api/internal/models"
)

// Config carries the externally tunable reconciliation constants. It is
// passed explicitly into every run; the engine holds no package-level state.
type Config struct {
	AnnualFee   float64
	HourlyRate  float64
	FuzzyCutoff float64

	// Similarity overrides the name-similarity algorithm. Nil selects
	// LevenshteinRatio.
	Similarity SimilarityFunc

	// Now overrides the summary timestamp source. Nil selects time.Now.
	Now func() time.Time
}

func (c Config) similarity() SimilarityFunc {
	if c.Similarity != nil {
		return c.Similarity
	}
	return LevenshteinRatio
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Result bundles the five output collections and the summary of one run.
// Either all of them are produced from a consistent snapshot, or none are.
type Result struct {
	Accounts        []models.MemberAccount    `json:"accounts"`
	Resolved        []models.ResolvedPayment  `json:"resolved"`
	Suggestions     []models.FuzzySuggestion  `json:"suggestions"`
	PaidNotSelected []models.PaymentRecord    `json:"paid_not_selected"`
	Unmatched       []models.ResolvedPayment  `json:"unmatched"`
	Bookings        []models.ValidatedBooking `json:"bookings"`
	BookingIssues   []models.ValidatedBooking `json:"booking_issues"`
	Summary         models.Summary            `json:"summary"`
}

// Run executes one full batch reconciliation over materialized, immutable
// input snapshots. Single-threaded and synchronous throughout.
func Run(cfg Config, members []models.Member, payments []models.PaymentRecord, bookings []models.BookingRecord) Result {
	res := NewResolver(cfg).Resolve(members, payments)
	validated, issues := ValidateBookings(cfg.HourlyRate, bookings)

	return Result{
		Accounts:        res.Accounts,
		Resolved:        res.Resolved,
		Suggestions:     res.Suggestions,
		PaidNotSelected: res.PaidNotSelected,
		Unmatched:       res.Unmatched,
		Bookings:        validated,
		BookingIssues:   issues,
		Summary:         BuildSummary(cfg, res, validated, issues),
	}
}
