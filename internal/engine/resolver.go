package engine

import (
	"math"

	"github.com/ntusports/reconcile-api/internal/models"
)

// Resolution holds everything the matching passes produce: the mutated
// member accounts, the per-payment audit trail, and the review queues.
type Resolution struct {
	Accounts        []models.MemberAccount
	Resolved        []models.ResolvedPayment
	Suggestions     []models.FuzzySuggestion
	PaidNotSelected []models.PaymentRecord
	Unmatched       []models.ResolvedPayment
}

// Resolver matches payment records to selected members, first by exact
// member ID, then by fuzzy name against a static snapshot of the roster.
type Resolver struct {
	fee    float64
	cutoff float64
	sim    SimilarityFunc
}

// NewResolver creates a resolver bound to the run configuration
func NewResolver(cfg Config) *Resolver {
	return &Resolver{
		fee:    cfg.AnnualFee,
		cutoff: cfg.FuzzyCutoff,
		sim:    cfg.similarity(),
	}
}

// Resolve runs both matching passes over the payments in input order.
// Absence of a match is a normal outcome, never an error.
func (r *Resolver) Resolve(members []models.Member, payments []models.PaymentRecord) Resolution {
	// One account per selected member, in roster order. The normalized name
	// snapshot is taken here, before either pass: an already-settled member
	// stays a valid fuzzy target because members may pay in installments.
	var accounts []models.MemberAccount
	var names []string
	idIndex := make(map[string]int)
	for _, m := range members {
		if !m.Selected {
			continue
		}
		if _, seen := idIndex[m.MemberID]; !seen {
			idIndex[m.MemberID] = len(accounts)
		}
		names = append(names, Normalize(m.FullName))
		accounts = append(accounts, models.MemberAccount{
			MemberID:    m.MemberID,
			FullName:    m.FullName,
			Team:        m.Team,
			Status:      models.AccountStatusUnpaid,
			Outstanding: r.fee,
		})
	}

	resolved := make([]models.ResolvedPayment, len(payments))
	consumed := make([]bool, len(payments))
	for i, p := range payments {
		resolved[i] = models.ResolvedPayment{
			PaymentRecord: p,
			MatchType:     models.MatchTypeUnmatched,
		}
	}

	// Exact pass: match by member ID.
	for i, p := range payments {
		if p.MemberID == nil || *p.MemberID == "" {
			continue
		}
		idx, ok := idIndex[*p.MemberID]
		if !ok {
			continue
		}
		r.credit(&accounts[idx], p)
		consumed[i] = true
		memberID := accounts[idx].MemberID
		resolved[i].ResolvedMemberID = &memberID
		resolved[i].MatchType = models.MatchTypeExactID
	}

	// Fuzzy pass: best name match over the static snapshot. Strict-greater
	// comparison keeps the earliest snapshot position on score ties.
	var suggestions []models.FuzzySuggestion
	for i, p := range payments {
		if consumed[i] {
			continue
		}
		name := Normalize(p.FullName)
		if name == "" {
			continue
		}
		best, ok := r.bestMatch(name, names)
		if !ok {
			continue
		}
		r.credit(&accounts[best], p)
		consumed[i] = true
		memberID := accounts[best].MemberID
		resolved[i].ResolvedMemberID = &memberID
		resolved[i].MatchType = models.MatchTypeFuzzyName
		if name != names[best] {
			suggestions = append(suggestions, models.FuzzySuggestion{
				EnteredName:   p.FullName,
				SuggestedName: accounts[best].FullName,
			})
		}
	}

	// Status is classified only after every payment has been folded in, so
	// partial installments settle on the true total.
	for i := range accounts {
		accounts[i].Status = statusFor(accounts[i].PaidAmount, r.fee)
	}

	return Resolution{
		Accounts:        accounts,
		Resolved:        resolved,
		Suggestions:     suggestions,
		PaidNotSelected: r.classifyKnown(members, payments, consumed),
		Unmatched:       collectUnmatched(resolved),
	}
}

// credit folds one payment into an account. The last payment date is
// last-writer-wins in processing order, not chronological order.
func (r *Resolver) credit(a *models.MemberAccount, p models.PaymentRecord) {
	a.PaidAmount += p.Amount
	a.Outstanding = math.Max(0, r.fee-a.PaidAmount)
	date := p.PaymentDate
	a.LastPaymentDate = &date
}

// bestMatch returns the snapshot index with the highest similarity score at
// or above the cutoff, or false when nothing clears it.
func (r *Resolver) bestMatch(name string, pool []string) (int, bool) {
	bestIdx := -1
	bestScore := 0.0
	for i, candidate := range pool {
		score := r.sim(name, candidate)
		if score >= r.cutoff && score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	return bestIdx, bestIdx >= 0
}

// classifyKnown picks out leftover payments that belong to somebody on the
// full roster (selected or not): a known person who simply is not on the
// selected list. This set may overlap with the unmatched queue; the overlap
// is an accepted characteristic, not deduplicated, because "unmatched" only
// reflects failure to match a selected member.
func (r *Resolver) classifyKnown(members []models.Member, payments []models.PaymentRecord, consumed []bool) []models.PaymentRecord {
	knownIDs := make(map[string]bool)
	knownNames := make(map[string]bool)
	for _, m := range members {
		if m.MemberID != "" {
			knownIDs[m.MemberID] = true
		}
		if n := Normalize(m.FullName); n != "" {
			knownNames[n] = true
		}
	}

	var known []models.PaymentRecord
	for i, p := range payments {
		if consumed[i] {
			continue
		}
		matched := p.MemberID != nil && knownIDs[*p.MemberID]
		if !matched {
			matched = knownNames[Normalize(p.FullName)]
		}
		if matched {
			known = append(known, p)
		}
	}
	return known
}

func collectUnmatched(resolved []models.ResolvedPayment) []models.ResolvedPayment {
	var unmatched []models.ResolvedPayment
	for _, rp := range resolved {
		if rp.MatchType == models.MatchTypeUnmatched {
			unmatched = append(unmatched, rp)
		}
	}
	return unmatched
}

// statusFor classifies a final paid total against the annual fee
func statusFor(paid, fee float64) string {
	switch {
	case paid >= fee:
		return models.AccountStatusPaid
	case paid > 0:
		return models.AccountStatusUnderpaid
	default:
		return models.AccountStatusUnpaid
	}
}
