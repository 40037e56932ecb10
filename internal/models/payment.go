package models

// PaymentRecord is one row from the membership payments export. Immutable input.
type PaymentRecord struct {
	MemberID    *string `json:"member_id"`
	FullName    string  `json:"full_name"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

// Match type constants
const (
	MatchTypeExactID   = "exact_id"
	MatchTypeFuzzyName = "fuzzy_name"
	MatchTypeUnmatched = "unmatched"
)

// ResolvedPayment is the audit trail entry for one input payment: the
// original record plus how (or whether) it was resolved to a selected member.
// Created during resolution, never mutated afterward.
type ResolvedPayment struct {
	PaymentRecord
	ResolvedMemberID *string `json:"resolved_member_id"`
	MatchType        string  `json:"match_type"`
}

// IsMatched returns true if the payment resolved to a selected member
func (r *ResolvedPayment) IsMatched() bool {
	return r.MatchType != MatchTypeUnmatched
}

// FuzzySuggestion pairs a payment name with the roster name it was fuzzy
// matched to. Emitted only when the normalized strings differ.
type FuzzySuggestion struct {
	EnteredName   string `json:"entered_name"`
	SuggestedName string `json:"suggested_name"`
}
