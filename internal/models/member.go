package models

// Member represents a row from the club roster
type Member struct {
	MemberID       string `json:"member_id"`
	FullName       string `json:"full_name"`
	Team           string `json:"team"`
	Selected       bool   `json:"selected"`
	NormalizedName string `json:"-"` // derived, comparison only
}

// Account status constants
const (
	AccountStatusPaid      = "paid"
	AccountStatusUnderpaid = "underpaid"
	AccountStatusUnpaid    = "unpaid"
)

// MemberAccount is the running fee balance for one selected member.
// paidAmount accumulates as payments are matched; Status is only valid
// after finalization.
type MemberAccount struct {
	MemberID        string  `json:"member_id"`
	FullName        string  `json:"full_name"`
	Team            string  `json:"team"`
	PaidAmount      float64 `json:"paid_amount"`
	Status          string  `json:"status"`
	Outstanding     float64 `json:"outstanding"`
	LastPaymentDate *string `json:"last_payment_date"`
}

// IsSettled returns true if the member has paid the full annual fee
func (a *MemberAccount) IsSettled() bool {
	return a.Status == AccountStatusPaid
}
