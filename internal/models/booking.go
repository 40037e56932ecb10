package models

// BookingRecord is one row from the external bookings export. Immutable input.
type BookingRecord struct {
	BookingID    string  `json:"booking_id"`
	FullName     string  `json:"full_name"`
	BookingStart string  `json:"booking_start"`
	Hours        float64 `json:"hours"`
	AmountPaid   float64 `json:"amount_paid"`
}

// ValidatedBooking is a booking annotated with its fee check result
type ValidatedBooking struct {
	BookingRecord
	Expected       float64 `json:"expected"`
	Underpaid      bool    `json:"underpaid"`
	MissingPayment bool    `json:"missing_payment"`
}

// HasIssue returns true if the booking needs manual review
func (b *ValidatedBooking) HasIssue() bool {
	return b.Underpaid || b.MissingPayment
}
