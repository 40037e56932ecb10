package csvio

import (
	"io"

	"github.com/ntusports/reconcile-api/internal/models"
)

// Input source names used in load errors
const (
	SourceMembers  = "members"
	SourcePayments = "payments"
	SourceBookings = "bookings"
)

// Roster column names, matching the finance team's exports
const (
	colMemberID     = "StudentID"
	colFullName     = "FullName"
	colTeam         = "Team"
	colSelected     = "IsSelectedOfficialTeam"
	colAmount       = "Amount"
	colPaymentDate  = "PaymentDate"
	colBookingID    = "BookingID"
	colBookingStart = "BookingStart"
	colHours        = "Hours"
	colAmountPaid   = "AmountPaid"
)

// ReadMembers loads the club roster. Every row needs an identifier and a
// display name; membership of the selected squad is flagged with "Yes".
func ReadMembers(filename string, r io.Reader) ([]models.Member, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, &LoadError{Source: SourceMembers, Err: err}
	}

	index, err := headerIndex(rows, colMemberID, colFullName, colSelected)
	if err != nil {
		return nil, &LoadError{Source: SourceMembers, Err: err}
	}

	members := make([]models.Member, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		id := cell(row, index[colMemberID])
		if id == "" {
			return nil, loadErr(SourceMembers, "row %d: missing %s", rowNum, colMemberID)
		}
		name := cell(row, index[colFullName])
		if name == "" {
			return nil, loadErr(SourceMembers, "row %d: missing %s", rowNum, colFullName)
		}

		members = append(members, models.Member{
			MemberID: id,
			FullName: name,
			Team:     cell(row, colIdx(index, colTeam)),
			Selected: cell(row, index[colSelected]) == "Yes",
		})
	}
	return members, nil
}

// ReadPayments loads the membership payments export. The member identifier
// is optional; an absent identifier is kept as nil, never as "".
func ReadPayments(filename string, r io.Reader) ([]models.PaymentRecord, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, &LoadError{Source: SourcePayments, Err: err}
	}

	index, err := headerIndex(rows, colFullName, colAmount, colPaymentDate)
	if err != nil {
		return nil, &LoadError{Source: SourcePayments, Err: err}
	}
	idIdx, hasID := index[colMemberID]

	payments := make([]models.PaymentRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		amount, err := parseFloat(cell(row, index[colAmount]), SourcePayments, colAmount, rowNum)
		if err != nil {
			return nil, err
		}

		p := models.PaymentRecord{
			FullName:    cell(row, index[colFullName]),
			Amount:      amount,
			PaymentDate: cell(row, index[colPaymentDate]),
		}
		if hasID {
			if id := cell(row, idIdx); id != "" {
				p.MemberID = &id
			}
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// ReadBookings loads the external bookings export
func ReadBookings(filename string, r io.Reader) ([]models.BookingRecord, error) {
	rows, err := readRows(filename, r)
	if err != nil {
		return nil, &LoadError{Source: SourceBookings, Err: err}
	}

	index, err := headerIndex(rows, colBookingID, colFullName, colHours, colAmountPaid)
	if err != nil {
		return nil, &LoadError{Source: SourceBookings, Err: err}
	}

	bookings := make([]models.BookingRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		hours, err := parseFloat(cell(row, index[colHours]), SourceBookings, colHours, rowNum)
		if err != nil {
			return nil, err
		}
		paid, err := parseFloat(cell(row, index[colAmountPaid]), SourceBookings, colAmountPaid, rowNum)
		if err != nil {
			return nil, err
		}

		bookings = append(bookings, models.BookingRecord{
			BookingID:    cell(row, index[colBookingID]),
			FullName:     cell(row, index[colFullName]),
			BookingStart: cell(row, colIdx(index, colBookingStart)),
			Hours:        hours,
			AmountPaid:   paid,
		})
	}
	return bookings, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
