package model

import (
	availabilityModel "villa/internal/domains/availability/model"
	"villa/shared/model"
	"villa/shared/money"
	"villa/shared/timezone"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID              = "id"
	FieldEmail           = "email"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldTotal           = "total"
	FieldAmountPaid      = "amount_paid"
	FieldRemainingAmount = "remaining_amount"
	FieldPaymentType     = "payment_type"
	FieldPaymentStatus   = "payment_status"
	FieldPaymentIntentID = "payment_intent_id"
	FieldCreatedAt       = "created_at"

	ReferencePrefix    = "VPB-"
	DefaultArrivalTime = "14:00"
)

type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentDeposit PaymentType = "deposit"
	// PaymentBalance only appears in intent metadata for the remaining balance charge.
	PaymentBalance PaymentType = "balance"
)

type PaymentStatus string

const (
	StatusPending   PaymentStatus = "pending"
	StatusSucceeded PaymentStatus = "succeeded"
	StatusFailed    PaymentStatus = "failed"
	StatusCanceled  PaymentStatus = "canceled"
)

// Booking amounts are minor units of Currency. AmountPaid + RemainingAmount == Total.
type Booking struct {
	ID              string         `db:"id"`
	GuestName       string         `db:"guest_name"`
	Email           string         `db:"email"`
	CheckInDate     timezone.Date  `db:"check_in_date"`
	CheckOutDate    timezone.Date  `db:"check_out_date"`
	Adults          int            `db:"adults"`
	Kids            int            `db:"kids"`
	Currency        money.Currency `db:"currency"`
	Total           money.Amount   `db:"total"`
	AmountPaid      money.Amount   `db:"amount_paid"`
	RemainingAmount money.Amount   `db:"remaining_amount"`
	PaymentType     PaymentType    `db:"payment_type"`
	PaymentStatus   PaymentStatus  `db:"payment_status"`
	PaymentIntentID string         `db:"payment_intent_id"`
	DiscountCode    string         `db:"discount_code"`
	AirportTransfer bool           `db:"airport_transfer"`
	ArrivalTime     string         `db:"arrival_time"`
	SpecialRequests string         `db:"special_requests"`
	model.Metadata
}

func (b Booking) Nights() int {
	return b.CheckInDate.DaysUntil(b.CheckOutDate)
}

// Reference is the guest-facing booking number.
func (b Booking) Reference() string {
	return ReferencePrefix + b.CheckInDate.Compact()
}

func (b Booking) Stay() availabilityModel.BlockedRange {
	return availabilityModel.BlockedRange{
		Start:  b.CheckInDate,
		End:    b.CheckOutDate,
		Source: availabilityModel.SourceBookings,
	}
}

func (b Booking) HasBalance() bool {
	return b.PaymentStatus == StatusSucceeded && b.RemainingAmount > 0
}

// BalanceDueDate is leadDays before check-in.
func (b Booking) BalanceDueDate(leadDays int) timezone.Date {
	return b.CheckInDate.AddDays(-leadDays)
}

// SplitPayment returns what is charged now and what is left for later.
// Deposits are only split when there is something to charge.
func SplitPayment(total money.Amount, paymentType PaymentType, depositPercent int64) (upfront, remaining money.Amount) {
	if paymentType == PaymentDeposit && total > 0 {
		return total.Split(depositPercent)
	}

	return total, 0
}
