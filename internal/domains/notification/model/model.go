package model

import (
	"fmt"
	"time"
	bookingModel "villa/internal/domains/booking/model"
)

type Kind string

const (
	KindBookingConfirmed Kind = "booking.confirmed"
	KindBalancePaid      Kind = "booking.balance_paid"
	KindBalanceReminder  Kind = "booking.balance_reminder"
	KindPreArrival       Kind = "booking.pre_arrival"
)

const (
	SubjectGuestConfirmation = "%s - Your Booking Confirmation"
	SubjectOwnerNotification = "New Booking Notification - %s"
	SubjectBalancePaid       = "%s - Final Payment Confirmation"
	SubjectBalanceReminder   = "%s - Final Payment Reminder (%d Days)"
	SubjectPreArrival        = "%s - Prepare for Your Stay"
)

const (
	TemplateGuestConfirmation = "guest_confirmation.html"
	TemplateOwnerNotification = "owner_notification.html"
	TemplateBalancePaid       = "balance_paid.html"
	TemplateBalanceReminder   = "balance_reminder.html"
	TemplatePreArrival        = "pre_arrival.html"
)

// Event is the payload published to the booking topic.
type Event struct {
	Type       Kind      `json:"type"`
	BookingID  string    `json:"booking_id"`
	Reference  string    `json:"reference"`
	Email      string    `json:"email"`
	CheckIn    string    `json:"check_in_date"`
	CheckOut   string    `json:"check_out_date"`
	Currency   string    `json:"currency"`
	Total      float64   `json:"total"`
	AmountPaid float64   `json:"amount_paid"`
	Remaining  float64   `json:"remaining_amount"`
	DaysLeft   int       `json:"days_left,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(kind Kind, booking bookingModel.Booking, daysLeft int, at time.Time) Event {
	return Event{
		Type:       kind,
		BookingID:  booking.ID,
		Reference:  booking.Reference(),
		Email:      booking.Email,
		CheckIn:    booking.CheckInDate.String(),
		CheckOut:   booking.CheckOutDate.String(),
		Currency:   string(booking.Currency),
		Total:      booking.Total.Major(),
		AmountPaid: booking.AmountPaid.Major(),
		Remaining:  booking.RemainingAmount.Major(),
		DaysLeft:   daysLeft,
		OccurredAt: at,
	}
}

func Subject(kind Kind, property string, daysLeft int) string {
	switch kind {
	case KindBookingConfirmed:
		return fmt.Sprintf(SubjectGuestConfirmation, property)
	case KindBalancePaid:
		return fmt.Sprintf(SubjectBalancePaid, property)
	case KindBalanceReminder:
		return fmt.Sprintf(SubjectBalanceReminder, property, daysLeft)
	case KindPreArrival:
		return fmt.Sprintf(SubjectPreArrival, property)
	default:
		return property
	}
}

func Template(kind Kind) string {
	switch kind {
	case KindBalancePaid:
		return TemplateBalancePaid
	case KindBalanceReminder:
		return TemplateBalanceReminder
	case KindPreArrival:
		return TemplatePreArrival
	default:
		return TemplateGuestConfirmation
	}
}

// EmailData is rendered into every template. Amounts are already formatted.
type EmailData struct {
	PropertyName    string
	Location        string
	ContactEmail    string
	Reference       string
	GuestName       string
	Email           string
	CheckIn         string
	CheckOut        string
	BalanceDue      string
	Nights          int
	Adults          int
	Kids            int
	Currency        string
	Total           string
	DailyRate       string
	AmountPaid      string
	Remaining       string
	HasBalance      bool
	DiscountCode    string
	AirportTransfer bool
	ArrivalTime     string
	SpecialRequests string
	DaysLeft        int
}
