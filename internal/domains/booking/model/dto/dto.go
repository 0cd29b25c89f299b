package dto

import (
	"strings"
	"villa/internal/domains/booking/model"
	pricingModel "villa/internal/domains/pricing/model"
	"villa/shared"
	gDto "villa/shared/dto"
	gModel "villa/shared/model"
	"villa/shared/money"
	"villa/shared/timezone"
)

type CreateBookingRequest struct {
	FirstName       string  `json:"first_name"       validate:"required,max=50,personname"`
	LastName        string  `json:"last_name"        validate:"required,max=50,personname"`
	Email           string  `json:"email"            validate:"required,email,max=254"`
	StartDate       string  `json:"start_date"       validate:"required,datestring"`
	EndDate         string  `json:"end_date"         validate:"required,datestring"`
	Adults          int     `json:"adults"           validate:"required,min=1,max=8"`
	Kids            int     `json:"kids"             validate:"min=0,max=8"`
	Total           float64 `json:"total"            validate:"gte=0"`
	DiscountCode    string  `json:"discount_code"    validate:"omitempty,max=20,discountcode"`
	PaymentType     string  `json:"payment_type"     validate:"required,oneof=full deposit"`
	Currency        string  `json:"currency"         validate:"required,currency"`
	ArrivalTime     string  `json:"arrival_time"     validate:"omitempty,hhmm"`
	SpecialRequests string  `json:"special_requests" validate:"max=500"`
}

func (c *CreateBookingRequest) GuestName() string {
	return strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName)
}

// Stay parses the requested dates. Both are validated by the datestring tag.
func (c *CreateBookingRequest) Stay() (checkIn, checkOut timezone.Date, err error) {
	return parseStay(c.StartDate, c.EndDate)
}

func (c *CreateBookingRequest) ToModel(id string, quote pricingModel.Quote, depositPercent int64) model.Booking {
	paymentType := model.PaymentType(c.PaymentType)
	upfront, remaining := model.SplitPayment(quote.Total, paymentType, depositPercent)

	arrival := c.ArrivalTime
	if arrival == "" {
		arrival = model.DefaultArrivalTime
	}

	now := timezone.Now()

	return model.Booking{
		ID:              id,
		GuestName:       c.GuestName(),
		Email:           strings.ToLower(strings.TrimSpace(c.Email)),
		CheckInDate:     quote.CheckIn,
		CheckOutDate:    quote.CheckOut,
		Adults:          c.Adults,
		Kids:            c.Kids,
		Currency:        quote.Currency,
		Total:           quote.Total,
		AmountPaid:      upfront,
		RemainingAmount: remaining,
		PaymentType:     paymentType,
		PaymentStatus:   model.StatusPending,
		DiscountCode:    quote.DiscountCode,
		AirportTransfer: quote.AirportTransfer,
		ArrivalTime:     arrival,
		SpecialRequests: strings.TrimSpace(c.SpecialRequests),
		Metadata: gModel.Metadata{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

type CreateBookingResponse struct {
	BookingID       string  `json:"booking_id"`
	Reference       string  `json:"reference"`
	RequiresPayment bool    `json:"requires_payment"`
	ClientSecret    string  `json:"client_secret,omitempty"`
	AmountDue       float64 `json:"amount_due"`
	Currency        string  `json:"currency"`
}

type CalculateRequest struct {
	StartDate    string `json:"start_date"    validate:"required,datestring"`
	EndDate      string `json:"end_date"      validate:"required,datestring"`
	DiscountCode string `json:"discount_code" validate:"omitempty,max=20,discountcode"`
	Currency     string `json:"currency"      validate:"omitempty,currency"`
}

func (c *CalculateRequest) Stay() (checkIn, checkOut timezone.Date, err error) {
	return parseStay(c.StartDate, c.EndDate)
}

// GetCurrency defaults to the base currency when none is given.
func (c *CalculateRequest) GetCurrency() money.Currency {
	currency, err := money.ParseCurrency(c.Currency)
	if err != nil {
		return money.BaseCurrency
	}

	return currency
}

type CalculateResponse struct {
	Total           float64 `json:"total"`
	AirportTransfer bool    `json:"airport_transfer"`
	Nights          int     `json:"nights"`
	BaseTotal       float64 `json:"base_total"`
	PricePerNight   float64 `json:"price_per_night"`
	Currency        string  `json:"currency"`
	DiscountCode    *string `json:"discount_code"`
	Season          string  `json:"season"`
	MinNights       int     `json:"min_nights"`
}

func (r *CalculateResponse) FromQuote(quote pricingModel.Quote) {
	r.Total = quote.Total.Major()
	r.AirportTransfer = quote.AirportTransfer
	r.Nights = quote.Nights
	r.BaseTotal = quote.BaseTotal.Major()
	r.PricePerNight = quote.PricePerNight().Major()
	r.Currency = string(quote.Currency)
	r.Season = quote.Season
	r.MinNights = quote.MinNights

	if quote.DiscountCode != "" {
		code := quote.DiscountCode
		r.DiscountCode = &code
	}
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required,max=255"`
	BookingID       string `json:"booking_id"        validate:"required,uuid"`
}

type PayRemainingRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
}

type PayRemainingResponse struct {
	ClientSecret string  `json:"client_secret"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// BookingResponse leaves out the payment intent id and anything else processor specific.
type BookingResponse struct {
	ID              string  `json:"id"`
	Reference       string  `json:"reference"`
	GuestName       string  `json:"guest_name"`
	Email           string  `json:"email"`
	CheckInDate     string  `json:"check_in_date"`
	CheckOutDate    string  `json:"check_out_date"`
	Nights          int     `json:"nights"`
	Adults          int     `json:"adults"`
	Kids            int     `json:"kids"`
	Total           float64 `json:"total"`
	AmountPaid      float64 `json:"amount_paid"`
	RemainingAmount float64 `json:"remaining_amount"`
	PaymentStatus   string  `json:"payment_status"`
	PaymentType     string  `json:"payment_type"`
	Currency        string  `json:"currency"`
	DiscountCode    string  `json:"discount_code,omitempty"`
	AirportTransfer bool    `json:"airport_transfer"`
	ArrivalTime     string  `json:"arrival_time"`
	SpecialRequests string  `json:"special_requests"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.Reference = model.Reference()
	r.GuestName = model.GuestName
	r.Email = model.Email
	r.CheckInDate = model.CheckInDate.String()
	r.CheckOutDate = model.CheckOutDate.String()
	r.Nights = model.Nights()
	r.Adults = model.Adults
	r.Kids = model.Kids
	r.Total = model.Total.Major()
	r.AmountPaid = model.AmountPaid.Major()
	r.RemainingAmount = model.RemainingAmount.Major()
	r.PaymentStatus = string(model.PaymentStatus)
	r.PaymentType = string(model.PaymentType)
	r.Currency = string(model.Currency)
	r.DiscountCode = model.DiscountCode
	r.AirportTransfer = model.AirportTransfer
	r.ArrivalTime = model.ArrivalTime
	r.SpecialRequests = model.SpecialRequests
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

func parseStay(start, end string) (checkIn, checkOut timezone.Date, err error) {
	checkIn, err = timezone.ParseDate(start)
	if err != nil {
		return checkIn, checkOut, err
	}

	checkOut, err = timezone.ParseDate(end)

	return checkIn, checkOut, err
}
