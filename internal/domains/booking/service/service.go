package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"villa/config"
	"villa/infras/ical"
	"villa/infras/otel"
	"villa/infras/stripe"
	availabilityModel "villa/internal/domains/availability/model"
	availability "villa/internal/domains/availability/service"
	"villa/internal/domains/booking/model"
	"villa/internal/domains/booking/model/dto"
	"villa/internal/domains/booking/repository"
	notificationModel "villa/internal/domains/notification/model"
	notification "villa/internal/domains/notification/service"
	pricing "villa/internal/domains/pricing/service"
	"villa/shared"
	"villa/shared/cache"
	"villa/shared/constant"
	gDto "villa/shared/dto"
	"villa/shared/failure"
	"villa/shared/money"
	"villa/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"

	maxNights = 365

	// priceEpsilon absorbs client side rounding of the displayed total.
	priceEpsilon money.Amount = 1
)

// PaymentUpdate identifies the booking and the intent a processor event refers to.
// Balance is set when the intent was created for the remaining balance.
type PaymentUpdate struct {
	BookingID string
	IntentID  string
	Balance   bool
}

func NewPaymentUpdate(intent *stripe.Intent) PaymentUpdate {
	return PaymentUpdate{
		BookingID: intent.Metadata[stripe.MetadataBookingID],
		IntentID:  intent.ID,
		Balance:   intent.Metadata[stripe.MetadataPaymentType] == string(model.PaymentBalance),
	}
}

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	Calculate(ctx context.Context, req dto.CalculateRequest) (dto.CalculateResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	ConfirmPayment(ctx context.Context, req dto.ConfirmPaymentRequest) (dto.BookingResponse, error)
	PayRemainingBalance(ctx context.Context, req dto.PayRemainingRequest) (dto.PayRemainingResponse, error)
	// ApplyPaymentSucceeded is shared by the webhook and the confirm fallback.
	// The booking state decides between first and balance payment. Duplicate and stale updates are no-ops.
	ApplyPaymentSucceeded(ctx context.Context, update PaymentUpdate) error
	ApplyPaymentClosed(ctx context.Context, update PaymentUpdate, status model.PaymentStatus) error
	Cancel(ctx context.Context, id string) error
	ExportCalendar(ctx context.Context) (string, error)
	// ListConfirmed returns succeeded bookings with check-in in [from, to].
	ListConfirmed(ctx context.Context, from, to timezone.Date) ([]model.Booking, error)
}

type serviceImpl struct {
	repo         repository.Booking
	availability availability.Availability
	pricing      pricing.Pricing
	gateway      stripe.Gateway
	notifier     notification.Notifier
	cfg          *config.Config
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	availability availability.Availability,
	pricing pricing.Pricing,
	gateway stripe.Gateway,
	notifier notification.Notifier,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		availability: availability,
		pricing:      pricing,
		gateway:      gateway,
		notifier:     notifier,
		cfg:          cfg,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, checkOut, err := req.Stay()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	currency, err := money.ParseCurrency(req.Currency)
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.validateStay(req, checkIn, checkOut); err != nil {
		return res, err
	}

	if err = s.availability.AssertAvailable(ctx, checkIn, checkOut); err != nil {
		log.Warn().Err(err).Str("check_in", checkIn.String()).Str("check_out", checkOut.String()).Msg("stay is not available")

		return res, err // nolint:wrapcheck
	}

	quote, err := s.pricing.Quote(ctx, checkIn, checkOut, currency, req.DiscountCode)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	received := money.FromMajor(req.Total)
	if !quote.PriceCheckWaive && absDiff(received, quote.Total) > priceEpsilon {
		log.Warn().Str("expected", quote.Total.String()).Str("received", received.String()).Msg("client total does not match server price")

		return res, failure.PriceMismatch(quote.Total.String(), received.String()) // nolint:wrapcheck
	}

	booking := req.ToModel(uuid.NewString(), quote, s.cfg.App.Property.DepositPercent)

	intent, err := s.gateway.CreateIntent(ctx, stripe.IntentRequest{
		Amount:         booking.AmountPaid,
		Currency:       booking.Currency,
		Description:    fmt.Sprintf("%s %s (%s payment)", s.cfg.App.Property.Name, booking.Reference(), booking.PaymentType),
		ReceiptEmail:   booking.Email,
		Metadata:       intentMetadata(booking, booking.PaymentType),
		IdempotencyKey: "booking-" + booking.ID,
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if intent != nil {
		booking.PaymentIntentID = intent.ID
	} else {
		booking.PaymentStatus = model.StatusSucceeded
	}

	if err = s.repo.InsertIfAvailable(ctx, booking); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to create booking")

		if intent != nil {
			s.cancelIntent(ctx, intent.ID)
		}

		return res, err // nolint:wrapcheck
	}

	log.Info().
		Str("booking_id", booking.ID).
		Str("reference", booking.Reference()).
		Str("payment_type", string(booking.PaymentType)).
		Str("amount_due", booking.AmountPaid.String()).
		Msg("booking created")

	if booking.PaymentStatus == model.StatusSucceeded {
		s.notifier.Dispatch(ctx, notificationModel.KindBookingConfirmed, booking, 0)
	}

	s.invalidate(ctx, "")

	res = dto.CreateBookingResponse{
		BookingID:       booking.ID,
		Reference:       booking.Reference(),
		RequiresPayment: intent != nil,
		AmountDue:       booking.AmountPaid.Major(),
		Currency:        string(booking.Currency),
	}

	if intent != nil {
		res.ClientSecret = intent.ClientSecret
	}

	return res, nil
}

func (s *serviceImpl) validateStay(req dto.CreateBookingRequest, checkIn, checkOut timezone.Date) error {
	property := s.cfg.App.Property

	if req.Adults+req.Kids > property.MaxGuests {
		return failure.BadRequestFromString(fmt.Sprintf("a maximum of %d guests is allowed", property.MaxGuests)) // nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	if checkIn.DaysUntil(checkOut) > maxNights {
		return failure.BadRequestFromString(fmt.Sprintf("a stay cannot exceed %d nights", maxNights)) // nolint:wrapcheck
	}

	today := timezone.Today()

	if checkIn.Before(today) {
		return failure.BadRequestFromString("check-in date cannot be in the past") // nolint:wrapcheck
	}

	if checkIn.After(today.AddDays(property.MaxAdvanceDays)) {
		return failure.BadRequestFromString(fmt.Sprintf("check-in must be within %d days from today", property.MaxAdvanceDays)) // nolint:wrapcheck
	}

	if model.PaymentType(req.PaymentType) == model.PaymentDeposit && today.DaysUntil(checkIn) < property.DepositMinLeadDays {
		return failure.BadRequestFromString( // nolint:wrapcheck
			fmt.Sprintf("deposit payment is only available when check-in is at least %d days away", property.DepositMinLeadDays),
		)
	}

	return nil
}

// Calculate prices a stay without side effects. Blocked days are named when the stay conflicts.
func (s *serviceImpl) Calculate(ctx context.Context, req dto.CalculateRequest) (res dto.CalculateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Calculate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	checkIn, checkOut, err := req.Stay()
	if err != nil {
		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	if !checkIn.Before(checkOut) {
		return res, failure.BadRequestFromString("check-out must be after check-in") // nolint:wrapcheck
	}

	blocked, err := s.availability.GetBlockedRanges(ctx, availability.PolicyPermissive)
	if err != nil {
		log.Warn().Err(err).Msg("availability unavailable for price calculation")
	} else if days := availabilityModel.ConflictDays(checkIn, checkOut, blocked.Ranges); len(days) > 0 {
		names := make([]string, len(days))
		for i, day := range days {
			names[i] = day.String()
		}

		return res, failure.DateConflictDays(names) // nolint:wrapcheck
	}

	quote, err := s.pricing.Quote(ctx, checkIn, checkOut, req.GetCurrency(), req.DiscountCode)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	res.FromQuote(quote)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking count")

		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

// ConfirmPayment is the client fallback for a webhook that has not arrived yet.
func (s *serviceImpl) ConfirmPayment(ctx context.Context, req dto.ConfirmPaymentRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ConfirmPayment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.PaymentIntentID != req.PaymentIntentID {
		log.Warn().Str("booking_id", booking.ID).Str("payment_intent_id", req.PaymentIntentID).Msg("payment intent does not belong to booking")

		return res, failure.BadRequestFromString("payment intent does not match this booking") // nolint:wrapcheck
	}

	intent, err := s.gateway.RetrieveIntent(ctx, req.PaymentIntentID)
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	if intent.Status != stripe.IntentStatusSucceeded {
		return res, failure.BadRequestFromString(fmt.Sprintf("payment has not completed (status %s)", intent.Status)) // nolint:wrapcheck
	}

	update := NewPaymentUpdate(intent)
	update.BookingID = booking.ID

	if err = s.ApplyPaymentSucceeded(ctx, update); err != nil {
		return res, err
	}

	booking, err = s.load(ctx, booking.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) ApplyPaymentSucceeded(ctx context.Context, update PaymentUpdate) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ApplyPaymentSucceeded")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, update.BookingID)
	if err != nil {
		return err
	}

	if booking.PaymentIntentID != update.IntentID {
		if update.Balance {
			return s.refundSupersededBalance(ctx, booking, update.IntentID)
		}

		log.Info().Str("booking_id", booking.ID).Str("payment_intent_id", update.IntentID).Msg("ignoring payment for a superseded intent")

		return nil
	}

	switch {
	case booking.PaymentStatus == model.StatusPending:
		return s.applyFirstPayment(ctx, booking)
	case booking.HasBalance() && update.Balance:
		return s.applyBalancePayment(ctx, booking)
	default:
		log.Info().Str("booking_id", booking.ID).Str("status", string(booking.PaymentStatus)).Msg("payment already applied")

		return nil
	}
}

func (s *serviceImpl) applyFirstPayment(ctx context.Context, booking model.Booking) error {
	changed, err := s.repo.MarkSucceeded(ctx, booking.ID, booking.PaymentIntentID)
	if errors.Is(err, repository.ErrStayTaken) {
		return s.releaseTakenStay(ctx, booking)
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to mark booking succeeded")

		return fmt.Errorf("failed to mark booking succeeded: %w", err)
	}

	if !changed {
		log.Info().Str("booking_id", booking.ID).Msg("booking already confirmed by another path")

		return nil
	}

	booking.PaymentStatus = model.StatusSucceeded

	log.Info().Str("booking_id", booking.ID).Str("reference", booking.Reference()).Msg("booking confirmed")

	s.notifier.Dispatch(ctx, notificationModel.KindBookingConfirmed, booking, 0)
	s.invalidate(ctx, booking.ID)

	return nil
}

// releaseTakenStay refunds a payment whose stay was confirmed for someone else first.
func (s *serviceImpl) releaseTakenStay(ctx context.Context, booking model.Booking) error {
	log.Warn().Str("booking_id", booking.ID).Msg("stay was taken by another confirmed booking, refunding payment")

	if err := s.gateway.Refund(ctx, booking.PaymentIntentID); err != nil {
		return fmt.Errorf("failed to refund booking %s: %w", booking.ID, err)
	}

	if _, err := s.repo.MarkClosed(ctx, booking.ID, booking.PaymentIntentID, model.StatusCanceled); err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to cancel refunded booking")

		return fmt.Errorf("failed to cancel refunded booking: %w", err)
	}

	s.invalidate(ctx, booking.ID)

	return nil
}

// refundSupersededBalance returns money captured on a balance intent that was
// replaced by a newer one. The booking only tracks the newest intent.
func (s *serviceImpl) refundSupersededBalance(ctx context.Context, booking model.Booking, intentID string) error {
	log.Error().
		Str("booking_id", booking.ID).
		Str("payment_intent_id", intentID).
		Str("tracked_intent_id", booking.PaymentIntentID).
		Msg("balance paid on a superseded intent, refunding payment")

	if err := s.gateway.Refund(ctx, intentID); err != nil {
		return fmt.Errorf("failed to refund superseded balance intent %s: %w", intentID, err)
	}

	return nil
}

func (s *serviceImpl) applyBalancePayment(ctx context.Context, booking model.Booking) error {
	changed, err := s.repo.MarkBalancePaid(ctx, booking.ID, booking.PaymentIntentID)
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to mark balance paid")

		return fmt.Errorf("failed to mark balance paid: %w", err)
	}

	if !changed {
		return nil
	}

	booking.AmountPaid = booking.Total
	booking.RemainingAmount = 0

	log.Info().Str("booking_id", booking.ID).Msg("remaining balance paid")

	s.notifier.Dispatch(ctx, notificationModel.KindBalancePaid, booking, 0)
	s.invalidate(ctx, booking.ID)

	return nil
}

// ApplyPaymentClosed moves a pending booking to failed or canceled.
func (s *serviceImpl) ApplyPaymentClosed(ctx context.Context, update PaymentUpdate, status model.PaymentStatus) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ApplyPaymentClosed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	changed, err := s.repo.MarkClosed(ctx, update.BookingID, update.IntentID, status)
	if err != nil {
		log.Error().Err(err).Str("booking_id", update.BookingID).Msg("failed to close booking")

		return fmt.Errorf("failed to close booking: %w", err)
	}

	if changed {
		log.Info().Str("booking_id", update.BookingID).Str("status", string(status)).Msg("booking closed")
		s.invalidate(ctx, update.BookingID)
	}

	return nil
}

func (s *serviceImpl) PayRemainingBalance(ctx context.Context, req dto.PayRemainingRequest) (res dto.PayRemainingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.PayRemainingBalance")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, req.BookingID)
	if err != nil {
		return res, err
	}

	if booking.PaymentStatus != model.StatusSucceeded {
		return res, failure.BadRequestFromString("the initial payment for this booking has not completed") // nolint:wrapcheck
	}

	if booking.RemainingAmount <= 0 {
		return res, failure.AlreadyPaid("this booking is already fully paid") // nolint:wrapcheck
	}

	intent, err := s.gateway.CreateIntent(ctx, stripe.IntentRequest{
		Amount:         booking.RemainingAmount,
		Currency:       booking.Currency,
		Description:    fmt.Sprintf("%s %s (remaining balance)", s.cfg.App.Property.Name, booking.Reference()),
		ReceiptEmail:   booking.Email,
		Metadata:       intentMetadata(booking, model.PaymentBalance),
		IdempotencyKey: fmt.Sprintf("balance-%s-%d", booking.ID, booking.UpdatedAt.Unix()),
	})
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	changed, err := s.repo.ReplaceIntent(ctx, booking.ID, intent.ID)
	if err != nil {
		s.cancelIntent(ctx, intent.ID)

		return res, fmt.Errorf("failed to record balance payment intent: %w", err)
	}

	if !changed {
		s.cancelIntent(ctx, intent.ID)

		return res, failure.AlreadyPaid("this booking is already fully paid") // nolint:wrapcheck
	}

	s.cancelPreviousBalanceIntent(ctx, booking.PaymentIntentID)
	s.invalidate(ctx, booking.ID)

	return dto.PayRemainingResponse{
		ClientSecret: intent.ClientSecret,
		Amount:       booking.RemainingAmount.Major(),
		Currency:     string(booking.Currency),
	}, nil
}

// Cancel withdraws a pending booking and its payment intent.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if booking.PaymentStatus != model.StatusPending {
		return failure.BadRequestFromString("only pending bookings can be canceled") // nolint:wrapcheck
	}

	if booking.PaymentIntentID != constant.Empty {
		if err = s.gateway.CancelIntent(ctx, booking.PaymentIntentID); err != nil {
			return err // nolint:wrapcheck
		}
	}

	changed, err := s.repo.MarkClosed(ctx, booking.ID, booking.PaymentIntentID, model.StatusCanceled)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if !changed {
		return failure.Conflict("booking changed state, please reload and try again") // nolint:wrapcheck
	}

	log.Info().Str("booking_id", booking.ID).Msg("booking canceled by admin")

	s.invalidate(ctx, booking.ID)

	return nil
}

// ExportCalendar renders upcoming confirmed stays as an iCal document.
func (s *serviceImpl) ExportCalendar(ctx context.Context) (res string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExportCalendar")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldPaymentStatus, Value: model.StatusSucceeded, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldCheckOutDate, Value: timezone.Today(), Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
		},
	}

	bookings, err := s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldCheckInDate, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to load bookings for export")

		return res, fmt.Errorf("failed to load bookings for export: %w", err)
	}

	events := make([]ical.Event, len(bookings))
	for i, b := range bookings {
		events[i] = ical.Event{
			UID:     b.ID,
			Summary: fmt.Sprintf("%s %s", b.Reference(), b.GuestName),
			Start:   b.CheckInDate,
			End:     b.CheckOutDate,
		}
	}

	return ical.Export(s.cfg.App.Property.Name, events, timezone.Now()), nil
}

func (s *serviceImpl) ListConfirmed(ctx context.Context, from, to timezone.Date) (res []model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListConfirmed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldPaymentStatus, Value: model.StatusSucceeded, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{ArgName: "check_in_from", Field: model.FieldCheckInDate, Value: from, Operator: gDto.FilterOperatorGreaterEq, Table: model.TableName},
			gDto.Filter{ArgName: "check_in_to", Field: model.FieldCheckInDate, Value: to, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
		},
	}

	res, err = s.repo.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldCheckInDate, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list confirmed bookings")

		return nil, fmt.Errorf("failed to list confirmed bookings: %w", err)
	}

	return res, nil
}

func (s *serviceImpl) load(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking_id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) cancelIntent(ctx context.Context, intentID string) {
	if err := s.gateway.CancelIntent(context.WithoutCancel(ctx), intentID); err != nil {
		log.Error().Err(err).Str("payment_intent_id", intentID).Msg("failed to cancel payment intent")
	}
}

// cancelPreviousBalanceIntent makes an older, still open balance intent unpayable.
// The deposit or full payment intent has already succeeded and is left alone.
func (s *serviceImpl) cancelPreviousBalanceIntent(ctx context.Context, intentID string) {
	if intentID == constant.Empty {
		return
	}

	previous, err := s.gateway.RetrieveIntent(ctx, intentID)
	if err != nil {
		log.Warn().Err(err).Str("payment_intent_id", intentID).Msg("failed to load previous payment intent")

		return
	}

	if previous.Metadata[stripe.MetadataPaymentType] != string(model.PaymentBalance) {
		return
	}

	if previous.Status == stripe.IntentStatusSucceeded || previous.Status == stripe.IntentStatusCanceled {
		return
	}

	s.cancelIntent(ctx, intentID)
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if id != constant.Empty {
			if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
				log.Error().Err(err).Msg("failed to delete booking from cache")
			}
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)
	}()
}

func intentMetadata(booking model.Booking, paymentType model.PaymentType) map[string]string {
	return map[string]string{
		stripe.MetadataBookingID:        booking.ID,
		stripe.MetadataBookingReference: booking.Reference(),
		stripe.MetadataPaymentType:      string(paymentType),
		stripe.MetadataGuestEmail:       booking.Email,
	}
}

func absDiff(a, b money.Amount) money.Amount {
	if a > b {
		return a - b
	}

	return b - a
}
