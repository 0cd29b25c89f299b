package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"villa/config"
	"villa/infras/otel"
	"villa/infras/stripe"
	bookingModel "villa/internal/domains/booking/model"
	booking "villa/internal/domains/booking/service"
	"villa/internal/domains/payment/model"
	"villa/shared/constant"
	"villa/shared/failure"

	"github.com/rs/zerolog/log"
)

var errMissingIntent = errors.New("payment intent event carries no intent")

type Payment interface {
	// HandleWebhook verifies and applies one processor delivery. A nil error acknowledges it.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type serviceImpl struct {
	gateway   stripe.Gateway
	booking   booking.Booking
	processed *model.ProcessedEvents
	otel      otel.Otel
}

func New(gateway stripe.Gateway, booking booking.Booking, cfg *config.Config, otel otel.Otel) Payment {
	return &serviceImpl{
		gateway:   gateway,
		booking:   booking,
		processed: model.NewProcessedEvents(cfg.Stripe.ProcessedEventCap, cfg.Stripe.ProcessedEventEvict),
		otel:      otel,
	}
}

func (s *serviceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".payment.HandleWebhook")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	event, err := s.gateway.ConstructEvent(payload, signature)
	if err != nil {
		log.Warn().Err(err).Str("kind", string(failure.GetKind(err))).Msg("webhook rejected")

		return err // nolint:wrapcheck
	}

	scope.SetAttribute("webhook.event_id", event.ID)
	scope.SetAttribute("webhook.event_type", event.Type)

	switch s.processed.Begin(event.ID) {
	case model.ClaimDone:
		log.Info().Str("event_id", event.ID).Str("type", event.Type).Msg("duplicate webhook event ignored")

		return nil
	case model.ClaimInFlight:
		log.Info().Str("event_id", event.ID).Str("type", event.Type).Msg("webhook event is still being processed")

		// not acknowledged, the processor redelivers it later
		return failure.Conflict("webhook event is already being processed") // nolint:wrapcheck
	}

	if err = s.dispatch(ctx, event); err != nil {
		s.processed.Abort(event.ID)

		log.Error().Err(err).Str("event_id", event.ID).Str("type", event.Type).Msg("failed to process webhook event")

		return fmt.Errorf("failed to process webhook event %s: %w", event.ID, err)
	}

	s.processed.Done(event.ID)

	return nil
}

func (s *serviceImpl) dispatch(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case stripe.EventPaymentSucceeded:
		return s.apply(event, func(update booking.PaymentUpdate) error {
			return s.booking.ApplyPaymentSucceeded(ctx, update)
		})
	case stripe.EventPaymentFailed:
		return s.apply(event, func(update booking.PaymentUpdate) error {
			return s.booking.ApplyPaymentClosed(ctx, update, bookingModel.StatusFailed)
		})
	case stripe.EventPaymentCanceled:
		return s.apply(event, func(update booking.PaymentUpdate) error {
			return s.booking.ApplyPaymentClosed(ctx, update, bookingModel.StatusCanceled)
		})
	case stripe.EventPaymentRequiresAction:
		log.Info().Str("event_id", event.ID).Msg("payment requires customer action")

		return nil
	default:
		log.Info().Str("event_id", event.ID).Str("type", event.Type).Msg("unhandled webhook event type")

		return nil
	}
}

func (s *serviceImpl) apply(event stripe.Event, fn func(booking.PaymentUpdate) error) error {
	if event.Intent == nil {
		return errMissingIntent
	}

	update := booking.NewPaymentUpdate(event.Intent)
	if update.BookingID == constant.Empty {
		log.Warn().Str("event_id", event.ID).Str("payment_intent_id", event.Intent.ID).Msg("payment intent has no booking reference")

		return nil
	}

	err := fn(update)
	if failure.Is(err, failure.KindNotFound) {
		log.Warn().Str("event_id", event.ID).Str("booking_id", update.BookingID).Msg("webhook for unknown booking acknowledged")

		return nil
	}

	return err
}
