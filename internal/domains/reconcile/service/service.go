package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"villa/config"
	"villa/infras/otel"
	availability "villa/internal/domains/availability/service"
	booking "villa/internal/domains/booking/service"
	notificationModel "villa/internal/domains/notification/model"
	notification "villa/internal/domains/notification/service"
	"villa/shared/constant"
	"villa/shared/timezone"

	"github.com/rs/zerolog/log"
)

const preArrivalDays = 2

// reminderDays are the days before the balance due date on which a reminder goes out.
var reminderDays = []int{7, 1}

// Summary reports what one daily scan sent.
type Summary struct {
	Reminders   int
	PreArrivals int
	Failures    int
}

type Reconcile interface {
	RefreshCalendar(ctx context.Context) error
	SendDailyNotices(ctx context.Context) (Summary, error)
}

type serviceImpl struct {
	availability availability.Availability
	booking      booking.Booking
	notifier     notification.Notifier
	leadDays     int
	otel         otel.Otel
}

func New(availability availability.Availability, booking booking.Booking, notifier notification.Notifier, cfg *config.Config, otel otel.Otel) Reconcile {
	return &serviceImpl{
		availability: availability,
		booking:      booking,
		notifier:     notifier,
		leadDays:     cfg.App.Property.BalanceDueLeadDays,
		otel:         otel,
	}
}

func (s *serviceImpl) RefreshCalendar(ctx context.Context) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".reconcile.RefreshCalendar")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	count, err := s.availability.RefreshFeed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("calendar refresh failed")

		return fmt.Errorf("failed to refresh calendar: %w", err)
	}

	log.Info().Int("ranges", count).Msg("calendar refreshed")

	return nil
}

// SendDailyNotices sends balance reminders and pre-arrival notices for today.
// A failed send is counted and does not stop the batch.
func (s *serviceImpl) SendDailyNotices(ctx context.Context) (res Summary, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".reconcile.SendDailyNotices")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	today := timezone.Today()
	horizon := s.leadDays + slices.Max(reminderDays)

	bookings, err := s.booking.ListConfirmed(ctx, today.AddDays(preArrivalDays), today.AddDays(max(horizon, preArrivalDays)))
	if err != nil {
		return res, err // nolint:wrapcheck
	}

	var errs []error

	for _, b := range bookings {
		if today.DaysUntil(b.CheckInDate) == preArrivalDays {
			if sendErr := s.notifier.Send(ctx, notificationModel.KindPreArrival, b, 0); sendErr != nil {
				res.Failures++
				errs = append(errs, sendErr)

				log.Error().Err(sendErr).Str("booking_id", b.ID).Msg("failed to send pre-arrival notice")
			} else {
				res.PreArrivals++
			}
		}

		if b.RemainingAmount <= 0 {
			continue
		}

		daysLeft := today.DaysUntil(b.BalanceDueDate(s.leadDays))
		if !slices.Contains(reminderDays, daysLeft) {
			continue
		}

		if sendErr := s.notifier.Send(ctx, notificationModel.KindBalanceReminder, b, daysLeft); sendErr != nil {
			res.Failures++
			errs = append(errs, sendErr)

			log.Error().Err(sendErr).Str("booking_id", b.ID).Int("days_left", daysLeft).Msg("failed to send balance reminder")
		} else {
			res.Reminders++
		}
	}

	log.Info().
		Int("scanned", len(bookings)).
		Int("reminders", res.Reminders).
		Int("pre_arrivals", res.PreArrivals).
		Int("failures", res.Failures).
		Msg("daily notices sent")

	return res, errors.Join(errs...)
}
