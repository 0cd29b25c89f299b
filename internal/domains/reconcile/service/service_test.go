package service_test

import (
	"context"
	"errors"
	"testing"
	"villa/config"
	"villa/infras/otel/mocks"
	avMocks "villa/internal/domains/availability/mocks"
	bookingMocks "villa/internal/domains/booking/mocks"
	bookingModel "villa/internal/domains/booking/model"
	notificationMocks "villa/internal/domains/notification/mocks"
	notificationModel "villa/internal/domains/notification/model"
	"villa/internal/domains/reconcile/service"
	"villa/shared/money"
	"villa/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type deps struct {
	availability *avMocks.MockAvailability
	booking      *bookingMocks.MockBooking
	notifier     *notificationMocks.MockNotifier
}

func newService(t *testing.T) (service.Reconcile, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := deps{
		availability: avMocks.NewMockAvailability(ctrl),
		booking:      bookingMocks.NewMockBooking(ctrl),
		notifier:     notificationMocks.NewMockNotifier(ctrl),
	}

	cfg := &config.Config{}
	cfg.App.Property.BalanceDueLeadDays = 28

	return service.New(m.availability, m.booking, m.notifier, cfg, mocks.NewOtel()), m
}

func confirmed(id string, checkIn timezone.Date, remaining float64) bookingModel.Booking {
	return bookingModel.Booking{
		ID:              id,
		Email:           id + "@example.com",
		CheckInDate:     checkIn,
		CheckOutDate:    checkIn.AddDays(5),
		Currency:        money.IDR,
		Total:           money.FromMajor(10_000_000),
		AmountPaid:      money.FromMajor(10_000_000 - remaining),
		RemainingAmount: money.FromMajor(remaining),
		PaymentStatus:   bookingModel.StatusSucceeded,
	}
}

func TestReconcile_RefreshCalendar(t *testing.T) {
	svc, m := newService(t)

	m.availability.EXPECT().RefreshFeed(gomock.Any()).Return(4, nil)
	require.NoError(t, svc.RefreshCalendar(context.Background()))

	m.availability.EXPECT().RefreshFeed(gomock.Any()).Return(0, errors.New("feed down"))
	assert.Error(t, svc.RefreshCalendar(context.Background()))
}

func TestReconcile_SendDailyNotices(t *testing.T) {
	svc, m := newService(t)

	today := timezone.Today()

	bookings := []bookingModel.Booking{
		confirmed("arriving", today.AddDays(2), 0),
		confirmed("week-left", today.AddDays(35), 7_000_000),
		confirmed("day-left", today.AddDays(29), 7_000_000),
		confirmed("paid-up", today.AddDays(35), 0),
		confirmed("not-yet", today.AddDays(33), 7_000_000),
	}

	m.booking.EXPECT().ListConfirmed(gomock.Any(), today.AddDays(2), today.AddDays(35)).Return(bookings, nil)
	m.notifier.EXPECT().Send(gomock.Any(), notificationModel.KindPreArrival, bookings[0], 0).Return(nil)
	m.notifier.EXPECT().Send(gomock.Any(), notificationModel.KindBalanceReminder, bookings[1], 7).Return(errors.New("smtp down"))
	m.notifier.EXPECT().Send(gomock.Any(), notificationModel.KindBalanceReminder, bookings[2], 1).Return(nil)

	res, err := svc.SendDailyNotices(context.Background())

	require.Error(t, err)
	assert.Equal(t, service.Summary{Reminders: 1, PreArrivals: 1, Failures: 1}, res)
}
