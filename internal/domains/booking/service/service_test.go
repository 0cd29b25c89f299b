package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"villa/config"
	"villa/infras/otel/mocks"
	"villa/infras/stripe"
	stripeMocks "villa/infras/stripe/mocks"
	avMocks "villa/internal/domains/availability/mocks"
	availabilityModel "villa/internal/domains/availability/model"
	availability "villa/internal/domains/availability/service"
	bookingMocks "villa/internal/domains/booking/mocks"
	"villa/internal/domains/booking/model"
	"villa/internal/domains/booking/model/dto"
	"villa/internal/domains/booking/repository"
	"villa/internal/domains/booking/service"
	notificationMocks "villa/internal/domains/notification/mocks"
	notificationModel "villa/internal/domains/notification/model"
	pricingMocks "villa/internal/domains/pricing/mocks"
	pricingModel "villa/internal/domains/pricing/model"
	"villa/shared/cache"
	cacheMocks "villa/shared/cache/mocks"
	"villa/shared/failure"
	"villa/shared/money"
	"villa/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type deps struct {
	repo         *bookingMocks.MockBookingRepository
	availability *avMocks.MockAvailability
	pricing      *pricingMocks.MockPricing
	gateway      *stripeMocks.MockGateway
	notifier     *notificationMocks.MockNotifier
	cache        *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Booking, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := deps{
		repo:         bookingMocks.NewMockBookingRepository(ctrl),
		availability: avMocks.NewMockAvailability(ctrl),
		pricing:      pricingMocks.NewMockPricing(ctrl),
		gateway:      stripeMocks.NewMockGateway(ctrl),
		notifier:     notificationMocks.NewMockNotifier(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Property.Name = "Villa Pura Bali"
	cfg.App.Property.MaxGuests = 8
	cfg.App.Property.DepositPercent = 30
	cfg.App.Property.DepositMinLeadDays = 45
	cfg.App.Property.BalanceDueLeadDays = 28
	cfg.App.Property.MaxAdvanceDays = 730

	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(m.repo, m.availability, m.pricing, m.gateway, m.notifier, cfg, m.cache, mocks.NewOtel())

	return svc, m
}

func quote(checkIn timezone.Date, nights int, total float64) pricingModel.Quote {
	return pricingModel.Quote{
		CheckIn:   checkIn,
		CheckOut:  checkIn.AddDays(nights),
		Nights:    nights,
		Season:    "high",
		MinNights: 5,
		Currency:  money.IDR,
		BaseTotal: money.FromMajor(total),
		Total:     money.FromMajor(total),
	}
}

func createRequest(checkIn timezone.Date, nights int, paymentType string, total float64) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		FirstName:   "Ayu",
		LastName:    "Lestari",
		Email:       "Ayu@Example.com",
		StartDate:   checkIn.String(),
		EndDate:     checkIn.AddDays(nights).String(),
		Adults:      2,
		Kids:        1,
		Total:       total,
		PaymentType: paymentType,
		Currency:    "IDR",
	}
}

func TestBookingService_Create_Deposit(t *testing.T) {
	svc, m := newService(t)

	checkIn := timezone.Today().AddDays(60)
	req := createRequest(checkIn, 10, "deposit", 30_000_000)

	var stored model.Booking

	m.availability.EXPECT().AssertAvailable(gomock.Any(), checkIn, checkIn.AddDays(10)).Return(nil)
	m.pricing.EXPECT().Quote(gomock.Any(), checkIn, checkIn.AddDays(10), money.IDR, "").Return(quote(checkIn, 10, 30_000_000), nil)
	m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in stripe.IntentRequest) (*stripe.Intent, error) {
		assert.Equal(t, money.FromMajor(9_000_000), in.Amount)
		assert.Equal(t, money.IDR, in.Currency)
		assert.Equal(t, "deposit", in.Metadata[stripe.MetadataPaymentType])
		assert.Equal(t, "booking-"+in.Metadata[stripe.MetadataBookingID], in.IdempotencyKey)

		return &stripe.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Amount: in.Amount, Currency: in.Currency}, nil
	})
	m.repo.EXPECT().InsertIfAvailable(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
		stored = b

		return nil
	})

	res, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, res.RequiresPayment)
	assert.Equal(t, "pi_1_secret", res.ClientSecret)
	assert.Equal(t, 9_000_000.0, res.AmountDue)
	assert.Equal(t, "VPB-"+checkIn.Compact(), res.Reference)

	assert.Equal(t, model.StatusPending, stored.PaymentStatus)
	assert.Equal(t, "pi_1", stored.PaymentIntentID)
	assert.Equal(t, "ayu@example.com", stored.Email)
	assert.Equal(t, "Ayu Lestari", stored.GuestName)
	assert.Equal(t, money.FromMajor(9_000_000), stored.AmountPaid)
	assert.Equal(t, money.FromMajor(21_000_000), stored.RemainingAmount)
	assert.Equal(t, stored.Total, stored.AmountPaid+stored.RemainingAmount)
	assert.Equal(t, model.DefaultArrivalTime, stored.ArrivalTime)
}

func TestBookingService_Create_FreeBypassesPayment(t *testing.T) {
	svc, m := newService(t)

	checkIn := timezone.Today().AddDays(20)
	req := createRequest(checkIn, 5, "full", 123)
	req.DiscountCode = "TESTFREE"

	free := quote(checkIn, 5, 0)
	free.BaseTotal = money.FromMajor(15_000_000)
	free.DiscountCode = "TESTFREE"
	free.PriceCheckWaive = true

	m.availability.EXPECT().AssertAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.pricing.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), money.IDR, "TESTFREE").Return(free, nil)
	m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(nil, nil)
	m.repo.EXPECT().InsertIfAvailable(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b model.Booking) error {
		assert.Equal(t, model.StatusSucceeded, b.PaymentStatus)
		assert.Empty(t, b.PaymentIntentID)
		assert.Equal(t, money.Amount(0), b.Total)

		return nil
	})
	m.notifier.EXPECT().Dispatch(gomock.Any(), notificationModel.KindBookingConfirmed, gomock.Any(), 0)

	res, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, res.RequiresPayment)
	assert.Empty(t, res.ClientSecret)
	assert.Zero(t, res.AmountDue)
}

func TestBookingService_Create_Rejections(t *testing.T) {
	today := timezone.Today()

	tests := []struct {
		name  string
		req   dto.CreateBookingRequest
		setup func(m deps)
		kind  failure.Kind
	}{
		{
			name: "too many guests",
			req: func() dto.CreateBookingRequest {
				r := createRequest(today.AddDays(60), 5, "full", 1)
				r.Adults, r.Kids = 6, 3

				return r
			}(),
			kind: failure.KindValidation,
		},
		{
			name: "check-in in the past",
			req:  createRequest(today.AddDays(-1), 5, "full", 1),
			kind: failure.KindValidation,
		},
		{
			name: "check-in too far ahead",
			req:  createRequest(today.AddDays(731), 5, "full", 1),
			kind: failure.KindValidation,
		},
		{
			name: "stay longer than a year",
			req:  createRequest(today.AddDays(10), 366, "full", 1),
			kind: failure.KindValidation,
		},
		{
			name: "deposit too close to arrival",
			req:  createRequest(today.AddDays(44), 5, "deposit", 1),
			kind: failure.KindValidation,
		},
		{
			name: "dates taken",
			req:  createRequest(today.AddDays(60), 5, "full", 1),
			setup: func(m deps) {
				m.availability.EXPECT().AssertAvailable(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(failure.DateConflict(today.AddDays(61).String()))
			},
			kind: failure.KindDateConflict,
		},
		{
			name: "tampered total",
			req:  createRequest(today.AddDays(60), 10, "full", 1_000),
			setup: func(m deps) {
				m.availability.EXPECT().AssertAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.pricing.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(quote(today.AddDays(60), 10, 30_000_000), nil)
			},
			kind: failure.KindPriceMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			if tt.setup != nil {
				tt.setup(m)
			}

			_, err := svc.Create(context.Background(), tt.req)

			require.Error(t, err)
			assert.Equal(t, tt.kind, failure.GetKind(err))
		})
	}
}

func TestBookingService_Create_AcceptsRoundingDifference(t *testing.T) {
	svc, m := newService(t)

	checkIn := timezone.Today().AddDays(60)
	req := createRequest(checkIn, 10, "full", 1890.01)

	usd := quote(checkIn, 10, 1890)
	usd.Currency = money.USD
	req.Currency = "USD"

	m.availability.EXPECT().AssertAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.pricing.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), money.USD, "").Return(usd, nil)
	m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(&stripe.Intent{ID: "pi_1", ClientSecret: "s"}, nil)
	m.repo.EXPECT().InsertIfAvailable(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestBookingService_Create_CancelsIntentWhenInsertFails(t *testing.T) {
	svc, m := newService(t)

	checkIn := timezone.Today().AddDays(60)

	m.availability.EXPECT().AssertAvailable(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.pricing.EXPECT().Quote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(quote(checkIn, 10, 30_000_000), nil)
	m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(&stripe.Intent{ID: "pi_1", ClientSecret: "s"}, nil)
	m.repo.EXPECT().InsertIfAvailable(gomock.Any(), gomock.Any()).Return(failure.DateConflict(checkIn.String()))
	m.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1").Return(nil)

	_, err := svc.Create(context.Background(), createRequest(checkIn, 10, "full", 30_000_000))

	assert.True(t, failure.Is(err, failure.KindDateConflict))
}

func TestBookingService_Calculate(t *testing.T) {
	checkIn := timezone.NewDate(2025, 7, 10)
	req := dto.CalculateRequest{StartDate: "2025-07-10", EndDate: "2025-07-15", DiscountCode: "MEGAN", Currency: "USD"}

	t.Run("names blocked days", func(t *testing.T) {
		svc, m := newService(t)

		m.availability.EXPECT().GetBlockedRanges(gomock.Any(), availability.PolicyPermissive).Return(availabilityModel.Availability{
			Ranges: []availabilityModel.BlockedRange{{Start: timezone.NewDate(2025, 7, 12), End: timezone.NewDate(2025, 7, 14)}},
		}, nil)

		_, err := svc.Calculate(context.Background(), req)

		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindDateConflict))
		assert.Contains(t, err.Error(), "2025-07-12, 2025-07-13")
	})

	t.Run("prices despite degraded availability", func(t *testing.T) {
		svc, m := newService(t)

		q := quote(checkIn, 5, 1000)
		q.Currency = money.USD
		q.Total = money.FromMajor(950)
		q.DiscountCode = "MEGAN"
		q.AirportTransfer = true

		m.availability.EXPECT().GetBlockedRanges(gomock.Any(), gomock.Any()).Return(availabilityModel.Availability{}, errors.New("redis down"))
		m.pricing.EXPECT().Quote(gomock.Any(), checkIn, checkIn.AddDays(5), money.USD, "MEGAN").Return(q, nil)

		res, err := svc.Calculate(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, 950.0, res.Total)
		assert.Equal(t, 1000.0, res.BaseTotal)
		assert.Equal(t, 200.0, res.PricePerNight)
		assert.True(t, res.AirportTransfer)
		require.NotNil(t, res.DiscountCode)
		assert.Equal(t, "MEGAN", *res.DiscountCode)
	})
}

func pendingDeposit() model.Booking {
	return model.Booking{
		ID:              "b1",
		GuestName:       "Ayu Lestari",
		Email:           "ayu@example.com",
		CheckInDate:     timezone.NewDate(2025, 9, 1),
		CheckOutDate:    timezone.NewDate(2025, 9, 11),
		Currency:        money.IDR,
		Total:           money.FromMajor(30_000_000),
		AmountPaid:      money.FromMajor(9_000_000),
		RemainingAmount: money.FromMajor(21_000_000),
		PaymentType:     model.PaymentDeposit,
		PaymentStatus:   model.StatusPending,
		PaymentIntentID: "pi_1",
	}
}

func TestBookingService_ApplyPaymentSucceeded(t *testing.T) {
	ctx := context.Background()

	t.Run("first payment confirms the booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)
		m.repo.EXPECT().MarkSucceeded(gomock.Any(), "b1", "pi_1").Return(true, nil)
		m.notifier.EXPECT().Dispatch(gomock.Any(), notificationModel.KindBookingConfirmed, gomock.Any(), 0).
			Do(func(_ context.Context, _ notificationModel.Kind, b model.Booking, _ int) {
				assert.Equal(t, model.StatusSucceeded, b.PaymentStatus)
			})

		require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_1"}))
	})

	t.Run("lost race is a no-op", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)
		m.repo.EXPECT().MarkSucceeded(gomock.Any(), "b1", "pi_1").Return(false, nil)

		require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_1"}))
	})

	t.Run("duplicate deposit event does not settle the balance", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil).Times(3)

		for range 3 {
			require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_1"}))
		}
	})

	t.Run("balance payment settles the booking", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded
		confirmed.PaymentIntentID = "pi_2"

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.repo.EXPECT().MarkBalancePaid(gomock.Any(), "b1", "pi_2").Return(true, nil)
		m.notifier.EXPECT().Dispatch(gomock.Any(), notificationModel.KindBalancePaid, gomock.Any(), 0).
			Do(func(_ context.Context, _ notificationModel.Kind, b model.Booking, _ int) {
				assert.Equal(t, b.Total, b.AmountPaid)
				assert.Zero(t, b.RemainingAmount)
			})

		require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_2", Balance: true}))
	})

	t.Run("superseded intent is ignored", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)

		require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_old"}))
	})

	t.Run("payment on a superseded balance intent is refunded", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded
		confirmed.PaymentIntentID = "pi_bal_2"

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.gateway.EXPECT().Refund(gomock.Any(), "pi_bal_1").Return(nil)

		require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_bal_1", Balance: true}))
	})

	t.Run("failed refund of a superseded balance intent is retried", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded
		confirmed.PaymentIntentID = "pi_bal_2"

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.gateway.EXPECT().Refund(gomock.Any(), "pi_bal_1").Return(failure.PaymentGateway(http.StatusBadGateway, "processor unavailable"))

		err := svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_bal_1", Balance: true})
		assert.True(t, failure.Is(err, failure.KindPaymentGateway))
	})

	t.Run("taken stay is refunded and canceled", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)
		m.repo.EXPECT().MarkSucceeded(gomock.Any(), "b1", "pi_1").Return(false, repository.ErrStayTaken)
		m.gateway.EXPECT().Refund(gomock.Any(), "pi_1").Return(nil)
		m.repo.EXPECT().MarkClosed(gomock.Any(), "b1", "pi_1", model.StatusCanceled).Return(true, nil)

		require.NoError(t, svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "b1", IntentID: "pi_1"}))
	})

	t.Run("unknown booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		err := svc.ApplyPaymentSucceeded(ctx, service.PaymentUpdate{BookingID: "missing", IntentID: "pi_1"})
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})
}

func TestBookingService_ApplyPaymentClosed(t *testing.T) {
	svc, m := newService(t)

	m.repo.EXPECT().MarkClosed(gomock.Any(), "b1", "pi_1", model.StatusFailed).Return(true, nil)

	require.NoError(t, svc.ApplyPaymentClosed(context.Background(), service.PaymentUpdate{BookingID: "b1", IntentID: "pi_1"}, model.StatusFailed))
}

func TestBookingService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()
	req := dto.ConfirmPaymentRequest{BookingID: "b1", PaymentIntentID: "pi_1"}

	t.Run("rejects a foreign intent", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)

		_, err := svc.ConfirmPayment(ctx, dto.ConfirmPaymentRequest{BookingID: "b1", PaymentIntentID: "pi_other"})
		assert.True(t, failure.Is(err, failure.KindValidation))
	})

	t.Run("rejects an incomplete payment", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)
		m.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").Return(&stripe.Intent{ID: "pi_1", Status: "requires_payment_method"}, nil)

		_, err := svc.ConfirmPayment(ctx, req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires_payment_method")
	})

	t.Run("confirms through the shared transition", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded

		gomock.InOrder(
			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil),
			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil),
			m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil),
		)
		m.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").Return(&stripe.Intent{
			ID:       "pi_1",
			Status:   stripe.IntentStatusSucceeded,
			Metadata: map[string]string{stripe.MetadataBookingID: "b1", stripe.MetadataPaymentType: "deposit"},
		}, nil)
		m.repo.EXPECT().MarkSucceeded(gomock.Any(), "b1", "pi_1").Return(true, nil)
		m.notifier.EXPECT().Dispatch(gomock.Any(), notificationModel.KindBookingConfirmed, gomock.Any(), 0)

		res, err := svc.ConfirmPayment(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusSucceeded), res.PaymentStatus)
		assert.Equal(t, 21_000_000.0, res.RemainingAmount)
	})
}

func TestBookingService_PayRemainingBalance(t *testing.T) {
	ctx := context.Background()
	req := dto.PayRemainingRequest{BookingID: "b1"}

	t.Run("requires a confirmed booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)

		_, err := svc.PayRemainingBalance(ctx, req)
		assert.True(t, failure.Is(err, failure.KindValidation))
	})

	t.Run("rejects a fully paid booking", func(t *testing.T) {
		svc, m := newService(t)

		paid := pendingDeposit()
		paid.PaymentStatus = model.StatusSucceeded
		paid.AmountPaid, paid.RemainingAmount = paid.Total, 0

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(paid, nil)

		_, err := svc.PayRemainingBalance(ctx, req)
		assert.True(t, failure.Is(err, failure.KindAlreadyPaid))
	})

	t.Run("creates a balance intent", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in stripe.IntentRequest) (*stripe.Intent, error) {
			assert.Equal(t, money.FromMajor(21_000_000), in.Amount)
			assert.Equal(t, string(model.PaymentBalance), in.Metadata[stripe.MetadataPaymentType])

			return &stripe.Intent{ID: "pi_2", ClientSecret: "pi_2_secret"}, nil
		})
		m.repo.EXPECT().ReplaceIntent(gomock.Any(), "b1", "pi_2").Return(true, nil)
		m.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_1").Return(&stripe.Intent{
			ID:       "pi_1",
			Status:   stripe.IntentStatusSucceeded,
			Metadata: map[string]string{stripe.MetadataPaymentType: string(model.PaymentDeposit)},
		}, nil)

		res, err := svc.PayRemainingBalance(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, "pi_2_secret", res.ClientSecret)
		assert.Equal(t, 21_000_000.0, res.Amount)
		assert.Equal(t, "IDR", res.Currency)
	})

	t.Run("cancels the previous open balance intent", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded
		confirmed.PaymentIntentID = "pi_bal_1"

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(&stripe.Intent{ID: "pi_bal_2", ClientSecret: "pi_bal_2_secret"}, nil)
		m.repo.EXPECT().ReplaceIntent(gomock.Any(), "b1", "pi_bal_2").Return(true, nil)
		m.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_bal_1").Return(&stripe.Intent{
			ID:       "pi_bal_1",
			Status:   "requires_payment_method",
			Metadata: map[string]string{stripe.MetadataPaymentType: string(model.PaymentBalance)},
		}, nil)
		m.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_bal_1").Return(nil)

		res, err := svc.PayRemainingBalance(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "pi_bal_2_secret", res.ClientSecret)
	})

	t.Run("previous intent lookup failure does not fail the request", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded
		confirmed.PaymentIntentID = "pi_bal_1"

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)
		m.gateway.EXPECT().CreateIntent(gomock.Any(), gomock.Any()).Return(&stripe.Intent{ID: "pi_bal_2", ClientSecret: "pi_bal_2_secret"}, nil)
		m.repo.EXPECT().ReplaceIntent(gomock.Any(), "b1", "pi_bal_2").Return(true, nil)
		m.gateway.EXPECT().RetrieveIntent(gomock.Any(), "pi_bal_1").Return(nil, failure.PaymentGateway(http.StatusBadGateway, "processor unavailable"))

		_, err := svc.PayRemainingBalance(ctx, req)
		require.NoError(t, err)
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("pending booking", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(pendingDeposit(), nil)
		m.gateway.EXPECT().CancelIntent(gomock.Any(), "pi_1").Return(nil)
		m.repo.EXPECT().MarkClosed(gomock.Any(), "b1", "pi_1", model.StatusCanceled).Return(true, nil)

		assert.NoError(t, svc.Cancel(context.Background(), "b1"))
	})

	t.Run("confirmed booking", func(t *testing.T) {
		svc, m := newService(t)

		confirmed := pendingDeposit()
		confirmed.PaymentStatus = model.StatusSucceeded

		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(confirmed, nil)

		assert.True(t, failure.Is(svc.Cancel(context.Background(), "b1"), failure.KindValidation))
	})
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache hit", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), "booking:get:b1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, v any) error {
			v.(*dto.BookingResponse).ID = "b1"

			return nil
		})

		res, err := svc.Get(context.Background(), "b1")
		require.NoError(t, err)
		assert.Equal(t, "b1", res.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
		m.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.True(t, failure.Is(err, failure.KindNotFound))
	})
}

func TestBookingService_ExportCalendar(t *testing.T) {
	svc, m := newService(t)

	confirmed := pendingDeposit()
	confirmed.PaymentStatus = model.StatusSucceeded

	m.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Booking{confirmed}, nil)

	res, err := svc.ExportCalendar(context.Background())
	require.NoError(t, err)

	assert.Contains(t, res, "BEGIN:VCALENDAR")
	assert.Contains(t, res, "VPB-20250901 Ayu Lestari")
	assert.Contains(t, res, "20250901")
	assert.Contains(t, res, "20250911")
}
