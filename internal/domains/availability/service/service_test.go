package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"villa/config"
	"villa/infras/ical"
	icalMocks "villa/infras/ical/mocks"
	"villa/infras/otel/mocks"
	s3Mocks "villa/infras/s3/mocks"
	avMocks "villa/internal/domains/availability/mocks"
	"villa/internal/domains/availability/model"
	"villa/internal/domains/availability/service"
	"villa/shared/cache"
	cacheMocks "villa/shared/cache/mocks"
	"villa/shared/failure"
	"villa/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const uploaded = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:upload-1\r\n" +
	"DTSTART;VALUE=DATE:20250801\r\n" +
	"DTEND;VALUE=DATE:20250804\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

type deps struct {
	feed    *icalMocks.MockFeed
	storage *s3Mocks.MockStorage
	stays   *avMocks.MockBookedStays
	cache   *cacheMocks.MockRedisCache
}

func d(value string) timezone.Date {
	day, err := timezone.ParseDate(value)
	if err != nil {
		panic(err)
	}

	return day
}

func newService(t *testing.T) (service.Availability, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := deps{
		feed:    icalMocks.NewMockFeed(ctrl),
		storage: s3Mocks.NewMockStorage(ctrl),
		stays:   avMocks.NewMockBookedStays(ctrl),
		cache:   cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Calendar.FallbackKey = "calendar/fallback.ics"
	cfg.Calendar.SnapshotTTLSeconds = 10800

	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(m.feed, m.storage, m.stays, m.cache, cfg, mocks.NewOtel()), m
}

func feedEvents() []ical.Event {
	return []ical.Event{{UID: "feed-1", Start: d("2025-07-01"), End: d("2025-07-05")}}
}

func stays() []model.BlockedRange {
	return []model.BlockedRange{{Start: d("2025-07-10"), End: d("2025-07-15")}}
}

func cacheMiss() error {
	return fmt.Errorf("failed to get cache value: %w", cache.Nil)
}

func TestAvailability_GetBlockedRanges_Strict(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(m deps)
		wantRanges []model.BlockedRange
		wantKind   failure.Kind
	}{
		{
			name: "live feed and stays",
			setupMock: func(m deps) {
				m.feed.EXPECT().Fetch(gomock.Any()).Return(feedEvents(), nil)
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(stays(), nil)
			},
			wantRanges: []model.BlockedRange{
				{Start: d("2025-07-01"), End: d("2025-07-05"), Source: model.SourceFeed},
				{Start: d("2025-07-10"), End: d("2025-07-15"), Source: model.SourceBookings},
			},
		},
		{
			name: "feed down, uploaded calendar used",
			setupMock: func(m deps) {
				m.feed.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("timeout"))
				m.storage.EXPECT().GetObject(gomock.Any(), "calendar/fallback.ics").Return([]byte(uploaded), nil)
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantRanges: []model.BlockedRange{
				{Start: d("2025-08-01"), End: d("2025-08-04"), Source: model.SourceUpload},
			},
		},
		{
			name: "feed down without upload fails closed",
			setupMock: func(m deps) {
				m.feed.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("timeout"))
				m.storage.EXPECT().GetObject(gomock.Any(), gomock.Any()).Return(nil, errors.New("not found"))
			},
			wantKind: failure.KindUpstreamDegraded,
		},
		{
			name: "stays unavailable fails closed",
			setupMock: func(m deps) {
				m.feed.EXPECT().Fetch(gomock.Any()).Return(feedEvents(), nil)
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantKind: failure.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			res, err := svc.GetBlockedRanges(context.Background(), service.PolicyStrict)

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, failure.GetKind(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantRanges, res.Ranges)
			assert.Empty(t, res.Warnings)
		})
	}
}

func TestAvailability_GetBlockedRanges_Permissive(t *testing.T) {
	tests := []struct {
		name         string
		setupMock    func(m deps)
		wantRanges   []model.BlockedRange
		wantWarnings int
	}{
		{
			name: "snapshot hit",
			setupMock: func(m deps) {
				m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
					snapshot, _ := value.(*model.Snapshot)
					snapshot.Ranges = []model.BlockedRange{{Start: d("2025-07-01"), End: d("2025-07-05"), Source: model.SourceFeed}}

					return nil
				})
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantRanges: []model.BlockedRange{{Start: d("2025-07-01"), End: d("2025-07-05"), Source: model.SourceFeed}},
		},
		{
			name: "snapshot miss falls back to the live feed",
			setupMock: func(m deps) {
				m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss())
				m.feed.EXPECT().Fetch(gomock.Any()).Return(feedEvents(), nil)
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantRanges: []model.BlockedRange{{Start: d("2025-07-01"), End: d("2025-07-05"), Source: model.SourceFeed}},
		},
		{
			name: "nothing external is available",
			setupMock: func(m deps) {
				m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss())
				m.feed.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("timeout"))
				m.storage.EXPECT().GetObject(gomock.Any(), gomock.Any()).Return(nil, errors.New("not found"))
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(stays(), nil)
			},
			wantRanges:   []model.BlockedRange{{Start: d("2025-07-10"), End: d("2025-07-15"), Source: model.SourceBookings}},
			wantWarnings: 1,
		},
		{
			name: "stays unavailable only warns",
			setupMock: func(m deps) {
				m.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cacheMiss())
				m.feed.EXPECT().Fetch(gomock.Any()).Return(feedEvents(), nil)
				m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantRanges:   []model.BlockedRange{{Start: d("2025-07-01"), End: d("2025-07-05"), Source: model.SourceFeed}},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)
			tt.setupMock(m)

			res, err := svc.GetBlockedRanges(context.Background(), service.PolicyPermissive)

			require.NoError(t, err)
			assert.Equal(t, tt.wantRanges, res.Ranges)
			assert.Len(t, res.Warnings, tt.wantWarnings)
		})
	}
}

func TestAvailability_AssertAvailable(t *testing.T) {
	t.Run("overlapping confirmed booking", func(t *testing.T) {
		svc, m := newService(t)
		m.feed.EXPECT().Fetch(gomock.Any()).Return(nil, nil)
		m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(stays(), nil)

		err := svc.AssertAvailable(context.Background(), d("2025-07-12"), d("2025-07-18"))

		require.Error(t, err)
		assert.True(t, failure.Is(err, failure.KindDateConflict))
		assert.Contains(t, err.Error(), "2025-07-12")
	})

	t.Run("adjacent stay is free", func(t *testing.T) {
		svc, m := newService(t)
		m.feed.EXPECT().Fetch(gomock.Any()).Return(feedEvents(), nil)
		m.stays.EXPECT().SucceededStays(gomock.Any(), gomock.Any()).Return(stays(), nil)

		assert.NoError(t, svc.AssertAvailable(context.Background(), d("2025-07-05"), d("2025-07-10")))
	})
}

func TestAvailability_RefreshFeed(t *testing.T) {
	svc, m := newService(t)
	m.feed.EXPECT().Fetch(gomock.Any()).Return(feedEvents(), nil)

	count, err := svc.RefreshFeed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAvailability_UploadFallback(t *testing.T) {
	t.Run("valid calendar is stored", func(t *testing.T) {
		svc, m := newService(t)
		m.storage.EXPECT().PutObject(gomock.Any(), "calendar/fallback.ics", "text/calendar", []byte(uploaded)).Return(nil)

		count, err := svc.UploadFallback(context.Background(), []byte(uploaded))

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("invalid calendar is rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.UploadFallback(context.Background(), []byte("garbage"))

		assert.True(t, failure.Is(err, failure.KindValidation))
	})
}
