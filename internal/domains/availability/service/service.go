package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
	"villa/config"
	"villa/infras/ical"
	"villa/infras/otel"
	"villa/infras/s3"
	"villa/internal/domains/availability/model"
	"villa/shared/cache"
	"villa/shared/constant"
	"villa/shared/failure"
	"villa/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheFeedSnapshot = "availability:feed"

	warningSnapshotStale = "external calendar is unavailable, showing the uploaded fallback calendar"
	warningFeedMissing   = "external calendar is unavailable, some blocked dates may not be shown"
	warningStaysMissing  = "confirmed bookings could not be loaded, some blocked dates may not be shown"
)

// Policy decides how a degraded external feed is handled.
type Policy int

const (
	// PolicyStrict is used before accepting money: an unverifiable feed rejects the request.
	PolicyStrict Policy = iota
	// PolicyPermissive is used for display: stale data is acceptable with a warning.
	PolicyPermissive
)

type Availability interface {
	GetBlockedRanges(ctx context.Context, policy Policy) (model.Availability, error)
	AssertAvailable(ctx context.Context, checkIn, checkOut timezone.Date) error
	RefreshFeed(ctx context.Context) (int, error)
	UploadFallback(ctx context.Context, data []byte) (int, error)
}

type serviceImpl struct {
	feed        model.Source
	upload      model.Source
	bookings    model.Source
	storage     s3.Storage
	cache       cache.RedisCache
	otel        otel.Otel
	fallbackKey string
	snapshotTTL int
}

func New(feed ical.Feed, storage s3.Storage, stays BookedStays, cache cache.RedisCache, cfg *config.Config, otel otel.Otel) Availability {
	return &serviceImpl{
		feed:        feedSource{feed: feed},
		upload:      uploadSource{storage: storage, key: cfg.Calendar.FallbackKey},
		bookings:    bookingSource{stays: stays, from: timezone.Today},
		storage:     storage,
		cache:       cache,
		otel:        otel,
		fallbackKey: cfg.Calendar.FallbackKey,
		snapshotTTL: cfg.Calendar.SnapshotTTLSeconds,
	}
}

func (s *serviceImpl) GetBlockedRanges(ctx context.Context, policy Policy) (res model.Availability, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.GetBlockedRanges")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	var external []model.BlockedRange

	if policy == PolicyStrict {
		external, err = s.strictExternal(ctx)
		if err != nil {
			return res, err
		}
	} else {
		external, res.Warnings = s.permissiveExternal(ctx)
	}

	stays, err := s.bookings.BlockedRanges(ctx)
	if err != nil {
		if policy == PolicyStrict {
			log.Error().Err(err).Msg("failed to load confirmed stays")

			return res, fmt.Errorf("failed to load confirmed stays: %w", err)
		}

		log.Warn().Err(err).Msg("confirmed stays unavailable for display")

		res.Warnings = append(res.Warnings, warningStaysMissing)
	}

	res.Ranges = model.Merge(external, stays)

	scope.SetAttribute("availability.ranges", len(res.Ranges))

	return res, nil
}

// AssertAvailable runs the strict walk and fails with the first blocked day.
func (s *serviceImpl) AssertAvailable(ctx context.Context, checkIn, checkOut timezone.Date) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.AssertAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	availability, err := s.GetBlockedRanges(ctx, PolicyStrict)
	if err != nil {
		return err
	}

	if day, conflict := model.FirstConflict(checkIn, checkOut, availability.Ranges); conflict {
		return failure.DateConflict(day.String()) // nolint:wrapcheck
	}

	return nil
}

// RefreshFeed fetches the live feed and stores it as the display snapshot.
func (s *serviceImpl) RefreshFeed(ctx context.Context) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.RefreshFeed")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ranges, err := s.feed.BlockedRanges(ctx)
	if err != nil {
		return 0, err
	}

	if err = s.saveSnapshot(ctx, ranges); err != nil {
		return 0, err
	}

	return len(ranges), nil
}

// UploadFallback validates and stores an operator supplied calendar.
func (s *serviceImpl) UploadFallback(ctx context.Context, data []byte) (count int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.UploadFallback")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	events, err := ical.Parse(bytes.NewReader(data), timezone.GetLocation())
	if err != nil {
		return 0, failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.storage.PutObject(ctx, s.fallbackKey, constant.ContentTypeCalendar, data); err != nil {
		log.Error().Err(err).Msg("failed to store fallback calendar")

		return 0, fmt.Errorf("failed to store fallback calendar: %w", err)
	}

	log.Info().Int("events", len(events)).Msg("fallback calendar uploaded")

	return len(events), nil
}

// liveFeed fetches the feed and keeps the snapshot current in the background.
func (s *serviceImpl) liveFeed(ctx context.Context) ([]model.BlockedRange, error) {
	ranges, err := s.feed.BlockedRanges(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.saveSnapshot(c, ranges); err != nil {
			log.Error().Err(err).Msg("failed to save feed snapshot")
		}
	}()

	return ranges, nil
}

func (s *serviceImpl) strictExternal(ctx context.Context) ([]model.BlockedRange, error) {
	ranges, feedErr := s.liveFeed(ctx)
	if feedErr == nil {
		return ranges, nil
	}

	log.Warn().Err(feedErr).Msg("calendar feed unavailable, trying uploaded fallback")

	ranges, err := s.upload.BlockedRanges(ctx)
	if err != nil {
		log.Error().Err(err).AnErr("feed_error", feedErr).Msg("no verifiable external calendar")

		return nil, failure.UpstreamDegraded("availability cannot be verified right now, please try again later") // nolint:wrapcheck
	}

	return ranges, nil
}

// permissiveExternal prefers the snapshot, then the live feed, then the upload.
func (s *serviceImpl) permissiveExternal(ctx context.Context) ([]model.BlockedRange, []string) {
	snapshot := model.Snapshot{}

	err := s.cache.Get(ctx, cacheFeedSnapshot, &snapshot)
	if err == nil {
		return snapshot.Ranges, nil
	}

	if !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Msg("failed to read feed snapshot")
	}

	if ranges, err := s.liveFeed(ctx); err == nil {
		return ranges, nil
	}

	ranges, err := s.upload.BlockedRanges(ctx)
	if err == nil {
		return ranges, []string{warningSnapshotStale}
	}

	log.Warn().Err(err).Msg("no external calendar available for display")

	return []model.BlockedRange{}, []string{warningFeedMissing}
}

func (s *serviceImpl) saveSnapshot(ctx context.Context, ranges []model.BlockedRange) error {
	snapshot := model.Snapshot{
		Ranges:    ranges,
		FetchedAt: timezone.Now().Format(time.RFC3339),
	}

	if err := s.cache.Save(ctx, cacheFeedSnapshot, snapshot, s.snapshotTTL); err != nil {
		return fmt.Errorf("failed to save feed snapshot: %w", err)
	}

	return nil
}
