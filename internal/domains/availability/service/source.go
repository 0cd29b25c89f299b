package service

//go:generate go run go.uber.org/mock/mockgen -source=./source.go -destination=../mocks/source_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"villa/infras/ical"
	"villa/infras/s3"
	"villa/internal/domains/availability/model"
	"villa/shared/timezone"
)

// BookedStays lists the stay ranges of bookings whose payment succeeded.
type BookedStays interface {
	SucceededStays(ctx context.Context, from timezone.Date) ([]model.BlockedRange, error)
}

type feedSource struct {
	feed ical.Feed
}

func (s feedSource) Name() string { return model.SourceFeed }

func (s feedSource) BlockedRanges(ctx context.Context) ([]model.BlockedRange, error) {
	events, err := s.feed.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar feed: %w", err)
	}

	return rangesFromEvents(events, model.SourceFeed), nil
}

type uploadSource struct {
	storage s3.Storage
	key     string
}

func (s uploadSource) Name() string { return model.SourceUpload }

func (s uploadSource) BlockedRanges(ctx context.Context) ([]model.BlockedRange, error) {
	data, err := s.storage.GetObject(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load uploaded calendar: %w", err)
	}

	events, err := ical.Parse(bytes.NewReader(data), timezone.GetLocation())
	if err != nil {
		return nil, err
	}

	return rangesFromEvents(events, model.SourceUpload), nil
}

type bookingSource struct {
	stays BookedStays
	from  func() timezone.Date
}

func (s bookingSource) Name() string { return model.SourceBookings }

func (s bookingSource) BlockedRanges(ctx context.Context) ([]model.BlockedRange, error) {
	ranges, err := s.stays.SucceededStays(ctx, s.from())
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed stays: %w", err)
	}

	for i := range ranges {
		ranges[i].Source = model.SourceBookings
	}

	return ranges, nil
}

func rangesFromEvents(events []ical.Event, source string) []model.BlockedRange {
	ranges := make([]model.BlockedRange, 0, len(events))
	for _, e := range events {
		ranges = append(ranges, model.BlockedRange{Start: e.Start, End: e.End, Source: source})
	}

	return ranges
}
