package ical

//go:generate go run go.uber.org/mock/mockgen -source=./ical.go -destination=./mocks/ical_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"villa/config"
	"villa/infras/otel"
	"villa/shared/constant"
	"villa/shared/timezone"

	ics "github.com/arran4/golang-ical"
	"github.com/rs/zerolog/log"
)

const (
	maxFeedBytes = 5 << 20
	productID    = "-//Villa Pura//Booking Calendar//EN"
)

var ErrFeedNotConfigured = errors.New("calendar feed url is not configured")

// Event is a calendar entry reduced to whole days in the property timezone.
type Event struct {
	UID     string
	Summary string
	Start   timezone.Date
	End     timezone.Date
}

// Feed fetches the external availability calendar.
type Feed interface {
	Fetch(ctx context.Context) ([]Event, error)
}

type feedImpl struct {
	httpClient *http.Client
	url        string
	otel       otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) Feed {
	return &feedImpl{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Calendar.TimeoutSeconds) * time.Second,
		},
		url:  cfg.Calendar.FeedURL,
		otel: otel,
	}
}

func (f *feedImpl) Fetch(ctx context.Context) (events []Event, err error) {
	ctx, scope := f.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".ical.Fetch")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if f.url == "" {
		return nil, ErrFeedNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("calendar feed request failed")

		return nil, fmt.Errorf("failed to fetch calendar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendar feed returned status %s", resp.Status)
	}

	events, err = Parse(io.LimitReader(resp.Body, maxFeedBytes), timezone.GetLocation())
	if err != nil {
		return nil, err
	}

	scope.SetAttribute("ical.events", len(events))

	return events, nil
}

// Parse reads an iCalendar document. DATE values are taken as they are,
// DATE-TIME values are converted to loc before the day is taken. An event
// without a usable end blocks its start day only.
func Parse(r io.Reader, loc *time.Location) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse calendar: %w", err)
	}

	events := []Event{}

	for _, vevent := range cal.Events() {
		start, err := eventDay(vevent, ics.ComponentPropertyDtStart, loc)
		if err != nil {
			log.Warn().Err(err).Str("uid", vevent.Id()).Msg("skipping calendar event without a valid start")

			continue
		}

		end, err := eventDay(vevent, ics.ComponentPropertyDtEnd, loc)
		if err != nil || !start.Before(end) {
			end = start.AddDays(1)
		}

		event := Event{UID: vevent.Id(), Start: start, End: end}
		if summary := vevent.GetProperty(ics.ComponentPropertySummary); summary != nil {
			event.Summary = summary.Value
		}

		events = append(events, event)
	}

	return events, nil
}

func eventDay(vevent *ics.VEvent, property ics.ComponentProperty, loc *time.Location) (timezone.Date, error) {
	prop := vevent.GetProperty(property)
	if prop == nil {
		return timezone.Date{}, fmt.Errorf("missing %s", property)
	}

	value := strings.TrimSpace(prop.Value)
	if len(value) == len(timezone.CompactDateLayout) {
		return timezone.ParseCompactDate(value)
	}

	var (
		instant time.Time
		err     error
	)

	if property == ics.ComponentPropertyDtEnd {
		instant, err = vevent.GetEndAt()
	} else {
		instant, err = vevent.GetStartAt()
	}

	if err != nil {
		return timezone.Date{}, fmt.Errorf("invalid %s %q: %w", property, value, err)
	}

	return timezone.DateOf(instant, loc), nil
}

// Export renders events as all-day entries.
func Export(name string, events []Event, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)

	for _, e := range events {
		vevent := cal.AddEvent(e.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetAllDayStartAt(e.Start.Time())
		vevent.SetAllDayEndAt(e.End.Time())
		vevent.SetSummary(e.Summary)
	}

	return cal.Serialize()
}
