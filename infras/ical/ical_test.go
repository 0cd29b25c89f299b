package ical_test

import (
	"strings"
	"testing"
	"time"
	"villa/infras/ical"
	"villa/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Airbnb Inc//Hosting Calendar//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:all-day@example.com\r\n" +
	"DTSTART;VALUE=DATE:20250710\r\n" +
	"DTEND;VALUE=DATE:20250715\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:instant@example.com\r\n" +
	"DTSTART:20250801T170000Z\r\n" +
	"DTEND:20250803T030000Z\r\n" +
	"SUMMARY:Blocked\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:no-end@example.com\r\n" +
	"DTSTART;VALUE=DATE:20250901\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParse(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Makassar")
	require.NoError(t, err)

	events, err := ical.Parse(strings.NewReader(feed), loc)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, timezone.NewDate(2025, 7, 10), events[0].Start)
	assert.Equal(t, timezone.NewDate(2025, 7, 15), events[0].End)
	assert.Equal(t, "Reserved", events[0].Summary)

	// 17:00Z is 01:00 the next day in UTC+8.
	assert.Equal(t, timezone.NewDate(2025, 8, 2), events[1].Start)
	assert.Equal(t, timezone.NewDate(2025, 8, 3), events[1].End)

	assert.Equal(t, timezone.NewDate(2025, 9, 1), events[2].Start)
	assert.Equal(t, timezone.NewDate(2025, 9, 2), events[2].End)
}

func TestParse_Invalid(t *testing.T) {
	_, err := ical.Parse(strings.NewReader("not a calendar"), time.UTC)
	assert.Error(t, err)
}

func TestExport_RoundTrip(t *testing.T) {
	events := []ical.Event{
		{UID: "b1@villa", Summary: "VPB-20250710", Start: timezone.NewDate(2025, 7, 10), End: timezone.NewDate(2025, 7, 15)},
	}

	out := ical.Export("Villa Pura", events, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "VPB-20250710")

	parsed, err := ical.Parse(strings.NewReader(out), time.UTC)
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, events[0].Start, parsed[0].Start)
	assert.Equal(t, events[0].End, parsed[0].End)
}
