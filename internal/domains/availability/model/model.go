package model

import (
	"context"
	"slices"
	"villa/shared/timezone"
)

const (
	SourceFeed     = "feed"
	SourceBookings = "bookings"
	SourceUpload   = "upload"
)

// BlockedRange is a half-open interval [Start, End) of unavailable days.
type BlockedRange struct {
	Start  timezone.Date `json:"start"`
	End    timezone.Date `json:"end"`
	Source string        `json:"source,omitempty"`
}

// Overlaps reports whether [a,b) and [c,d) intersect, i.e. a < d and c < b.
// Adjacent ranges do not overlap.
func (r BlockedRange) Overlaps(other BlockedRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

func (r BlockedRange) Contains(day timezone.Date) bool {
	return !day.Before(r.Start) && day.Before(r.End)
}

func (r BlockedRange) Valid() bool {
	return r.Start.Before(r.End)
}

func (r BlockedRange) Days() []timezone.Date {
	days := make([]timezone.Date, 0, r.Start.DaysUntil(r.End))
	for d := r.Start; d.Before(r.End); d = d.AddDays(1) {
		days = append(days, d)
	}

	return days
}

// Source produces blocked ranges from one origin.
type Source interface {
	Name() string
	BlockedRanges(ctx context.Context) ([]BlockedRange, error)
}

// Merge sorts ranges and coalesces those that overlap or touch. Invalid
// ranges are dropped.
func Merge(groups ...[]BlockedRange) []BlockedRange {
	all := []BlockedRange{}

	for _, group := range groups {
		for _, r := range group {
			if r.Valid() {
				all = append(all, r)
			}
		}
	}

	slices.SortFunc(all, func(a, b BlockedRange) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}

		return a.End.Compare(b.End)
	})

	merged := []BlockedRange{}

	for _, r := range all {
		last := len(merged) - 1
		if last >= 0 && !merged[last].End.Before(r.Start) {
			if r.End.After(merged[last].End) {
				merged[last].End = r.End
			}

			if merged[last].Source != r.Source {
				merged[last].Source = ""
			}

			continue
		}

		merged = append(merged, r)
	}

	return merged
}

// ConflictDays lists every blocked day inside [checkIn, checkOut), in order.
func ConflictDays(checkIn, checkOut timezone.Date, ranges []BlockedRange) []timezone.Date {
	stay := BlockedRange{Start: checkIn, End: checkOut}
	days := []timezone.Date{}

	for d := checkIn; d.Before(checkOut); d = d.AddDays(1) {
		for _, r := range ranges {
			if r.Overlaps(stay) && r.Contains(d) {
				days = append(days, d)

				break
			}
		}
	}

	return days
}

// FirstConflict returns the earliest blocked day inside [checkIn, checkOut).
func FirstConflict(checkIn, checkOut timezone.Date, ranges []BlockedRange) (timezone.Date, bool) {
	stay := BlockedRange{Start: checkIn, End: checkOut}
	first := timezone.Date{}

	for _, r := range ranges {
		if !r.Overlaps(stay) {
			continue
		}

		day := r.Start
		if day.Before(checkIn) {
			day = checkIn
		}

		if first.IsZero() || day.Before(first) {
			first = day
		}
	}

	return first, !first.IsZero()
}

// Snapshot is the cached copy of the last successful feed fetch.
type Snapshot struct {
	Ranges    []BlockedRange `json:"ranges"`
	FetchedAt string         `json:"fetched_at"`
}

// Availability is the merged blocked set with any degradation notes.
type Availability struct {
	Ranges   []BlockedRange
	Warnings []string
}
