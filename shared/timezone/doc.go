// Package timezone pins clock and calendar arithmetic to the property's zone.
//
// Instants:
//
//	now := timezone.Now()
//	stamp := timezone.Format(createdAt, time.RFC3339)
//
// Calendar days:
//
//	day := timezone.DateOf(instant, timezone.GetLocation())
//	checkIn, err := timezone.ParseDate("2025-07-10")
//	nights := checkIn.DaysUntil(checkOut)
//
// The zone comes from APP_TIMEZONE (IANA names only) and defaults to Asia/Makassar.
// Tests can pin it with SetLocation and the returned restore func.
package timezone
