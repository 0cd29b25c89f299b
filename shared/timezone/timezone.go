package timezone

import (
	"sync/atomic"
	"time"
	"villa/config"

	"github.com/rs/zerolog/log"
)

// DefaultLocation is the villa's own zone, used when APP_TIMEZONE is unset.
const DefaultLocation = "Asia/Makassar"

var appLocation atomic.Pointer[time.Location]

func init() {
	appLocation.Store(Load(config.Get().App.Timezone))
}

// Load resolves an IANA zone name and falls back to UTC when it is unknown.
func Load(name string) *time.Location {
	if name == "" {
		log.Warn().Str("timezone", DefaultLocation).Msg("No timezone configured, using the property default")

		name = DefaultLocation
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Use IANA names like 'Asia/Makassar'")

		return time.UTC
	}

	return loc
}

// SetLocation swaps the application zone and returns a func restoring the previous one.
func SetLocation(loc *time.Location) (restore func()) {
	previous := appLocation.Swap(loc)

	return func() { appLocation.Store(previous) }
}

func GetLocation() *time.Location {
	if loc := appLocation.Load(); loc != nil {
		return loc
	}

	return time.UTC
}

// Now is the wall clock at the property.
func Now() time.Time {
	return time.Now().In(GetLocation())
}

func Format(t time.Time, layout string) string {
	return t.In(GetLocation()).Format(layout)
}
