package timezone_test

import (
	"testing"
	"time"
	"villa/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	assert.Equal(t, "Asia/Makassar", timezone.Load("").String())
	assert.Equal(t, "Europe/London", timezone.Load("Europe/London").String())
	assert.Equal(t, time.UTC, timezone.Load("Mars/Olympus_Mons"))
}

func TestSetLocation(t *testing.T) {
	bali, err := time.LoadLocation("Asia/Makassar")
	require.NoError(t, err)

	restore := timezone.SetLocation(bali)
	defer restore()

	assert.Equal(t, bali, timezone.GetLocation())
	assert.Equal(t, bali, timezone.Now().Location())

	instant := time.Date(2025, time.July, 11, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-12 01:30", timezone.Format(instant, "2006-01-02 15:04"))
}

func TestSetLocation_Restore(t *testing.T) {
	before := timezone.GetLocation()

	restore := timezone.SetLocation(time.UTC)
	assert.Equal(t, time.UTC, timezone.GetLocation())

	restore()
	assert.Equal(t, before, timezone.GetLocation())
}
