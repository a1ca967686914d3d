package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserLocation(t *testing.T) {
	assert.Equal(t, "Europe/Berlin", UserLocation("Europe/Berlin").String())
	assert.Equal(t, "Asia/Seoul", UserLocation("").String())
	assert.Equal(t, "Asia/Seoul", UserLocation("Nowhere/Special").String())
}

func TestDaysAgoAndClamp(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC), DaysAgo(now, 7))

	assert.Equal(t, 7, ClampDays(0, 7, 90))
	assert.Equal(t, 7, ClampDays(91, 7, 90))
	assert.Equal(t, 30, ClampDays(30, 7, 90))
}

func TestFormatLocal(t *testing.T) {
	ts := time.Date(2024, 3, 10, 0, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10 09:30 KST", FormatLocal(ts, UserLocation("Asia/Seoul")))
}
