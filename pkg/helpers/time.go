package helpers

import (
	"time"
	_ "time/tzdata"
)

const fallbackTimezone = "Asia/Seoul"

// UserLocation resolves an IANA name, falling back to the service default and then UTC.
func UserLocation(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(fallbackTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// DaysAgo is the lower bound of a rolling window of the given number of days.
func DaysAgo(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// ClampDays bounds a stats window to 1..max, using def when out of range.
func ClampDays(days, def, max int) int {
	if days < 1 || days > max {
		return def
	}
	return days
}

// FormatLocal renders t in loc in a compact human form used in AI prompts and exports.
func FormatLocal(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04 MST")
}
