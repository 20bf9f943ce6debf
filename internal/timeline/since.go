package timeline

import "time"

// Lookback is the default number of days a report covers: three on Monday
// so the weekend is included, one otherwise.
func Lookback(now time.Time) int {
	if now.Weekday() == time.Monday {
		return 3
	}
	return 1
}

// Since returns local midnight of now's day, moved back the given number of
// calendar days.
func Since(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, now.Location())
}
