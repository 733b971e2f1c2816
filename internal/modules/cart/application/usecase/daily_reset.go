package usecase

import "time"

// startOfDay truncates t to midnight in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// markerExpired reports whether marker falls on a calendar day strictly before now's day.
func markerExpired(marker, now time.Time, loc *time.Location) bool {
	return startOfDay(marker, loc).Before(startOfDay(now, loc))
}
