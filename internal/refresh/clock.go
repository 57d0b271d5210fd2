package refresh

import "time"

// DateStr formats a point in time as the snapshot date key (YYYY-MM-DD) in
// the given reference timezone.
func DateStr(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// Today returns the current date key in the reference timezone.
func Today(loc *time.Location) string {
	return DateStr(time.Now(), loc)
}
