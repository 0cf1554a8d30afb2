// Package timefmt renders timestamps the way the feed UI shows them:
// relative for anything younger than a week, a plain date otherwise.
package timefmt

import (
	"fmt"
	"time"
)

// MultiFormatDateString formats t relative to now:
// "Just now" under a minute, then "N min ago" / "N hour(s) ago" /
// "N day(s) ago" up to a week, and M/D/YYYY beyond that.
func MultiFormatDateString(t time.Time) string {
	return multiFormat(t, time.Now())
}

func multiFormat(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
