// Package window implements the nightly active window during which the
// scheduler is allowed to toggle lights. A window is a pair of time-of-day
// boundaries and may wrap past midnight (start after end), which is the
// normal case for an evening-to-morning window.
package window

import (
	"fmt"
	"time"

	"lighttimer/internal/daylight"
)

// Window is an active time-of-day range. Start and End are offsets from
// local midnight. When Start > End the window wraps past midnight.
type Window struct {
	Start time.Duration
	End   time.Duration
}

// Fixed returns the default active window, 18:00 to 08:00 the next morning.
func Fixed() Window {
	return Window{
		Start: 18 * time.Hour,
		End:   8 * time.Hour,
	}
}

// At builds a window from hour/minute boundaries.
func At(startHour, startMin, endHour, endMin int) Window {
	return Window{
		Start: time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute,
		End:   time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute,
	}
}

// FromSunTimes builds a window that opens at sunset and closes at sunrise.
func FromSunTimes(st daylight.SunTimes) Window {
	return Window{
		Start: sinceMidnight(st.Sunset),
		End:   sinceMidnight(st.Sunrise),
	}
}

// Contains reports whether t falls inside the window. The start boundary is
// inclusive and the end boundary exclusive. Wrapping windows are active from
// start until midnight and again from midnight until end.
func (w Window) Contains(t time.Time) bool {
	tod := sinceMidnight(t)
	if w.Start <= w.End {
		return tod >= w.Start && tod < w.End
	}
	return tod >= w.Start || tod < w.End
}

// NextStart returns the next instant at which the window opens: today's
// start if it is still ahead of now, otherwise tomorrow's. The result is
// always strictly after now.
func (w Window) NextStart(now time.Time) time.Time {
	start := atTimeOfDay(now, w.Start)
	if !start.After(now) {
		start = atTimeOfDay(now.AddDate(0, 0, 1), w.Start)
	}
	return start
}

// String renders the window as "18:00-08:00" for logs.
func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d",
		int(w.Start/time.Hour), int(w.Start%time.Hour/time.Minute),
		int(w.End/time.Hour), int(w.End%time.Hour/time.Minute))
}

// sinceMidnight returns t's offset from local midnight.
func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

// atTimeOfDay combines the date of ref with the given time-of-day offset.
// Built with time.Date so DST transitions are handled by the location.
func atTimeOfDay(ref time.Time, tod time.Duration) time.Time {
	year, month, day := ref.Date()
	return time.Date(year, month, day,
		int(tod/time.Hour), int(tod%time.Hour/time.Minute), 0, 0,
		ref.Location())
}
