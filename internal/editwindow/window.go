// Package editwindow decides when structural changes to goals and sub-goals
// are allowed. Structural changes (create, delete, rename) are only permitted
// inside recurring calendar windows; completion toggles are never gated.
//
// The windows are global and year-independent: every profile shares the same
// calendar. All functions are pure functions of the passed time so callers
// inject the clock and tests never touch the system time.
package editwindow

import (
	"fmt"
	"time"
)

// Window identifies one of the recurring edit windows.
type Window int

const (
	None Window = iota
	Resolution
	Q1Review
	Q2Review
	Q3Review
)

func (w Window) String() string {
	switch w {
	case Resolution:
		return "Resolution Window"
	case Q1Review:
		return "Q1 Review"
	case Q2Review:
		return "Q2 Review"
	case Q3Review:
		return "Q3 Review"
	default:
		return "None"
	}
}

// Description returns the banner copy shown to owners during a window.
func (w Window) Description() string {
	switch w {
	case Resolution:
		return "Set your goals for the year ahead"
	case Q1Review, Q2Review, Q3Review:
		return "Review and adjust your goals"
	default:
		return ""
	}
}

// Current returns the window covering t, or None. Only the month and day
// matter; the Resolution window spans the year boundary (Dec 25 - Jan 3
// inclusive), the quarterly reviews are the first three days of April, July,
// and October.
func Current(t time.Time) Window {
	month, day := t.Month(), t.Day()

	switch {
	case month == time.December && day >= 25:
		return Resolution
	case month == time.January && day <= 3:
		return Resolution
	case month == time.April && day <= 3:
		return Q1Review
	case month == time.July && day <= 3:
		return Q2Review
	case month == time.October && day <= 3:
		return Q3Review
	}
	return None
}

// CanEdit reports whether structural changes are permitted at t.
func CanEdit(t time.Time) bool {
	return Current(t) != None
}

// NextWindow describes the upcoming window for the "locked until" banner.
type NextWindow struct {
	Window Window
	Start  time.Time
}

func (n NextWindow) Label() string {
	return fmt.Sprintf("%s, %s", n.Window, n.Start.Format("January 2, 2006"))
}

// Next returns the next upcoming window based on t's month. The mapping is a
// simple month bucket: Jan-Mar point at Q1 Review, Apr-Jun at Q2, Jul-Sep at
// Q3, Oct-Dec at the Resolution window of the same year. Dec 26-31 therefore
// still reports Dec 25 of the current year even though that window has
// already opened; callers only consult Next when CanEdit is false, so the
// stale date is never displayed.
func Next(t time.Time) NextWindow {
	year := t.Year()

	switch {
	case t.Month() < time.April:
		return NextWindow{Q1Review, date(year, time.April, 1)}
	case t.Month() < time.July:
		return NextWindow{Q2Review, date(year, time.July, 1)}
	case t.Month() < time.October:
		return NextWindow{Q3Review, date(year, time.October, 1)}
	default:
		return NextWindow{Resolution, date(year, time.December, 25)}
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
