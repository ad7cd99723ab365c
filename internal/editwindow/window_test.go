package editwindow_test

import (
	"testing"
	"time"

	"github.com/resolved-app/resolved/internal/editwindow"
	"github.com/stretchr/testify/require"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 12, 0, 0, 0, time.UTC)
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want editwindow.Window
	}{
		{"resolution start", day(time.December, 25), editwindow.Resolution},
		{"new years eve", day(time.December, 31), editwindow.Resolution},
		{"new years day", day(time.January, 1), editwindow.Resolution},
		{"resolution end", day(time.January, 3), editwindow.Resolution},
		{"day after resolution", day(time.January, 4), editwindow.None},
		{"day before resolution", day(time.December, 24), editwindow.None},
		{"q1 start", day(time.April, 1), editwindow.Q1Review},
		{"q1 middle", day(time.April, 2), editwindow.Q1Review},
		{"q1 end", day(time.April, 3), editwindow.Q1Review},
		{"day after q1", day(time.April, 4), editwindow.None},
		{"q2 start", day(time.July, 1), editwindow.Q2Review},
		{"q2 end", day(time.July, 3), editwindow.Q2Review},
		{"day after q2", day(time.July, 4), editwindow.None},
		{"q3 start", day(time.October, 1), editwindow.Q3Review},
		{"q3 end", day(time.October, 3), editwindow.Q3Review},
		{"day after q3", day(time.October, 4), editwindow.None},
		{"ordinary day", day(time.June, 15), editwindow.None},
		{"mid february", day(time.February, 14), editwindow.None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, editwindow.Current(tt.t))
			require.Equal(t, tt.want != editwindow.None, editwindow.CanEdit(tt.t))
		})
	}
}

func TestCurrentIsYearIndependent(t *testing.T) {
	for _, year := range []int{1999, 2024, 2026, 2077} {
		d := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC)
		require.Equal(t, editwindow.Resolution, editwindow.Current(d), "year %d", year)
	}
}

func TestCanEditExhaustive(t *testing.T) {
	// Walk every day of a leap year and a common year; the window set must
	// contain exactly 10 + 3 + 3 + 3 days.
	for _, year := range []int{2026, 2028} {
		open := 0
		d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		for d.Year() == year {
			if editwindow.CanEdit(d) {
				open++
			}
			d = d.AddDate(0, 0, 1)
		}
		require.Equal(t, 19, open, "open days in %d", year)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name      string
		t         time.Time
		want      editwindow.Window
		wantStart time.Time
	}{
		{"january", day(time.January, 10), editwindow.Q1Review, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"march", day(time.March, 31), editwindow.Q1Review, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{"april", day(time.April, 10), editwindow.Q2Review, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{"june", day(time.June, 1), editwindow.Q2Review, time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{"august", day(time.August, 20), editwindow.Q3Review, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"november", day(time.November, 5), editwindow.Resolution, time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)},
		{"mid december", day(time.December, 12), editwindow.Resolution, time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := editwindow.Next(tt.t)
			require.Equal(t, tt.want, next.Window)
			require.Equal(t, tt.wantStart, next.Start)
		})
	}
}

func TestNextLabel(t *testing.T) {
	next := editwindow.Next(day(time.February, 1))
	require.Equal(t, "Q1 Review, April 1, 2026", next.Label())
}
