package ranges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func md(m, d int) MonthDay { return MonthDay{Month: m, Day: d} }
func ct(h, m int) ClockTime { return ClockTime{Hour: h, Minute: m} }

func allMinutes() []ClockTime {
	out := make([]ClockTime, 0, 24*60)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			out = append(out, ct(h, m))
		}
	}
	return out
}

func TestParseMonthDay(t *testing.T) {
	got, err := ParseMonthDay("12-25")
	require.NoError(t, err)
	assert.Equal(t, md(12, 25), got)

	got, err = ParseMonthDay(" 02-01 ")
	require.NoError(t, err)
	assert.Equal(t, md(2, 1), got)
}

func TestParseMonthDay_Malformed(t *testing.T) {
	for _, in := range []string{"", "12", "12-25-01", "ab-01", "13-01", "00-10", "01-32", "01-00"} {
		_, err := ParseMonthDay(in)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestParseClockTime(t *testing.T) {
	got, err := ParseClockTime("22:30")
	require.NoError(t, err)
	assert.Equal(t, ct(22, 30), got)

	for _, in := range []string{"", "22", "24:00", "12:60", "-1:00", "aa:bb", "1:2:3"} {
		_, err := ParseClockTime(in)
		assert.ErrorIs(t, err, ErrMalformed, in)
	}
}

func TestTimeInRange_NonWrapping(t *testing.T) {
	start, end := ct(9, 15), ct(17, 45)
	for _, cur := range allMinutes() {
		want := cur.key() >= start.key() && cur.key() <= end.key()
		assert.Equal(t, want, TimeInRange(cur, start, end), cur.String())
	}
}

func TestTimeInRange_Wrapping(t *testing.T) {
	start, end := ct(22, 0), ct(6, 0)
	for _, cur := range allMinutes() {
		want := cur.key() >= start.key() || cur.key() <= end.key()
		assert.Equal(t, want, TimeInRange(cur, start, end), cur.String())
	}
	assert.True(t, TimeInRange(ct(23, 59), start, end))
	assert.True(t, TimeInRange(ct(0, 0), start, end))
	assert.False(t, TimeInRange(ct(12, 0), start, end))
}

func TestDateInRange(t *testing.T) {
	// Dec 1 .. Feb 28 wraps the year boundary.
	assert.True(t, DateInRange(md(12, 25), md(12, 1), md(2, 28)))
	assert.True(t, DateInRange(md(1, 15), md(12, 1), md(2, 28)))
	assert.False(t, DateInRange(md(6, 1), md(12, 1), md(2, 28)))

	assert.True(t, DateInRange(md(10, 31), md(10, 15), md(11, 2)))
	assert.True(t, DateInRange(md(10, 15), md(10, 15), md(11, 2)))
	assert.True(t, DateInRange(md(11, 2), md(10, 15), md(11, 2)))
	assert.False(t, DateInRange(md(11, 3), md(10, 15), md(11, 2)))
}

func TestInRange_InvalidYieldsFalse(t *testing.T) {
	assert.False(t, DateInRange(md(13, 1), md(1, 1), md(12, 31)))
	assert.False(t, DateInRange(md(5, 1), md(0, 1), md(12, 31)))
	assert.False(t, TimeInRange(ct(25, 0), ct(0, 0), ct(23, 59)))
}

func TestTimeRangesOverlap(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 ClockTime
		want           bool
	}{
		{"disjoint plain", ct(6, 0), ct(11, 59), ct(12, 0), ct(17, 59), false},
		{"plain overlap", ct(6, 0), ct(12, 0), ct(12, 0), ct(18, 0), true},
		{"contained", ct(6, 0), ct(18, 0), ct(8, 0), ct(9, 0), true},
		{"first wraps, hits tail", ct(22, 0), ct(6, 0), ct(5, 0), ct(7, 0), true},
		{"first wraps, disjoint", ct(22, 0), ct(6, 0), ct(7, 0), ct(21, 0), false},
		{"second wraps, hits head", ct(20, 0), ct(23, 0), ct(22, 30), ct(2, 0), true},
		{"both wrap", ct(23, 0), ct(1, 0), ct(22, 0), ct(0, 30), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeRangesOverlap(tt.s1, tt.e1, tt.s2, tt.e2))
			assert.Equal(t, tt.want, TimeRangesOverlap(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

// Overlap must agree with brute force membership over every minute.
func TestTimeRangesOverlap_MatchesMembership(t *testing.T) {
	points := []ClockTime{ct(0, 0), ct(3, 0), ct(6, 0), ct(12, 0), ct(18, 0), ct(21, 0), ct(23, 59)}
	minutes := allMinutes()
	for _, s1 := range points {
		for _, e1 := range points {
			for _, s2 := range points {
				for _, e2 := range points {
					want := false
					for _, m := range minutes {
						if TimeInRange(m, s1, e1) && TimeInRange(m, s2, e2) {
							want = true
							break
						}
					}
					require.Equal(t, want, TimeRangesOverlap(s1, e1, s2, e2), "%s-%s vs %s-%s", s1, e1, s2, e2)
				}
			}
		}
	}
}

func TestDateRangesOverlap(t *testing.T) {
	assert.True(t, DateRangesOverlap(md(12, 1), md(1, 31), md(12, 20), md(12, 31)))
	assert.True(t, DateRangesOverlap(md(12, 1), md(1, 31), md(1, 15), md(2, 28)))
	assert.False(t, DateRangesOverlap(md(12, 1), md(1, 31), md(3, 1), md(5, 31)))
	assert.False(t, DateRangesOverlap(md(13, 1), md(1, 31), md(3, 1), md(5, 31)))
}

func TestParsedRanges(t *testing.T) {
	winter, err := ParseDateRange("12-01", "02-28")
	require.NoError(t, err)
	assert.True(t, winter.Wraps())
	assert.True(t, winter.Contains(time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "12-01..02-28", winter.String())

	night, err := ParseTimeRange("22:00", "06:00")
	require.NoError(t, err)
	assert.True(t, night.Contains(time.Date(2026, time.May, 1, 23, 30, 0, 0, time.UTC)))
	assert.False(t, night.Contains(time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)))

	_, err = ParseTimeRange("22:00", "6")
	assert.ErrorIs(t, err, ErrMalformed)
	_, err = ParseDateRange("xx", "02-28")
	assert.ErrorIs(t, err, ErrMalformed)
}
