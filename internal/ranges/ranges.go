// Package ranges compares dates of the year and times of the day against
// closed [start, end] ranges that may wrap across the year or day boundary.
package ranges

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrMalformed = errors.New("malformed range value")

type MonthDay struct {
	Month int
	Day   int
}

func MonthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: int(t.Month()), Day: t.Day()}
}

func (m MonthDay) Valid() bool {
	return m.Month >= 1 && m.Month <= 12 && m.Day >= 1 && m.Day <= 31
}

func (m MonthDay) key() int {
	return m.Month*100 + m.Day
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", m.Month, m.Day)
}

type ClockTime struct {
	Hour   int
	Minute int
}

func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}

func (c ClockTime) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

func (c ClockTime) key() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseMonthDay parses "MM-DD".
func ParseMonthDay(s string) (MonthDay, error) {
	a, b, err := parsePair(s, "-")
	if err != nil {
		return MonthDay{}, err
	}
	md := MonthDay{Month: a, Day: b}
	if !md.Valid() {
		return MonthDay{}, fmt.Errorf("%w: date %q out of bounds", ErrMalformed, s)
	}
	return md, nil
}

// ParseClockTime parses "HH:MM".
func ParseClockTime(s string) (ClockTime, error) {
	a, b, err := parsePair(s, ":")
	if err != nil {
		return ClockTime{}, err
	}
	ct := ClockTime{Hour: a, Minute: b}
	if !ct.Valid() {
		return ClockTime{}, fmt.Errorf("%w: time %q out of bounds", ErrMalformed, s)
	}
	return ct, nil
}

func parsePair(s, sep string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q needs two fields separated by %q", ErrMalformed, s, sep)
	}
	a, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	b, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformed, s, err)
	}
	return a, b, nil
}

// inRange treats start > end as a range that wraps past the maximum.
func inRange(cur, start, end int) bool {
	if start > end {
		return cur >= start || cur <= end
	}
	return cur >= start && cur <= end
}

// overlaps reports whether two possibly wrapping ranges share a value.
// On a circle two closed arcs intersect iff one contains the other's start,
// which covers the neither, either and both wrap cases alike.
func overlaps(s1, e1, s2, e2 int) bool {
	return inRange(s1, s2, e2) || inRange(s2, s1, e1)
}

func DateInRange(cur, start, end MonthDay) bool {
	if !cur.Valid() || !start.Valid() || !end.Valid() {
		return false
	}
	return inRange(cur.key(), start.key(), end.key())
}

func TimeInRange(cur, start, end ClockTime) bool {
	if !cur.Valid() || !start.Valid() || !end.Valid() {
		return false
	}
	return inRange(cur.key(), start.key(), end.key())
}

func DateRangesOverlap(s1, e1, s2, e2 MonthDay) bool {
	if !s1.Valid() || !e1.Valid() || !s2.Valid() || !e2.Valid() {
		return false
	}
	return overlaps(s1.key(), e1.key(), s2.key(), e2.key())
}

func TimeRangesOverlap(s1, e1, s2, e2 ClockTime) bool {
	if !s1.Valid() || !e1.Valid() || !s2.Valid() || !e2.Valid() {
		return false
	}
	return overlaps(s1.key(), e1.key(), s2.key(), e2.key())
}

// DateRange is a parsed seasonal range.
type DateRange struct {
	Start MonthDay
	End   MonthDay
}

func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseMonthDay(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseMonthDay(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end: %w", err)
	}
	return DateRange{Start: s, End: e}, nil
}

func (r DateRange) Contains(t time.Time) bool {
	return DateInRange(MonthDayOf(t), r.Start, r.End)
}

func (r DateRange) Overlaps(o DateRange) bool {
	return DateRangesOverlap(r.Start, r.End, o.Start, o.End)
}

func (r DateRange) Wraps() bool {
	return r.Start.key() > r.End.key()
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// TimeRange is a parsed time-of-day range.
type TimeRange struct {
	Start ClockTime
	End   ClockTime
}

func ParseTimeRange(start, end string) (TimeRange, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return TimeRange{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return TimeRange{}, fmt.Errorf("end: %w", err)
	}
	return TimeRange{Start: s, End: e}, nil
}

func (r TimeRange) Contains(t time.Time) bool {
	return TimeInRange(ClockTimeOf(t), r.Start, r.End)
}

func (r TimeRange) Overlaps(o TimeRange) bool {
	return TimeRangesOverlap(r.Start, r.End, o.Start, o.End)
}

func (r TimeRange) Wraps() bool {
	return r.Start.key() > r.End.key()
}

func (r TimeRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}
