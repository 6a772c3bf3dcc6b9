package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int, hour int) time.Time {
	return time.Date(2026, time.January, d, hour, 0, 0, 0, time.UTC)
}

func TestStreak_FirstLoginStartsAtOne(t *testing.T) {
	s := StreakState{}.Login(day(5, 10))
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, day(5, 0), s.LastLogin)
}

func TestStreak_NextDayIncrements(t *testing.T) {
	s := StreakState{}.Login(day(5, 23))
	s = s.Login(day(6, 1))
	assert.Equal(t, 2, s.Current)
	s = s.Login(day(7, 12))
	assert.Equal(t, 3, s.Current)
}

func TestStreak_SameDayPreserved(t *testing.T) {
	s := StreakState{}.Login(day(5, 8)).Login(day(6, 8))
	s = s.Login(day(6, 22))
	assert.Equal(t, 2, s.Current)
}

func TestStreak_GapResets(t *testing.T) {
	s := StreakState{}.Login(day(5, 8)).Login(day(6, 8)).Login(day(7, 8))
	s = s.Login(day(9, 8))
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, day(9, 0), s.LastLogin)
}

func TestStreak_AcrossYearBoundary(t *testing.T) {
	s := StreakState{}.Login(time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC))
	s = s.Login(time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, s.Current)
}

func TestStreak_ClockBackwardsKeepsState(t *testing.T) {
	s := StreakState{}.Login(day(5, 8)).Login(day(6, 8))
	back := s.Login(day(4, 8))
	assert.Equal(t, s, back)
}

func TestDaysBetween_IgnoresDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata not available")
	}
	a := time.Date(2026, time.March, 28, 23, 0, 0, 0, loc)
	b := time.Date(2026, time.March, 29, 23, 0, 0, 0, loc)
	assert.Equal(t, 1, DaysBetween(a, b))
}
