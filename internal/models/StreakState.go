package models

import "time"

// StreakState counts consecutive calendar days with at least one login.
// LastLogin holds the calendar date of the last counted login.
type StreakState struct {
	Current   int       `json:"current"`
	LastLogin time.Time `json:"last_login"`
}

// CalendarDate truncates t to midnight in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween counts calendar days from a to b, ignoring clock time and DST.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Login returns the state after a login at now. The next calendar day
// extends the streak, a longer gap restarts it, the same day keeps it.
func (s StreakState) Login(now time.Time) StreakState {
	today := CalendarDate(now)
	if s.LastLogin.IsZero() || s.Current <= 0 {
		return StreakState{Current: 1, LastLogin: today}
	}
	switch days := DaysBetween(s.LastLogin, today); {
	case days < 0:
		return s
	case days == 1:
		s.Current++
	case days > 1:
		s.Current = 1
	}
	s.LastLogin = today
	return s
}
