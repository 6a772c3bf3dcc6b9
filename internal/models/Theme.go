package models

import (
	"time"
	"welcomer/internal/ranges"
	"welcomer/internal/structures"
)

const DefaultTheme = "default"

type ThemeKind int

const (
	KindSeasonal ThemeKind = iota
	KindTimeOfDay
)

func (k ThemeKind) String() string {
	if k == KindTimeOfDay {
		return "time-of-day"
	}
	return "seasonal"
}

// Theme is an immutable, configuration-derived message profile scoped to a
// date range (seasonal) or a clock-time range (time of day).
type Theme struct {
	Name        string
	Kind        ThemeKind
	Dates       ranges.DateRange
	Times       ranges.TimeRange
	Priority    int
	Description string
	Join        structures.MessagePool
	Quit        structures.MessagePool
	// Valid is false when the configured range failed to parse.
	Valid bool
}

func (t Theme) Matches(now time.Time) bool {
	if !t.Valid {
		return false
	}
	if t.Kind == KindTimeOfDay {
		return t.Times.Contains(now)
	}
	return t.Dates.Contains(now)
}

// Overlaps reports whether two themes of the same kind can be active at once.
func (t Theme) Overlaps(o Theme) bool {
	if !t.Valid || !o.Valid || t.Kind != o.Kind {
		return false
	}
	if t.Kind == KindTimeOfDay {
		return t.Times.Overlaps(o.Times)
	}
	return t.Dates.Overlaps(o.Dates)
}

func (t Theme) RangeString() string {
	if !t.Valid {
		return "invalid"
	}
	if t.Kind == KindTimeOfDay {
		return t.Times.String()
	}
	return t.Dates.String()
}

// Pool returns the message pool for an event ("join" or "quit").
func (t Theme) Pool(event string) structures.MessagePool {
	if event == "quit" {
		return t.Quit
	}
	return t.Join
}
