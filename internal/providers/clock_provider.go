package providers

import (
	"time"
	"welcomer/internal/structures"
)

// Clock supplies wall time in the zone the server's calendar is kept in.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type ClockProvider struct {
	loc *time.Location
}

func NewClockProvider(conf *structures.Config, logger Logger) Clock {
	loc := time.Local
	if conf.General.TimeZone != "" {
		l, err := time.LoadLocation(conf.General.TimeZone)
		if err != nil {
			logger.Warnf(TypeApp, "Unknown time zone %q, using local: %s", conf.General.TimeZone, err)
		} else {
			loc = l
		}
	}
	return &ClockProvider{loc: loc}
}

func (c *ClockProvider) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *ClockProvider) Location() *time.Location {
	return c.loc
}
