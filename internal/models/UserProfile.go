package models

import "time"

type UserProfile struct {
	Name                string        `json:"name"`
	World               string        `json:"world"`
	JoinCount           int           `json:"join_count"`
	FirstSeenAt         time.Time     `json:"first_seen_at"`
	LastSeenAt          time.Time     `json:"last_seen_at"`
	MessagingSuppressed bool          `json:"messaging_suppressed"`
	TotalActive         time.Duration `json:"total_active"`
	SessionStartedAt    time.Time     `json:"session_started_at"`
}

func (p UserProfile) InSession() bool {
	return !p.SessionStartedAt.IsZero()
}

// SessionLength is the duration of the open session at now, zero when closed.
func (p UserProfile) SessionLength(now time.Time) time.Duration {
	if !p.InSession() || now.Before(p.SessionStartedAt) {
		return 0
	}
	return now.Sub(p.SessionStartedAt)
}

// ActiveAt is the accumulated active time including the open session.
func (p UserProfile) ActiveAt(now time.Time) time.Duration {
	return p.TotalActive + p.SessionLength(now)
}

// FlushSession folds the open session into TotalActive and restarts it at now.
func (p *UserProfile) FlushSession(now time.Time) {
	if !p.InSession() {
		return
	}
	p.TotalActive += p.SessionLength(now)
	p.SessionStartedAt = now
}

// CloseSession folds the open session into TotalActive and ends it.
func (p *UserProfile) CloseSession(now time.Time) {
	p.FlushSession(now)
	p.SessionStartedAt = time.Time{}
}
