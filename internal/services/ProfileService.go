package services

import (
	"time"
	"welcomer/internal/models"
	"welcomer/internal/providers"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// ConnectResult describes a recorded connection.
type ConnectResult struct {
	First        bool
	PreviousSeen time.Time
	Profile      models.UserProfile
}

// ProfileService owns session accounting on top of the profile store.
type ProfileService struct {
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	store   *models.ProfileStore
	online  atomic.Int64
}

func NewProfileService(logger providers.Logger, metrics providers.MetricsProviderInterface, store *models.ProfileStore) *ProfileService {
	return &ProfileService{logger: logger, metrics: metrics, store: store}
}

func (ps *ProfileService) Store() *models.ProfileStore {
	return ps.store
}

// RecordConnect counts the join and opens a session. A session left open by a
// missed disconnect is folded into the total first.
func (ps *ProfileService) RecordConnect(p models.Player, now time.Time) ConnectResult {
	before, after := ps.store.Update(p.ID, func(up *models.UserProfile) {
		up.CloseSession(now)
		up.Name = p.Name
		up.World = p.World
		up.JoinCount++
		if up.FirstSeenAt.IsZero() {
			up.FirstSeenAt = now
		}
		up.LastSeenAt = now
		up.SessionStartedAt = now
	})

	if !before.InSession() {
		ps.online.Inc()
	}
	first := before.FirstSeenAt.IsZero()
	if first {
		total := ps.store.IncUnique()
		ps.logger.Infof(providers.TypeRecognition, "First connection of %s (%s), unique user #%d", p.Name, p.ID, total)
	}
	return ConnectResult{First: first, PreviousSeen: before.LastSeenAt, Profile: after}
}

// RecordDisconnect closes the user's session at now.
func (ps *ProfileService) RecordDisconnect(id uuid.UUID, now time.Time) (models.UserProfile, error) {
	wasOpen := false
	p, err := ps.store.UpdateExisting(id, func(up *models.UserProfile) {
		wasOpen = up.InSession()
		up.CloseSession(now)
		up.LastSeenAt = now
	})
	if wasOpen {
		ps.online.Dec()
	}
	return p, err
}

// ToggleMessages flips the user's opt-out and returns the new suppressed state.
func (ps *ProfileService) ToggleMessages(id uuid.UUID) (bool, error) {
	p, err := ps.store.UpdateExisting(id, func(up *models.UserProfile) {
		up.MessagingSuppressed = !up.MessagingSuppressed
	})
	if err != nil {
		return false, err
	}
	return p.MessagingSuppressed, nil
}

func (ps *ProfileService) FlushSessions(now time.Time) int {
	return ps.store.FlushSessions(now)
}

// CloseStaleSessions ends sessions restored from a snapshot at their last
// recorded activity. No session is open after a restart.
func (ps *ProfileService) CloseStaleSessions() int {
	n := ps.store.CloseSessions(func(p models.UserProfile) time.Time {
		if p.LastSeenAt.After(p.SessionStartedAt) {
			return p.LastSeenAt
		}
		return p.SessionStartedAt
	})
	ps.online.Store(0)
	return n
}

func (ps *ProfileService) Profile(id uuid.UUID) (models.UserProfile, bool) {
	return ps.store.Get(id)
}

// IsOnline reports whether the user has an open session.
func (ps *ProfileService) IsOnline(id uuid.UUID) bool {
	p, ok := ps.store.Get(id)
	return ok && p.InSession()
}

func (ps *ProfileService) FindByName(name string) (uuid.UUID, bool) {
	return ps.store.FindByName(name)
}

// Online is the number of open sessions.
func (ps *ProfileService) Online() int {
	return int(ps.online.Load())
}

func (ps *ProfileService) UniqueTotal() int {
	return ps.store.UniqueTotal()
}

func (ps *ProfileService) UpdateGauges() {
	ps.metrics.SetProfilesTotal(ps.store.Len())
	ps.metrics.SetActiveSessions(ps.Online())
}
