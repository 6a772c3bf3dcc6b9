package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore keeps one UserProfile per user plus the running count of
// distinct users ever seen.
type ProfileStore struct {
	profiles    *ShardedMap[UserProfile]
	uniqueTotal atomic.Int64
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: NewShardedMap[UserProfile]()}
}

func (ps *ProfileStore) Get(id uuid.UUID) (UserProfile, bool) {
	return ps.profiles.Get(id)
}

// Update applies fn to the profile of id, creating an empty one on first
// lookup, and returns the profile before and after the change.
func (ps *ProfileStore) Update(id uuid.UUID, fn func(p *UserProfile)) (before, after UserProfile) {
	ps.profiles.Compute(id, func(v UserProfile, _ bool) (UserProfile, bool) {
		before = v
		fn(&v)
		after = v
		return v, true
	})
	return before, after
}

// UpdateExisting is Update without lazy creation.
func (ps *ProfileStore) UpdateExisting(id uuid.UUID, fn func(p *UserProfile)) (UserProfile, error) {
	var found bool
	out := ps.profiles.Compute(id, func(v UserProfile, ok bool) (UserProfile, bool) {
		found = ok
		if !ok {
			return v, false
		}
		fn(&v)
		return v, true
	})
	if !found {
		return UserProfile{}, ErrProfileNotFound
	}
	return out, nil
}

func (ps *ProfileStore) Delete(id uuid.UUID) bool {
	return ps.profiles.Delete(id)
}

// FindByName looks a user up by last known name, ignoring case.
func (ps *ProfileStore) FindByName(name string) (uuid.UUID, bool) {
	var found uuid.UUID
	ok := false
	ps.profiles.Range(func(id uuid.UUID, p UserProfile) bool {
		if strings.EqualFold(p.Name, name) {
			found, ok = id, true
			return false
		}
		return true
	})
	return found, ok
}

func (ps *ProfileStore) Len() int {
	return ps.profiles.Len()
}

func (ps *ProfileStore) OpenSessions() int {
	n := 0
	ps.profiles.Range(func(_ uuid.UUID, p UserProfile) bool {
		if p.InSession() {
			n++
		}
		return true
	})
	return n
}

// FlushSessions folds every open session into its total at now.
func (ps *ProfileStore) FlushSessions(now time.Time) int {
	n := 0
	ps.profiles.Range(func(id uuid.UUID, p UserProfile) bool {
		if p.InSession() {
			ps.profiles.Compute(id, func(v UserProfile, ok bool) (UserProfile, bool) {
				if ok {
					v.FlushSession(now)
				}
				return v, ok
			})
			n++
		}
		return true
	})
	return n
}

// CloseSessions ends every open session, used after a restore when the
// sessions recorded in the snapshot can no longer be open.
func (ps *ProfileStore) CloseSessions(at func(p UserProfile) time.Time) int {
	n := 0
	ps.profiles.Range(func(id uuid.UUID, p UserProfile) bool {
		if p.InSession() {
			ps.profiles.Compute(id, func(v UserProfile, ok bool) (UserProfile, bool) {
				if ok {
					v.CloseSession(at(v))
				}
				return v, ok
			})
			n++
		}
		return true
	})
	return n
}

func (ps *ProfileStore) UniqueTotal() int {
	return int(ps.uniqueTotal.Load())
}

// IncUnique counts a newly seen user and returns the new total.
func (ps *ProfileStore) IncUnique() int {
	return int(ps.uniqueTotal.Inc())
}

func (ps *ProfileStore) Snapshot() (map[uuid.UUID]UserProfile, int) {
	return ps.profiles.Snapshot(), ps.UniqueTotal()
}

// Restore replaces the store content. A unique total lower than the number
// of profiles is raised to match.
func (ps *ProfileStore) Restore(profiles map[uuid.UUID]UserProfile, uniqueTotal int) {
	ps.profiles.Clear()
	for id, p := range profiles {
		ps.profiles.Set(id, p)
	}
	ps.uniqueTotal.Store(int64(max(uniqueTotal, len(profiles))))
}
