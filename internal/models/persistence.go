package models

import (
	"time"

	"github.com/google/uuid"
)

const SnapshotVersion = 1

// RecognitionSnapshot is the persisted per-user recognition state, keyed by
// user id string. Ledgers hold MilestoneLedger binary encodings.
type RecognitionSnapshot struct {
	Ledgers  map[string][]byte      `json:"ledgers"`
	Streaks  map[string]StreakState `json:"streaks"`
	LastSeen map[string]time.Time   `json:"last_seen"`
}

// Snapshot is the versioned persistence envelope.
type Snapshot struct {
	Version     int                    `json:"version"`
	SavedAt     time.Time              `json:"saved_at"`
	UniqueTotal int                    `json:"unique_total"`
	Profiles    map[string]UserProfile `json:"profiles"`
	Recognition RecognitionSnapshot    `json:"recognition"`
}

// ArchivedRecognition is the recognition state of one swept user.
type ArchivedRecognition struct {
	Ledger    []byte      `json:"ledger,omitempty"`
	Streak    StreakState `json:"streak"`
	LastSeen  time.Time   `json:"last_seen"`
	EvictedAt time.Time   `json:"evicted_at"`
}

// ArchiveInterface keeps swept recognition state outside of memory until the
// user returns.
type ArchiveInterface interface {
	Has(id uuid.UUID) bool
	Evict(id uuid.UUID, entry ArchivedRecognition)
	Restore(id uuid.UUID) (ArchivedRecognition, bool, error)
}
