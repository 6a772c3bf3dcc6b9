package services

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/structures"

	"github.com/google/uuid"
)

const (
	defaultRetention = 30 * 24 * time.Hour
	peakStartHour    = 18
	peakEndHour      = 22
)

// Visit is one connection event as seen by recognition.
type Visit struct {
	Player models.Player
	First  bool
	// PreviousSeen is the profile's last-seen time before this connection.
	PreviousSeen time.Time
	Now          time.Time
}

// RecognitionService tracks milestones, login streaks and absences per user.
type RecognitionService struct {
	conf     *structures.Config
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	profiles *models.ProfileStore
	picker   *picker

	ledgers  *models.ShardedMap[*models.MilestoneLedger]
	streaks  *models.ShardedMap[models.StreakState]
	lastSeen *models.ShardedMap[time.Time]
	archive  models.ArchiveInterface
}

func NewRecognitionService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, profiles *models.ProfileStore) *RecognitionService {
	return &RecognitionService{
		conf:     conf,
		logger:   logger,
		metrics:  metrics,
		profiles: profiles,
		picker:   newPicker(),
		ledgers:  models.NewShardedMap[*models.MilestoneLedger](),
		streaks:  models.NewShardedMap[models.StreakState](),
		lastSeen: models.NewShardedMap[time.Time](),
	}
}

// Seed makes message selection reproducible.
func (rs *RecognitionService) Seed(a, b uint64) {
	rs.picker.seed(a, b)
}

// SetArchive makes Sweep archive users instead of forgetting them. It must be
// called before the tick loop starts.
func (rs *RecognitionService) SetArchive(a models.ArchiveInterface) {
	rs.archive = a
}

// Recall brings the archived state of a returning user back into memory.
func (rs *RecognitionService) Recall(id uuid.UUID) bool {
	if rs.archive == nil || !rs.archive.Has(id) {
		return false
	}
	entry, ok, err := rs.archive.Restore(id)
	if err != nil {
		rs.logger.Errorf(providers.TypeRecognition, "Unable to recall archived state of %s: %s", id, err)
		return false
	}
	if !ok {
		return false
	}
	if len(entry.Ledger) > 0 {
		l := models.NewMilestoneLedger()
		if err := l.UnmarshalBinary(entry.Ledger); err != nil {
			rs.logger.Warnf(providers.TypeRecognition, "Dropping archived ledger of %s: %s", id, err)
		} else {
			rs.ledgers.Set(id, l)
		}
	}
	if !entry.Streak.LastLogin.IsZero() {
		rs.streaks.Set(id, entry.Streak)
	}
	if !entry.LastSeen.IsZero() {
		rs.lastSeen.Set(id, entry.LastSeen)
	}
	rs.logger.Debugf(providers.TypeRecognition, "Recalled archived state of %s (evicted %s)", id, entry.EvictedAt.Format(time.RFC3339))
	return true
}

func (rs *RecognitionService) evict(id uuid.UUID, now time.Time) {
	if rs.archive == nil {
		return
	}
	entry := models.ArchivedRecognition{EvictedAt: now}
	entry.Streak, _ = rs.streaks.Get(id)
	entry.LastSeen, _ = rs.lastSeen.Get(id)
	if l, ok := rs.ledgers.Get(id); ok && l.Len() > 0 {
		data, err := l.MarshalBinary()
		if err != nil {
			rs.logger.Errorf(providers.TypeRecognition, "Unable to archive ledger of %s: %s", id, err)
		} else {
			entry.Ledger = data
		}
	}
	rs.archive.Evict(id, entry)
}

func (rs *RecognitionService) category(c models.MilestoneCategory) structures.MilestoneCategoryConfig {
	m := rs.conf.Recognition.Milestones
	switch c {
	case models.CategoryActive:
		return m.Active
	case models.CategoryStreak:
		return m.Streak
	default:
		return m.Join
	}
}

func (rs *RecognitionService) ledger(id uuid.UUID) *models.MilestoneLedger {
	var l *models.MilestoneLedger
	rs.ledgers.Compute(id, func(v *models.MilestoneLedger, ok bool) (*models.MilestoneLedger, bool) {
		if !ok {
			v = models.NewMilestoneLedger()
		}
		l = v
		return v, true
	})
	return l
}

// updateStreak applies the login at now to the user's streak.
func (rs *RecognitionService) updateStreak(id uuid.UUID, now time.Time) models.StreakState {
	return rs.streaks.Compute(id, func(v models.StreakState, _ bool) (models.StreakState, bool) {
		return v.Login(now), true
	})
}

// CheckMilestones updates the login streak and returns the message of the
// first category, in join-count, active-duration, login-streak order, with a
// reached threshold that has not been announced yet. Within a category the
// highest such threshold wins.
func (rs *RecognitionService) CheckMilestones(v Visit) (string, bool) {
	rc := rs.conf.Recognition
	if !rc.Enabled || !rc.Milestones.Enabled {
		return "", false
	}

	id := v.Player.ID
	streak := rs.updateStreak(id, v.Now)
	profile, _ := rs.profiles.Get(id)
	ledger := rs.ledger(id)

	for _, c := range models.Categories {
		cfg := rs.category(c)
		if !cfg.Enabled {
			continue
		}

		var value int
		switch c {
		case models.CategoryJoin:
			value = profile.JoinCount
		case models.CategoryActive:
			value = int(profile.ActiveAt(v.Now) / time.Hour)
		case models.CategoryStreak:
			value = streak.Current
		}

		threshold, ok := highestUnrecorded(ledger, c, cfg.Thresholds, value)
		if !ok {
			continue
		}
		ledger.Record(c, threshold)
		if rc.Milestones.AbsorbLower {
			for _, t := range cfg.Thresholds {
				if t > 0 && t < threshold {
					ledger.Record(c, t)
				}
			}
		}
		rs.metrics.IncMilestones(c.String())

		msg, ok := rs.picker.pick(cfg.Messages[strconv.Itoa(threshold)])
		if !ok {
			rs.logger.Debugf(providers.TypeRecognition, "Milestone %s:%d reached by %s but has no messages", c, threshold, id)
			continue
		}
		rs.logger.Infof(providers.TypeRecognition, "Milestone %s:%d reached by %s", c, threshold, v.Player.Name)
		return strings.NewReplacer(
			"{player}", v.Player.Name,
			"{milestone}", strconv.Itoa(threshold),
		).Replace(msg), true
	}
	return "", false
}

func highestUnrecorded(l *models.MilestoneLedger, c models.MilestoneCategory, thresholds []int, value int) (int, bool) {
	best := 0
	for _, t := range thresholds {
		if t > 0 && value >= t && t > best && !l.Recorded(c, t) {
			best = t
		}
	}
	return best, best > 0
}

// ReturningMessage classifies the time since the user was last seen into the
// most severe matching absence band. The first observation only records now.
func (rs *RecognitionService) ReturningMessage(v Visit) (string, bool) {
	id := v.Player.ID
	prev, ok := rs.lastSeen.Get(id)
	if !ok {
		prev = v.PreviousSeen
	}
	rs.lastSeen.Set(id, v.Now)

	rc := rs.conf.Recognition
	if !rc.Enabled || !rc.Returning.Enabled || prev.IsZero() {
		return "", false
	}

	hours := int(v.Now.Sub(prev) / time.Hour)
	band, name, ok := rs.absenceBand(hours)
	if !ok {
		return "", false
	}
	msg, ok := rs.picker.pick(band.Messages)
	if !ok {
		rs.logger.Debugf(providers.TypeRecognition, "Absence band %s matched for %s but has no messages", name, id)
		return "", false
	}
	return strings.NewReplacer(
		"{player}", v.Player.Name,
		"{hours}", strconv.Itoa(hours),
	).Replace(msg), true
}

// absenceBand returns the most severe band whose threshold hours reached.
// Bands with a non-positive threshold are not configured.
func (rs *RecognitionService) absenceBand(hours int) (structures.AbsenceBand, string, bool) {
	r := rs.conf.Recognition.Returning
	bands := []struct {
		name string
		band structures.AbsenceBand
	}{
		{"very-long", r.VeryLong},
		{"long", r.Long},
		{"medium", r.Medium},
		{"short", r.Short},
	}
	for _, b := range bands {
		if b.band.Hours > 0 && hours >= b.band.Hours {
			return b.band, b.name, true
		}
	}
	return structures.AbsenceBand{}, "", false
}

// Behavior returns the diagnostic behavior snapshot of a visit.
func (rs *RecognitionService) Behavior(v Visit) map[string]any {
	out := make(map[string]any)
	bc := rs.conf.Recognition.Behavior
	if !rs.conf.Recognition.Enabled || !bc.Enabled {
		return out
	}
	if bc.PeakActivity {
		h := v.Now.Hour()
		out["peak_activity"] = h >= peakStartHour && h <= peakEndHour
	}
	if bc.FavoriteWorld {
		world := v.Player.World
		if world == "" {
			world = "unknown"
		}
		out["favorite_world"] = world
	}
	if bc.JoinPatterns {
		p, _ := rs.profiles.Get(v.Player.ID)
		out["join_count"] = p.JoinCount
		out["first_join"] = v.First
	}
	return out
}

// Touch records that the user was seen at now.
func (rs *RecognitionService) Touch(id uuid.UUID, now time.Time) {
	rs.lastSeen.Set(id, now)
}

func (rs *RecognitionService) Streak(id uuid.UUID) int {
	s, _ := rs.streaks.Get(id)
	return s.Current
}

func (rs *RecognitionService) Recorded(id uuid.UUID, c models.MilestoneCategory) []int {
	l, ok := rs.ledgers.Get(id)
	if !ok {
		return nil
	}
	return l.Thresholds(c)
}

func (rs *RecognitionService) MilestoneInfo(id uuid.UUID, now time.Time) string {
	p, _ := rs.profiles.Get(id)
	return fmt.Sprintf("Join Count: %d | Streak: %d days | Total Active: %d hours | Current Session: %d minutes",
		p.JoinCount, rs.Streak(id), int(p.TotalActive/time.Hour), int(p.SessionLength(now)/time.Minute))
}

// Reset clears streak, last-seen and ledger state of the user and zeroes the
// profile's accumulated active time; an open session restarts at now.
// It reports whether there was anything to clear.
func (rs *RecognitionService) Reset(id uuid.UUID, now time.Time) bool {
	cleared := rs.streaks.Delete(id)
	cleared = rs.lastSeen.Delete(id) || cleared
	cleared = rs.ledgers.Delete(id) || cleared
	if rs.archive != nil && rs.archive.Has(id) {
		_, archived, _ := rs.archive.Restore(id)
		cleared = archived || cleared
	}

	_, err := rs.profiles.UpdateExisting(id, func(p *models.UserProfile) {
		if p.TotalActive > 0 {
			cleared = true
		}
		p.TotalActive = 0
		if p.InSession() {
			p.SessionStartedAt = now
		}
	})
	if err == nil || cleared {
		rs.logger.Infof(providers.TypeRecognition, "Recognition data reset for %s", id)
	}
	return cleared
}

// Sweep drops tracking state of users not seen within the retention age,
// handing it to the archive when one is set.
func (rs *RecognitionService) Sweep(now time.Time) int {
	maxAge := rs.conf.Recognition.Retention.MaxAge
	if maxAge <= 0 {
		maxAge = defaultRetention
	}
	cutoff := now.Add(-maxAge)

	stale := make(map[uuid.UUID]struct{})
	rs.lastSeen.Range(func(id uuid.UUID, t time.Time) bool {
		if t.Before(cutoff) {
			stale[id] = struct{}{}
		}
		return true
	})
	rs.streaks.Range(func(id uuid.UUID, s models.StreakState) bool {
		if _, seen := rs.lastSeen.Get(id); !seen && s.LastLogin.Before(cutoff) {
			stale[id] = struct{}{}
		}
		return true
	})

	for id := range stale {
		rs.evict(id, now)
		rs.lastSeen.Delete(id)
		rs.streaks.Delete(id)
		rs.ledgers.Delete(id)
	}
	orphans := rs.ledgers.DeleteIf(func(id uuid.UUID, _ *models.MilestoneLedger) bool {
		_, seen := rs.lastSeen.Get(id)
		_, streak := rs.streaks.Get(id)
		return !seen && !streak
	})

	if n := len(stale) + orphans; n > 0 {
		rs.logger.Infof(providers.TypeRecognition, "Retention sweep removed %d idle user(s)", n)
	}
	return len(stale) + orphans
}

// Tracked is the number of users with any recognition state.
func (rs *RecognitionService) Tracked() int {
	ids := make(map[uuid.UUID]struct{})
	collect := func(id uuid.UUID) { ids[id] = struct{}{} }
	rs.lastSeen.Range(func(id uuid.UUID, _ time.Time) bool { collect(id); return true })
	rs.streaks.Range(func(id uuid.UUID, _ models.StreakState) bool { collect(id); return true })
	rs.ledgers.Range(func(id uuid.UUID, _ *models.MilestoneLedger) bool { collect(id); return true })
	return len(ids)
}

func (rs *RecognitionService) Snapshot() (models.RecognitionSnapshot, error) {
	snap := models.RecognitionSnapshot{
		Ledgers:  make(map[string][]byte),
		Streaks:  make(map[string]models.StreakState),
		LastSeen: make(map[string]time.Time),
	}
	for id, l := range rs.ledgers.Snapshot() {
		if l.Len() == 0 {
			continue
		}
		data, err := l.MarshalBinary()
		if err != nil {
			return models.RecognitionSnapshot{}, fmt.Errorf("ledger %s: %w", id, err)
		}
		snap.Ledgers[id.String()] = data
	}
	for id, s := range rs.streaks.Snapshot() {
		snap.Streaks[id.String()] = s
	}
	for id, t := range rs.lastSeen.Snapshot() {
		snap.LastSeen[id.String()] = t
	}
	return snap, nil
}

// Restore replaces all recognition state. Entries with malformed ids or
// ledgers are skipped and reported in the returned count.
func (rs *RecognitionService) Restore(snap models.RecognitionSnapshot) int {
	rs.ledgers.Clear()
	rs.streaks.Clear()
	rs.lastSeen.Clear()

	skipped := 0
	for key, data := range snap.Ledgers {
		id, err := uuid.Parse(key)
		if err != nil {
			skipped++
			continue
		}
		l := models.NewMilestoneLedger()
		if err := l.UnmarshalBinary(data); err != nil {
			rs.logger.Warnf(providers.TypeRecognition, "Skipping ledger of %s: %s", key, err)
			skipped++
			continue
		}
		rs.ledgers.Set(id, l)
	}
	for key, s := range snap.Streaks {
		id, err := uuid.Parse(key)
		if err != nil {
			skipped++
			continue
		}
		rs.streaks.Set(id, s)
	}
	for key, t := range snap.LastSeen {
		id, err := uuid.Parse(key)
		if err != nil {
			skipped++
			continue
		}
		rs.lastSeen.Set(id, t)
	}
	return skipped
}

// ThresholdsOf lists the configured thresholds of a category in ascending order.
func (rs *RecognitionService) ThresholdsOf(c models.MilestoneCategory) []int {
	out := slices.Clone(rs.category(c).Thresholds)
	slices.Sort(out)
	return out
}
