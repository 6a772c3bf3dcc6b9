package models

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

type MilestoneCategory int

const (
	CategoryJoin MilestoneCategory = iota
	CategoryActive
	CategoryStreak
)

// Categories lists milestone categories in evaluation order.
var Categories = []MilestoneCategory{CategoryJoin, CategoryActive, CategoryStreak}

func (c MilestoneCategory) String() string {
	switch c {
	case CategoryJoin:
		return "join-count"
	case CategoryActive:
		return "active-duration"
	case CategoryStreak:
		return "login-streak"
	default:
		return "unknown"
	}
}

// MilestoneLedger is the set of (category, threshold) pairs already
// announced to one user. Each category is a roaring bitmap of thresholds.
type MilestoneLedger struct {
	mu   sync.RWMutex
	sets [3]*roaring.Bitmap
}

func NewMilestoneLedger() *MilestoneLedger {
	l := &MilestoneLedger{}
	for i := range l.sets {
		l.sets[i] = roaring.New()
	}
	return l
}

func (l *MilestoneLedger) valid(c MilestoneCategory, threshold int) bool {
	return c >= CategoryJoin && c <= CategoryStreak && threshold >= 0
}

func (l *MilestoneLedger) Recorded(c MilestoneCategory, threshold int) bool {
	if !l.valid(c, threshold) {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sets[c].Contains(uint32(threshold))
}

// Record marks the pair and reports whether it was new.
func (l *MilestoneLedger) Record(c MilestoneCategory, threshold int) bool {
	if !l.valid(c, threshold) {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sets[c].CheckedAdd(uint32(threshold))
}

func (l *MilestoneLedger) Thresholds(c MilestoneCategory) []int {
	if !l.valid(c, 0) {
		return nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	raw := l.sets[c].ToArray()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out
}

func (l *MilestoneLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := 0
	for _, s := range l.sets {
		n += int(s.GetCardinality())
	}
	return n
}

// MarshalBinary writes the three bitmaps in category order.
func (l *MilestoneLedger) MarshalBinary() ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var buf bytes.Buffer
	for _, s := range l.sets {
		if err := writeBitmap(&buf, s); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (l *MilestoneLedger) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	var sets [3]*roaring.Bitmap
	for i := range sets {
		bm, err := readBitmap(r)
		if err != nil {
			return fmt.Errorf("ledger category %s: %w", MilestoneCategory(i), err)
		}
		sets[i] = bm
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sets = sets
	return nil
}
