package testutil

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"welcomer/internal/providers"

	"github.com/google/uuid"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Messages returns the formatted messages logged at level.
func (m *MockLogger) Messages(level string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e.Message())
		}
	}
	return out
}

// MockClock implements providers.Clock with manually controlled time.
type MockClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewMockClock(start time.Time) *MockClock {
	return &MockClock{now: start}
}

func (c *MockClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *MockClock) Location() *time.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now.Location()
}

func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockDisplay records frames sent to a user's action bar and chat.
type MockDisplay struct {
	mu            sync.Mutex
	ActionBars    map[uuid.UUID][]string
	Chats         map[uuid.UUID][]string
	FailActionBar bool
	// ActionBarErr replaces ErrActionBarUnavailable when set.
	ActionBarErr error
}

func NewMockDisplay() *MockDisplay {
	return &MockDisplay{
		ActionBars: make(map[uuid.UUID][]string),
		Chats:      make(map[uuid.UUID][]string),
	}
}

var ErrActionBarUnavailable = errors.New("action bar unavailable")

func (d *MockDisplay) ActionBar(user uuid.UUID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailActionBar {
		if d.ActionBarErr != nil {
			return d.ActionBarErr
		}
		return ErrActionBarUnavailable
	}
	d.ActionBars[user] = append(d.ActionBars[user], text)
	return nil
}

func (d *MockDisplay) Chat(user uuid.UUID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Chats[user] = append(d.Chats[user], text)
	return nil
}

func (d *MockDisplay) Frames(user uuid.UUID) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ActionBars[user]...)
}

func (d *MockDisplay) ChatLines(user uuid.UUID) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Chats[user]...)
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
}

// MockCompressor implements the storage compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockMetrics implements providers.MetricsProviderInterface with counters.
type MockMetrics struct {
	mu                  sync.Mutex
	Requests            int
	CacheHits           int
	CacheMisses         int
	PersistenceCalls    int
	Messages            map[string]int
	Milestones          map[string]int
	Animations          map[string]int
	AnimationsCancelled int
	Frames              int
	DisplayFallbacks    int
	Profiles            int
	Sessions            int
	ActiveAnimations    int
}

func (m *MockMetrics) inc(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = make(map[string]int)
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceCalls++
}
func (m *MockMetrics) IncMessages(event, tier string) { m.inc(&m.Messages, event+":"+tier) }
func (m *MockMetrics) IncMilestones(category string)  { m.inc(&m.Milestones, category) }
func (m *MockMetrics) IncAnimations(effect string)    { m.inc(&m.Animations, effect) }
func (m *MockMetrics) IncAnimationsCancelled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnimationsCancelled++
}
func (m *MockMetrics) IncFrames() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames++
}
func (m *MockMetrics) IncDisplayFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DisplayFallbacks++
}
func (m *MockMetrics) SetProfilesTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Profiles = count
}
func (m *MockMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions = count
}
func (m *MockMetrics) SetActiveAnimations(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ActiveAnimations = count
}

// MockCooldown implements providers.CooldownProviderInterface.
type MockCooldown struct {
	Deny bool
}

func (m *MockCooldown) Allow(_, _ string) bool { return !m.Deny }
