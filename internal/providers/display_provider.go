package providers

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ChannelActionBar = "actionbar"
	ChannelChat      = "chat"

	outboxCapacity = 64
)

var (
	ErrUserOffline = errors.New("user has no open session")
	ErrOutboxFull  = errors.New("action bar backlog full")
)

// Delivery is one piece of text the host should show to a user.
type Delivery struct {
	Channel string    `json:"channel"`
	Text    string    `json:"text"`
	At      time.Time `json:"at"`
}

// Presence reports whether a user has an open session.
type Presence interface {
	IsOnline(id uuid.UUID) bool
}

type OutboxProviderInterface interface {
	ActionBar(user uuid.UUID, text string) error
	Chat(user uuid.UUID, text string) error
	Drain(user uuid.UUID) []Delivery
	Forget(user uuid.UUID)
	Len() int
}

// OutboxProvider queues deliveries per online user until the host collects
// them. A queue holds at most outboxCapacity entries: a full queue rejects
// action bar frames and makes room for chat lines by dropping the oldest.
type OutboxProvider struct {
	mu       sync.Mutex
	clock    Clock
	logger   Logger
	presence Presence
	queues   map[uuid.UUID][]Delivery
}

func NewOutboxProvider(clock Clock, logger Logger, presence Presence) OutboxProviderInterface {
	return &OutboxProvider{
		clock:    clock,
		logger:   logger,
		presence: presence,
		queues:   make(map[uuid.UUID][]Delivery),
	}
}

func (o *OutboxProvider) ActionBar(user uuid.UUID, text string) error {
	if !o.presence.IsOnline(user) {
		return ErrUserOffline
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queues[user]) >= outboxCapacity {
		return ErrOutboxFull
	}
	o.queues[user] = append(o.queues[user], Delivery{Channel: ChannelActionBar, Text: text, At: o.clock.Now()})
	return nil
}

func (o *OutboxProvider) Chat(user uuid.UUID, text string) error {
	if !o.presence.IsOnline(user) {
		return ErrUserOffline
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	q := append(o.queues[user], Delivery{Channel: ChannelChat, Text: text, At: o.clock.Now()})
	if len(q) > outboxCapacity {
		dropped := len(q) - outboxCapacity
		q = append(q[:0:0], q[dropped:]...)
		o.logger.Debugf(TypeAnimation, "Outbox of %s full, dropped %d entries", user, dropped)
	}
	o.queues[user] = q
	return nil
}

// Drain returns and clears the pending deliveries of user, oldest first.
func (o *OutboxProvider) Drain(user uuid.UUID) []Delivery {
	o.mu.Lock()
	defer o.mu.Unlock()
	q := o.queues[user]
	delete(o.queues, user)
	return q
}

func (o *OutboxProvider) Forget(user uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.queues, user)
}

// Len is the number of users with pending deliveries.
func (o *OutboxProvider) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queues)
}
