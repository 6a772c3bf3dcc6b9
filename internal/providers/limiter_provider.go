package providers

import (
	"sync"
	"time"
	"welcomer/internal/structures"

	"golang.org/x/time/rate"
)

// CooldownProviderInterface gates repeated admin actions per caller.
type CooldownProviderInterface interface {
	Allow(action, caller string) bool
}

type CooldownProvider struct {
	mu        sync.Mutex
	clock     Clock
	cooldowns map[string]time.Duration
	limiters  map[string]*callerLimiter
	ttl       time.Duration
}

type callerLimiter struct {
	lim     *rate.Limiter
	lastHit time.Time
}

func NewCooldownProvider(conf *structures.Config, clock Clock) CooldownProviderInterface {
	ttl := time.Minute
	for _, d := range conf.Admin.Cooldowns {
		ttl = max(ttl, 2*d)
	}
	return &CooldownProvider{
		clock:     clock,
		cooldowns: conf.Admin.Cooldowns,
		limiters:  make(map[string]*callerLimiter),
		ttl:       ttl,
	}
}

// Allow reports whether caller may run action now. Actions without a
// configured cooldown are always allowed.
func (s *CooldownProvider) Allow(action, caller string) bool {
	every, ok := s.cooldowns[action]
	if !ok || every <= 0 {
		return true
	}
	if caller == "" {
		caller = "unknown"
	}

	now := s.clock.Now()
	key := action + ":" + caller

	s.mu.Lock()
	defer s.mu.Unlock()

	// lazy cleanup
	for k, v := range s.limiters {
		if now.Sub(v.lastHit) > s.ttl {
			delete(s.limiters, k)
		}
	}

	cl, ok := s.limiters[key]
	if !ok {
		cl = &callerLimiter{lim: rate.NewLimiter(rate.Every(every), 1)}
		s.limiters[key] = cl
	}
	cl.lastHit = now
	return cl.lim.AllowN(now, 1)
}
