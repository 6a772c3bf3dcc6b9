// Package tick provides the cooperative, tick-driven execution context all
// per-user state changes and animation frames run on.
package tick

import (
	"container/heap"
	"context"
	"sync"
	"time"
	"welcomer/internal/providers"
	"welcomer/internal/structures"

	"go.uber.org/atomic"
)

type Scheduler struct {
	logger   providers.Logger
	interval time.Duration

	mu    sync.Mutex
	queue taskQueue
	seq   uint64

	// execMu serializes task bodies with inline Do calls.
	execMu  sync.Mutex
	current atomic.Uint64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

func NewScheduler(conf *structures.Config, logger providers.Logger) *Scheduler {
	interval := conf.General.TickInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &Scheduler{
		logger:   logger,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Current is the number of ticks executed so far.
func (s *Scheduler) Current() uint64 {
	return s.current.Load()
}

// DurationToTicks converts wall time to whole ticks, never less than one.
func (s *Scheduler) DurationToTicks(d time.Duration) uint64 {
	if d < s.interval {
		return 1
	}
	return uint64(d / s.interval)
}

// RunLater runs fn once, delay ticks from now. A zero delay runs on the next tick.
func (s *Scheduler) RunLater(delay uint64, fn func()) *Task {
	return s.schedule(delay, 0, func(*Task) { fn() })
}

// RunTimer runs fn after delay ticks and then every period ticks until the
// task is cancelled or fn calls Finish on it.
func (s *Scheduler) RunTimer(delay, period uint64, fn func(*Task)) *Task {
	return s.schedule(delay, max(period, 1), fn)
}

func (s *Scheduler) schedule(delay, period uint64, fn func(*Task)) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &Task{
		id:     s.seq,
		due:    s.current.Load() + delay,
		period: period,
		fn:     fn,
	}
	heap.Push(&s.queue, t)
	return t
}

// Pending is the number of queued tasks, including cancelled ones not yet discarded.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Step executes every task due at the current tick, then advances the tick.
func (s *Scheduler) Step() {
	s.execMu.Lock()
	defer s.execMu.Unlock()

	now := s.current.Load()
	for {
		s.mu.Lock()
		if s.queue.Len() == 0 || s.queue[0].due > now {
			s.mu.Unlock()
			break
		}
		t := heap.Pop(&s.queue).(*Task)
		s.mu.Unlock()

		if t.Finished() {
			continue
		}
		s.run(t)

		if t.period > 0 && !t.Finished() {
			s.mu.Lock()
			t.due = now + t.period
			heap.Push(&s.queue, t)
			s.mu.Unlock()
		} else if t.period == 0 {
			t.done.Store(true)
		}
	}
	s.current.Inc()
}

func (s *Scheduler) run(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			t.Cancel()
			s.logger.Errorf(providers.TypeApp, "Task %d panicked: %v", t.id, r)
		}
	}()
	t.runs.Inc()
	t.fn(t)
}

// Advance runs n steps synchronously.
func (s *Scheduler) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Do runs fn on the tick goroutine and waits for it. When the loop is not
// running fn executes inline, still serialized with task bodies.
// Must not be called from inside a task.
func (s *Scheduler) Do(ctx context.Context, fn func()) error {
	if !s.running.Load() {
		s.execMu.Lock()
		defer s.execMu.Unlock()
		fn()
		return nil
	}

	done := make(chan struct{})
	t := s.RunLater(0, func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.Cancel()
		return ctx.Err()
	}
}

func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	go s.loop()
	s.logger.Infof(providers.TypeApp, "Tick loop started, interval %s", s.interval)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	if s.running.CompareAndSwap(true, false) {
		s.logger.Infof(providers.TypeApp, "Tick loop stopped at tick %d", s.current.Load())
	}
}
