package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
	"welcomer/internal/animation"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/services"
	"welcomer/internal/storage/interfaces"
	"welcomer/internal/structures"
	"welcomer/internal/tick"

	"go.uber.org/atomic"
)

// Scheduler runs the periodic maintenance jobs on the tick loop. Snapshots
// are taken on the tick goroutine; disk writes happen in the background.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	clock       providers.Clock
	ticks       *tick.Scheduler
	profiles    *services.ProfileService
	recognition *services.RecognitionService
	engine      *animation.Engine
	fileManager *FileManager
	cold        *ColdStorage

	tasks  []*tick.Task
	saving atomic.Bool
	wg     sync.WaitGroup
	opsMu  sync.Mutex
}

func (s *Scheduler) Init() {
	s.every(s.config.Persistence.SaveInterval, s.autosave)
	s.every(s.config.Persistence.FlushInterval, s.flush)
	s.every(s.config.Recognition.Retention.SweepInterval, func() {
		s.recognition.Sweep(s.clock.Now())
	})
	s.every(s.config.Animations.SweepInterval, func() {
		s.engine.Sweep()
	})
}

func (s *Scheduler) every(d time.Duration, fn func()) {
	if d <= 0 {
		return
	}
	period := s.ticks.DurationToTicks(d)
	s.tasks = append(s.tasks, s.ticks.RunTimer(period, period, func(*tick.Task) {
		fn()
	}))
}

func (s *Scheduler) flush() {
	s.profiles.FlushSessions(s.clock.Now())
	s.profiles.UpdateGauges()
}

func (s *Scheduler) autosave() {
	if !s.saving.CompareAndSwap(false, true) {
		s.logger.Warnf(providers.TypeStorage, "Previous save still running, skipping this one")
		return
	}
	s.profiles.FlushSessions(s.clock.Now())
	snap, err := s.fileManager.Snapshot()
	if err != nil {
		s.saving.Store(false)
		s.logger.Errorf(providers.TypeStorage, "Error while taking snapshot: %s", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.saving.Store(false)
		_ = s.write(snap)
	}()
}

func (s *Scheduler) write(snap *models.Snapshot) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	err := s.fileManager.WriteSnapshot(s.config.Persistence.FilePath, snap)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while persisting data: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeStorage, "Persisted %d profiles to file %s", len(snap.Profiles), s.config.Persistence.FilePath)

	if err := s.cold.Flush(); err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while flushing cold storage: %s", err)
		return err
	}
	return nil
}

// Stop cancels the periodic jobs and waits for a running save.
func (s *Scheduler) Stop() {
	for _, t := range s.tasks {
		t.Cancel()
	}
	s.tasks = nil
	s.wg.Wait()
}

// Restore loads the snapshot file, closes the sessions it left open and
// attaches the cold archive when one is configured.
func (s *Scheduler) Restore() error {
	if s.cold.Enabled() {
		if err := s.cold.RestoreIndex(); err != nil {
			return fmt.Errorf("restore cold index %s: %w", s.config.Recognition.Retention.ColdDir, err)
		}
		s.recognition.SetArchive(s.cold)
		s.logger.Infof(providers.TypeStorage, "Cold storage holds %d archived user(s)", s.cold.Len())
	}

	err := s.fileManager.LoadFromFile(s.config.Persistence.FilePath)
	if err != nil {
		return fmt.Errorf("restore %s: %w", s.config.Persistence.FilePath, err)
	}
	if n := s.profiles.CloseStaleSessions(); n > 0 {
		s.logger.Infof(providers.TypeStorage, "Closed %d session(s) left open by the previous run", n)
	}
	s.profiles.UpdateGauges()
	return nil
}

// Persist writes the current state synchronously. Open sessions are flushed
// first so the active time up to now is kept.
func (s *Scheduler) Persist() error {
	s.logger.Infof(providers.TypeStorage, "Persisting state to file...")

	var (
		snap    *models.Snapshot
		snapErr error
	)
	err := s.ticks.Do(context.Background(), func() {
		s.profiles.FlushSessions(s.clock.Now())
		snap, snapErr = s.fileManager.Snapshot()
	})
	if err == nil {
		err = snapErr
	}
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while taking snapshot: %s", err)
		return err
	}
	return s.write(snap)
}

func NewScheduler(config *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface,
	clock providers.Clock, ticks *tick.Scheduler, profiles *services.ProfileService,
	recognition *services.RecognitionService, engine *animation.Engine, fileManager *FileManager, cold *ColdStorage) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		clock:       clock,
		ticks:       ticks,
		profiles:    profiles,
		recognition: recognition,
		engine:      engine,
		fileManager: fileManager,
		cold:        cold,
	}
}
