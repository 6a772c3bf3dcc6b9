package services

import (
	"time"
	"welcomer/internal/animation"
	"welcomer/internal/models"
	"welcomer/internal/structures"
	"welcomer/internal/testutil"
	"welcomer/internal/tick"

	"github.com/google/uuid"
)

// Tuesday morning.
var t0 = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	conf        *structures.Config
	logger      *testutil.MockLogger
	metrics     *testutil.MockMetrics
	clock       *testutil.MockClock
	display     *testutil.MockDisplay
	sched       *tick.Scheduler
	store       *models.ProfileStore
	profiles    *ProfileService
	recognition *RecognitionService
	themes      *ThemeService
	engine      *animation.Engine
	messages    *MessageService
	welcome     *WelcomeService
}

func baseConfig() *structures.Config {
	return &structures.Config{
		General: structures.GeneralConfig{TickInterval: 50 * time.Millisecond, MaxPlayers: 50},
		Messages: structures.MessagesConfig{
			Enabled:      true,
			Join:         structures.MessagePool{Default: []string{"Welcome {player}"}},
			Quit:         structures.MessagePool{Default: []string{"Bye {player}"}},
			RankPriority: []string{"owner", "admin", "mvp", "vip"},
		},
		Themes: structures.ThemesConfig{Enabled: true, Current: "auto", AutoDetect: true},
		Recognition: structures.RecognitionConfig{
			Enabled:    true,
			Milestones: structures.MilestonesConfig{Enabled: true, AbsorbLower: true},
			Returning: structures.ReturningConfig{
				Enabled:  true,
				Short:    structures.AbsenceBand{Hours: 24, Messages: []string{"short {player} {hours}"}},
				Medium:   structures.AbsenceBand{Hours: 168, Messages: []string{"medium {player} {hours}"}},
				Long:     structures.AbsenceBand{Hours: 720, Messages: []string{"long {player} {hours}"}},
				VeryLong: structures.AbsenceBand{Hours: 2160, Messages: []string{"very long {player} {hours}"}},
			},
			Behavior: structures.BehaviorConfig{Enabled: true, PeakActivity: true, FavoriteWorld: true, JoinPatterns: true},
		},
		Animations: structures.AnimationsConfig{
			UseActionBar:    true,
			DefaultType:     "typing",
			DefaultDuration: 60,
			FinalChatDelay:  20,
		},
	}
}

func newFixture(conf *structures.Config) *fixture {
	f := &fixture{
		conf:    conf,
		logger:  &testutil.MockLogger{},
		metrics: &testutil.MockMetrics{},
		clock:   testutil.NewMockClock(t0),
		display: testutil.NewMockDisplay(),
		store:   models.NewProfileStore(),
	}
	f.sched = tick.NewScheduler(conf, f.logger)
	f.profiles = NewProfileService(f.logger, f.metrics, f.store)
	f.recognition = NewRecognitionService(conf, f.logger, f.metrics, f.store)
	f.recognition.Seed(1, 2)
	f.themes = newThemeService(conf, f.logger, f.clock)
	f.engine = animation.NewEngine(conf, f.logger, f.metrics, f.display, f.sched)
	f.engine.Seed(3, 4)
	f.messages = NewMessageService(conf, f.logger, f.metrics, f.recognition, f.themes, f.profiles, f.engine)
	f.messages.Seed(5, 6)
	f.welcome = NewWelcomeService(f.logger, f.clock, f.profiles, f.recognition, f.themes, f.messages, f.engine).(*WelcomeService)
	return f
}

func player(name string, ranks ...string) models.Player {
	return models.Player{ID: uuid.New(), Name: name, DisplayName: "~" + name, World: "overworld", Ranks: ranks}
}

func visit(p models.Player, now time.Time) Visit {
	return Visit{Player: p, Now: now}
}

func (f *fixture) setJoins(id uuid.UUID, n int) {
	f.store.Update(id, func(p *models.UserProfile) { p.JoinCount = n })
}
