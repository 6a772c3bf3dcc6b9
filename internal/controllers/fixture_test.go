package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"
	"welcomer/internal/animation"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/services"
	"welcomer/internal/structures"
	"welcomer/internal/testutil"
	"welcomer/internal/tick"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

var t0 = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

type fixture struct {
	conf     *structures.Config
	logger   *testutil.MockLogger
	clock    *testutil.MockClock
	cache    *testutil.MockCache
	cooldown *testutil.MockCooldown
	ticks    *tick.Scheduler
	outbox   providers.OutboxProviderInterface
	reloader *services.ConfigReloader
	profiles *services.ProfileService
	engine   *animation.Engine
	events   *EventController
	admin    *AdminController
	health   *HealthController
}

func testConfig() *structures.Config {
	return &structures.Config{
		General: structures.GeneralConfig{TickInterval: 50 * time.Millisecond, MaxPlayers: 20},
		Messages: structures.MessagesConfig{
			Enabled: true,
			Join:    structures.MessagePool{Default: []string{"Welcome {player}"}},
			Quit:    structures.MessagePool{Default: []string{"Bye {player}"}},
		},
		Themes: structures.ThemesConfig{
			Enabled: true, Current: "auto", AutoDetect: true,
			Seasonal: structures.ThemeGroupConfig{Enabled: true, Themes: map[string]structures.ThemeConfig{
				"winter": {Start: "12-01", End: "02-28", Description: "Snowy greetings"},
			}},
		},
		Recognition: structures.RecognitionConfig{
			Enabled: true,
			Milestones: structures.MilestonesConfig{
				Enabled: true,
				Join: structures.MilestoneCategoryConfig{
					Enabled: true, Thresholds: []int{2}, Messages: map[string][]string{"2": {"{player} joined {milestone} times"}},
				},
			},
			Behavior: structures.BehaviorConfig{Enabled: true, FavoriteWorld: true, JoinPatterns: true},
		},
		Animations: structures.AnimationsConfig{
			UseActionBar:    true,
			ShowFinalInChat: true,
			DefaultType:     "typing",
			DefaultDuration: 40,
		},
	}
}

func newFixture(conf *structures.Config) *fixture {
	f := &fixture{
		conf:     conf,
		logger:   &testutil.MockLogger{},
		clock:    testutil.NewMockClock(t0),
		cache:    testutil.NewMockCache(),
		cooldown: &testutil.MockCooldown{},
	}
	metrics := &testutil.MockMetrics{}
	store := models.NewProfileStore()

	f.ticks = tick.NewScheduler(conf, f.logger)
	f.profiles = services.NewProfileService(f.logger, metrics, store)
	f.outbox = providers.NewOutboxProvider(f.clock, f.logger, f.profiles)
	recognition := services.NewRecognitionService(conf, f.logger, metrics, store)
	themes := services.NewThemeService(conf, f.logger, f.clock)
	f.engine = animation.NewEngine(conf, f.logger, metrics, f.outbox, f.ticks)
	messages := services.NewMessageService(conf, f.logger, metrics, recognition, themes, f.profiles, f.engine)
	welcome := services.NewWelcomeService(f.logger, f.clock, f.profiles, recognition, themes, messages, f.engine)

	f.events = NewEventController(f.logger, welcome, f.ticks, f.outbox, f.cache, f.cooldown)
	f.reloader = services.NewConfigReloader(conf, f.logger, themes)
	f.admin = NewAdminController(f.logger, welcome, themes, f.profiles, recognition, f.engine, f.ticks, f.cache, f.cooldown, f.reloader)
	f.health = NewHealthController(f.profiles, f.engine, f.ticks)
	return f
}

func newPlayer(name string) models.Player {
	return models.Player{ID: uuid.New(), Name: name, World: "overworld"}
}

func playerBody(p models.Player) string {
	data, _ := json.Marshal(p)
	return string(data)
}

func do(h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decode[T any](rr *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(rr.Body.Bytes(), &v)
	return v
}
