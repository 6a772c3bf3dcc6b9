package services

import (
	"slices"
	"strings"
	"sync"
	"time"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/ranges"
	"welcomer/internal/structures"

	"golang.org/x/time/rate"
)

const autoTheme = "auto"

type ThemeServiceInterface interface {
	CurrentTheme() string
	ThemeMessages(event string, isFirstTime bool) ([]string, bool)
	AvailableThemes() []string
	DescribeCurrent() string
	Override(name string)
	ClearOverride()
	Validate() int
	Reload()
}

// ThemeService resolves the active theme. Evaluation results are cached and
// refreshed at most once per themes.checkInterval.
type ThemeService struct {
	conf   *structures.Config
	logger providers.Logger
	clock  providers.Clock

	// themes is in tie-break order: seasonal before time of day, names ascending.
	themes []models.Theme
	byName map[string]models.Theme

	mu       sync.Mutex
	current  string
	override string
	limiter  *rate.Limiter
}

func NewThemeService(conf *structures.Config, logger providers.Logger, clock providers.Clock) ThemeServiceInterface {
	return newThemeService(conf, logger, clock)
}

func newThemeService(conf *structures.Config, logger providers.Logger, clock providers.Clock) *ThemeService {
	ts := &ThemeService{
		conf:    conf,
		logger:  logger,
		clock:   clock,
		current: models.DefaultTheme,
	}
	ts.load()
	logger.Infof(providers.TypeTheme, "Active theme: %s", ts.current)
	return ts
}

// load rebuilds the theme table and throttle from conf and re-resolves the
// active theme. Callers hold ts.mu or own ts exclusively.
func (ts *ThemeService) load() {
	limit := rate.Inf
	if ts.conf.Themes.CheckInterval > 0 {
		limit = rate.Every(ts.conf.Themes.CheckInterval)
	}
	ts.limiter = rate.NewLimiter(limit, 1)

	ts.themes = nil
	ts.themes = append(ts.themes, buildThemes(ts.conf.Themes.Seasonal, models.KindSeasonal)...)
	ts.themes = append(ts.themes, buildThemes(ts.conf.Themes.TimeOfDay, models.KindTimeOfDay)...)
	ts.byName = make(map[string]models.Theme, len(ts.themes))
	for _, t := range ts.themes {
		if _, dup := ts.byName[t.Name]; dup {
			ts.logger.Warnf(providers.TypeTheme, "Theme %q is configured as both seasonal and time-of-day, using the seasonal one", t.Name)
			continue
		}
		ts.byName[t.Name] = t
	}

	ts.Validate()

	now := ts.clock.Now()
	ts.limiter.AllowN(now, 1)
	ts.current = ts.resolve(now)
}

// Reload picks up changed theme configuration. An override stays in place.
func (ts *ThemeService) Reload() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	prev := ts.current
	ts.load()
	ts.logger.Infof(providers.TypeTheme, "Themes reloaded, %d theme(s), active theme: %s (was %s)", len(ts.themes), ts.current, prev)
}

func buildThemes(group structures.ThemeGroupConfig, kind models.ThemeKind) []models.Theme {
	names := make([]string, 0, len(group.Themes))
	for name := range group.Themes {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]models.Theme, 0, len(names))
	for _, name := range names {
		tc := group.Themes[name]
		t := models.Theme{
			Name:        strings.ToLower(name),
			Kind:        kind,
			Priority:    tc.Priority,
			Description: tc.Description,
			Join:        tc.Join,
			Quit:        tc.Quit,
		}
		var err error
		if kind == models.KindTimeOfDay {
			t.Times, err = ranges.ParseTimeRange(tc.Start, tc.End)
		} else {
			t.Dates, err = ranges.ParseDateRange(tc.Start, tc.End)
		}
		t.Valid = err == nil
		out = append(out, t)
	}
	return out
}

func (ts *ThemeService) kindEnabled(k models.ThemeKind) bool {
	if k == models.KindTimeOfDay {
		return ts.conf.Themes.TimeOfDay.Enabled
	}
	return ts.conf.Themes.Seasonal.Enabled
}

func (ts *ThemeService) resolve(now time.Time) string {
	tc := ts.conf.Themes
	if !tc.Enabled {
		return models.DefaultTheme
	}
	if explicit := strings.ToLower(strings.TrimSpace(tc.Current)); explicit != "" && explicit != autoTheme {
		return explicit
	}
	if !tc.AutoDetect {
		return models.DefaultTheme
	}

	best, found := models.Theme{Name: models.DefaultTheme}, false
	for _, t := range ts.themes {
		if !ts.kindEnabled(t.Kind) || !t.Matches(now) {
			continue
		}
		if !found || t.Priority > best.Priority {
			best, found = t, true
		}
	}
	return best.Name
}

func (ts *ThemeService) CurrentTheme() string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.override != "" {
		return ts.override
	}

	now := ts.clock.Now()
	if !ts.limiter.AllowN(now, 1) {
		return ts.current
	}
	next := ts.resolve(now)
	if next != ts.current {
		ts.logger.Infof(providers.TypeTheme, "Theme changed: %s -> %s", ts.current, next)
		ts.current = next
	}
	return ts.current
}

// ThemeMessages returns the active theme's pool for event, or false when the
// default theme is active or the theme has no such messages.
func (ts *ThemeService) ThemeMessages(event string, isFirstTime bool) ([]string, bool) {
	name := ts.CurrentTheme()
	if name == models.DefaultTheme {
		return nil, false
	}
	t, ok := ts.byName[name]
	if !ok {
		return nil, false
	}
	pool := t.Pool(event)
	msgs := pool.Default
	if isFirstTime {
		msgs = pool.FirstTime
	}
	if len(msgs) == 0 {
		return nil, false
	}
	return msgs, true
}

func (ts *ThemeService) AvailableThemes() []string {
	out := make([]string, 0, len(ts.themes)+1)
	out = append(out, models.DefaultTheme)
	for _, t := range ts.themes {
		if !slices.Contains(out, t.Name) {
			out = append(out, t.Name)
		}
	}
	return out
}

func (ts *ThemeService) DescribeCurrent() string {
	name := ts.CurrentTheme()
	if name == models.DefaultTheme {
		return "Default theme (no special styling)"
	}
	desc := "Custom theme"
	if t, ok := ts.byName[name]; ok && t.Description != "" {
		desc = t.Description
	}
	return strings.ToUpper(name) + " theme: " + desc
}

// Override pins the active theme until ClearOverride. Intended for testing
// theme messages on a live server.
func (ts *ThemeService) Override(name string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.override = strings.ToLower(strings.TrimSpace(name))
	ts.logger.Infof(providers.TypeTheme, "Theme overridden: %s", ts.override)
}

func (ts *ThemeService) ClearOverride() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.override = ""
	ts.current = ts.resolve(ts.clock.Now())
	ts.logger.Infof(providers.TypeTheme, "Theme override cleared, active theme: %s", ts.current)
}

// Validate logs malformed ranges and every overlapping same-kind pair with
// the theme that would win. It returns the number of overlapping pairs and
// never fails.
func (ts *ThemeService) Validate() int {
	ts.logger.Infof(providers.TypeTheme, "Validating theme configuration...")

	for _, t := range ts.themes {
		if !t.Valid {
			group := ts.conf.Themes.Seasonal.Themes
			if t.Kind == models.KindTimeOfDay {
				group = ts.conf.Themes.TimeOfDay.Themes
			}
			tc := findThemeConfig(group, t.Name)
			ts.logger.Warnf(providers.TypeTheme, "%s theme %q has a missing or malformed range (%q..%q), it will never match", t.Kind, t.Name, tc.Start, tc.End)
		}
	}

	overlaps := 0
	for i, a := range ts.themes {
		for _, b := range ts.themes[i+1:] {
			if !a.Overlaps(b) {
				continue
			}
			overlaps++
			winner := a
			if b.Priority > a.Priority {
				winner = b
			}
			ts.logger.Infof(providers.TypeTheme, "%s range overlap between %q (%s, priority %d) and %q (%s, priority %d). Winner: %s",
				a.Kind, a.Name, a.RangeString(), a.Priority, b.Name, b.RangeString(), b.Priority, winner.Name)
		}
	}

	if explicit := strings.ToLower(strings.TrimSpace(ts.conf.Themes.Current)); explicit != "" && explicit != autoTheme && explicit != models.DefaultTheme {
		if _, ok := ts.byName[explicit]; !ok {
			ts.logger.Warnf(providers.TypeTheme, "Configured theme %q is not defined, its messages fall back to the default pools", explicit)
		}
	}

	ts.logger.Infof(providers.TypeTheme, "Theme configuration validation completed, %d theme(s), %d overlap(s)", len(ts.themes), overlaps)
	return overlaps
}

func findThemeConfig(group map[string]structures.ThemeConfig, name string) structures.ThemeConfig {
	for k, v := range group {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return structures.ThemeConfig{}
}
