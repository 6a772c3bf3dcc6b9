package controllers

import (
	"net/http"
	"slices"
	"strings"
	"welcomer/internal/animation"
	"welcomer/internal/providers"
	"welcomer/internal/services"
	"welcomer/internal/tick"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	themesKey = "themes"
	statsKey  = "stats"
)

func milestonesKey(id uuid.UUID) string {
	return "milestones:" + id.String()
}

type themesResponse struct {
	Current     string   `json:"current"`
	Description string   `json:"description"`
	Available   []string `json:"available"`
}

type milestonesResponse struct {
	User     string         `json:"user"`
	Info     string         `json:"info"`
	Behavior map[string]any `json:"behavior"`
}

type statsResponse struct {
	Online     int `json:"online"`
	Unique     int `json:"unique"`
	Profiles   int `json:"profiles"`
	Tracked    int `json:"tracked"`
	Animations int `json:"animations"`
}

type previewRequest struct {
	User     uuid.UUID `json:"u"`
	Text     string    `json:"text"`
	Effect   string    `json:"effect"`
	Duration int       `json:"duration"`
}

type previewResponse struct {
	Effect string `json:"effect"`
	Ticks  int    `json:"ticks"`
}

// AdminController serves the operator commands: theme inspection and
// override, per-user recognition info, resets and animation previews.
type AdminController struct {
	logger      providers.Logger
	welcome     services.WelcomeServiceInterface
	themes      services.ThemeServiceInterface
	profiles    *services.ProfileService
	recognition *services.RecognitionService
	engine      *animation.Engine
	ticks       *tick.Scheduler
	cache       providers.CacheProviderInterface
	cooldown    providers.CooldownProviderInterface
	reloader    *services.ConfigReloader
}

func NewAdminController(logger providers.Logger, welcome services.WelcomeServiceInterface, themes services.ThemeServiceInterface,
	profiles *services.ProfileService, recognition *services.RecognitionService, engine *animation.Engine,
	ticks *tick.Scheduler, cache providers.CacheProviderInterface, cooldown providers.CooldownProviderInterface,
	reloader *services.ConfigReloader) *AdminController {
	return &AdminController{
		logger:      logger,
		welcome:     welcome,
		themes:      themes,
		profiles:    profiles,
		recognition: recognition,
		engine:      engine,
		ticks:       ticks,
		cache:       cache,
		cooldown:    cooldown,
		reloader:    reloader,
	}
}

// serveFromCacheOrCompute answers from the cache or runs compute on the tick
// goroutine, where the services and the live config are owned.
func (ac *AdminController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() any) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	var result any
	if err := ac.ticks.Do(r.Context(), func() {
		result = compute()
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// resolveUser reads the target user from ?u=<uuid> or ?name=<last known name>.
func (ac *AdminController) resolveUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	q := r.URL.Query()
	if raw := q.Get("u"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return uuid.Nil, false
		}
		return id, true
	}
	if name := q.Get("name"); name != "" {
		if id, ok := ac.profiles.FindByName(name); ok {
			return id, true
		}
		http.Error(w, "Not Found", http.StatusNotFound)
		return uuid.Nil, false
	}
	http.Error(w, "Bad Request", http.StatusBadRequest)
	return uuid.Nil, false
}

func caller(r *http.Request) string {
	if c := r.Header.Get("X-Admin"); c != "" {
		return c
	}
	return r.RemoteAddr
}

func (ac *AdminController) Themes(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, themesKey, func() any {
		return themesResponse{
			Current:     ac.welcome.CurrentTheme(),
			Description: ac.welcome.DescribeCurrentTheme(),
			Available:   ac.welcome.AvailableThemes(),
		}
	})
}

func (ac *AdminController) Theme(w http.ResponseWriter, r *http.Request) {
	var resp map[string]string
	if err := ac.ticks.Do(r.Context(), func() {
		resp = map[string]string{
			"current":     ac.welcome.CurrentTheme(),
			"description": ac.welcome.DescribeCurrentTheme(),
		}
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SetTheme pins a theme by name; "auto" or an empty name returns to
// automatic resolution.
func (ac *AdminController) SetTheme(w http.ResponseWriter, r *http.Request) {
	if !ac.cooldown.Allow("theme", caller(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}
	name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("name")))
	var known bool
	if err := ac.ticks.Do(r.Context(), func() {
		switch {
		case name == "" || name == "auto":
			known = true
			ac.themes.ClearOverride()
		case slices.Contains(ac.themes.AvailableThemes(), name):
			known = true
			ac.themes.Override(name)
		}
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	if !known {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.cache.Del(themesKey)
	ac.logger.Infof(providers.TypeTheme, "Theme set to %q by %s", name, caller(r))
	ac.Theme(w, r)
}

func (ac *AdminController) Milestones(w http.ResponseWriter, r *http.Request) {
	id, ok := ac.resolveUser(w, r)
	if !ok {
		return
	}
	if _, known := ac.profiles.Profile(id); !known {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.serveFromCacheOrCompute(w, r, milestonesKey(id), func() any {
		return milestonesResponse{
			User:     id.String(),
			Info:     ac.welcome.MilestoneInfo(id),
			Behavior: ac.welcome.Behavior(id),
		}
	})
}

func (ac *AdminController) Reset(w http.ResponseWriter, r *http.Request) {
	if !ac.cooldown.Allow("reset", caller(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}
	id, ok := ac.resolveUser(w, r)
	if !ok {
		return
	}

	var cleared bool
	if err := ac.ticks.Do(r.Context(), func() {
		cleared = ac.welcome.ResetUserByID(id)
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	ac.cache.Del(milestonesKey(id))
	writeJSON(w, http.StatusOK, map[string]bool{"reset": cleared})
}

// Preview plays an animation for a user without recording anything.
func (ac *AdminController) Preview(w http.ResponseWriter, r *http.Request) {
	if !ac.cooldown.Allow("preview", caller(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.User == uuid.Nil || req.Text == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	var resp previewResponse
	if err := ac.ticks.Do(r.Context(), func() {
		job := ac.engine.Animate(req.User, req.Text, req.Effect, req.Duration)
		resp = previewResponse{Effect: job.Name, Ticks: job.Duration()}
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusAccepted, resp)
}

func (ac *AdminController) Stats(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, statsKey, func() any {
		return statsResponse{
			Online:     ac.profiles.Online(),
			Unique:     ac.profiles.UniqueTotal(),
			Profiles:   ac.profiles.Store().Len(),
			Tracked:    ac.recognition.Tracked(),
			Animations: ac.engine.ActiveCount(),
		}
	})
}

// Reload re-reads the configuration file and applies its runtime sections.
// A file that fails to load or validate leaves the running config untouched.
func (ac *AdminController) Reload(w http.ResponseWriter, r *http.Request) {
	if !ac.cooldown.Allow("reload", caller(r)) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}
	next, err := ac.reloader.Load()
	if err != nil {
		ac.logger.Errorf(providers.TypeApp, "Reload requested by %s failed: %s", caller(r), err)
		http.Error(w, "Unprocessable Entity", http.StatusUnprocessableEntity)
		return
	}
	var theme string
	if err := ac.ticks.Do(r.Context(), func() {
		ac.reloader.Apply(next)
		theme = ac.themes.CurrentTheme()
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	ac.cache.Clear()
	ac.logger.Infof(providers.TypeApp, "Configuration reloaded by %s", caller(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"reloaded": true,
		"theme":    theme,
	})
}
