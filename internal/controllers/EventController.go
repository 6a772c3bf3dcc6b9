package controllers

import (
	"errors"
	"net/http"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/services"
	"welcomer/internal/tick"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

const maxRequestBodySize = 1 << 16 // 64 KB

type eventResponse struct {
	Text    string `json:"text"`
	Deliver bool   `json:"deliver"`
}

// EventController is the host bridge: connection events in, deliveries out.
// Every state change is funnelled onto the tick goroutine.
type EventController struct {
	logger   providers.Logger
	welcome  services.WelcomeServiceInterface
	ticks    *tick.Scheduler
	outbox   providers.OutboxProviderInterface
	cache    providers.CacheProviderInterface
	cooldown providers.CooldownProviderInterface
}

func NewEventController(logger providers.Logger, welcome services.WelcomeServiceInterface, ticks *tick.Scheduler,
	outbox providers.OutboxProviderInterface, cache providers.CacheProviderInterface,
	cooldown providers.CooldownProviderInterface) *EventController {
	return &EventController{
		logger:   logger,
		welcome:  welcome,
		ticks:    ticks,
		outbox:   outbox,
		cache:    cache,
		cooldown: cooldown,
	}
}

func decodePlayer(w http.ResponseWriter, r *http.Request) (models.Player, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var p models.Player
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.ID == uuid.Nil || p.Name == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return p, false
	}
	return p, true
}

func (ec *EventController) Connect(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePlayer(w, r)
	if !ok {
		return
	}
	var resp eventResponse
	if err := ec.ticks.Do(r.Context(), func() {
		resp.Text, resp.Deliver = ec.welcome.OnConnect(p)
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	ec.cache.Del(milestonesKey(p.ID))
	writeJSON(w, http.StatusOK, resp)
}

func (ec *EventController) Disconnect(w http.ResponseWriter, r *http.Request) {
	p, ok := decodePlayer(w, r)
	if !ok {
		return
	}
	var resp eventResponse
	if err := ec.ticks.Do(r.Context(), func() {
		resp.Text, resp.Deliver = ec.welcome.OnDisconnect(p)
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	ec.outbox.Forget(p.ID)
	ec.cache.Del(milestonesKey(p.ID))
	writeJSON(w, http.StatusOK, resp)
}

// Toggle flips the caller's own join/quit message opt-out.
func (ec *EventController) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("u"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if !ec.cooldown.Allow("toggle", id.String()) {
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	var suppressed bool
	var toggleErr error
	if err := ec.ticks.Do(r.Context(), func() {
		suppressed, toggleErr = ec.welcome.ToggleMessages(id)
	}); err != nil {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}
	if errors.Is(toggleErr, models.ErrProfileNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"suppressed": suppressed})
}

// Outbox hands the pending animation frames and chat lines of a user to the host.
func (ec *EventController) Outbox(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.URL.Query().Get("u"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	out := ec.outbox.Drain(id)
	if out == nil {
		out = []providers.Delivery{}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}
