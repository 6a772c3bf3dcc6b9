package controllers

import (
	"fmt"
	"net/http"
	"time"
	"welcomer/internal/animation"
	"welcomer/internal/services"
	"welcomer/internal/tick"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	profiles  *services.ProfileService
	engine    *animation.Engine
	ticks     *tick.Scheduler
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Tick          uint64  `json:"tick"`
	PendingTasks  int     `json:"pending_tasks"`
	Online        int     `json:"online"`
	Animations    int     `json:"animations"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Tick:          hc.ticks.Current(),
		PendingTasks:  hc.ticks.Pending(),
		Online:        hc.profiles.Online(),
		Animations:    hc.engine.ActiveCount(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(profiles *services.ProfileService, engine *animation.Engine, ticks *tick.Scheduler) *HealthController {
	return &HealthController{
		profiles:  profiles,
		engine:    engine,
		ticks:     ticks,
		startTime: time.Now(),
	}
}
