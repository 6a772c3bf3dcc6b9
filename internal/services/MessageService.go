package services

import (
	"strconv"
	"strings"
	"time"
	"welcomer/internal/animation"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/structures"
)

const (
	EventJoin = "join"
	EventQuit = "quit"

	TierMilestone = "milestone"
	TierReturning = "returning"
	TierTheme     = "theme"
	TierFirstTime = "first-time"
	TierRank      = "rank"
	TierDefault   = "default"

	noAnimation          = "none"
	defaultAnimation     = "typing"
	defaultComposite     = "smooth_entrance"
	defaultFinalChatWait = 20
)

var defaultRankPriority = []string{"owner", "admin", "mvp", "vip"}

// Outcome is a composed message. An animated outcome is delivered by the
// animation engine and must not be sent again by the host.
type Outcome struct {
	Text     string
	Tier     string
	Animated bool
}

// Deliver reports whether the host has to send Text itself.
func (o Outcome) Deliver() bool {
	return o.Text != "" && !o.Animated
}

// MessageService picks and renders join and quit messages.
type MessageService struct {
	conf        *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	recognition *RecognitionService
	themes      ThemeServiceInterface
	profiles    *ProfileService
	engine      *animation.Engine
	picker      *picker
}

func NewMessageService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface,
	recognition *RecognitionService, themes ThemeServiceInterface, profiles *ProfileService, engine *animation.Engine) *MessageService {
	return &MessageService{
		conf:        conf,
		logger:      logger,
		metrics:     metrics,
		recognition: recognition,
		themes:      themes,
		profiles:    profiles,
		engine:      engine,
		picker:      newPicker(),
	}
}

// Seed makes pool selection reproducible.
func (ms *MessageService) Seed(a, b uint64) {
	ms.picker.seed(a, b)
}

// Join runs the join cascade: milestone, returning, theme, then the
// first-time, rank and default pools. The first tier with a message wins.
func (ms *MessageService) Join(v Visit) Outcome {
	if !ms.conf.Messages.Enabled {
		return Outcome{}
	}

	var (
		msg  string
		tier string
		ok   bool
	)
	if msg, ok = ms.recognition.CheckMilestones(v); ok {
		tier = TierMilestone
	} else if msg, ok = ms.recognition.ReturningMessage(v); ok {
		tier = TierReturning
	} else if pool, found := ms.themes.ThemeMessages(EventJoin, v.First); found {
		msg, ok = ms.picker.pick(pool)
		tier = TierTheme
	} else {
		pool, poolTier := ms.pool(ms.conf.Messages.Join, v.Player, v.First)
		msg, ok = ms.picker.pick(pool)
		tier = poolTier
	}
	if !ok {
		ms.logger.Debugf(providers.TypeApp, "No join message for %s", v.Player.Name)
		return Outcome{}
	}

	text := ms.render(msg, v.Player, v.First, v.Now)
	return ms.present(v.Player, text, EventJoin, v.First, tier)
}

// Quit renders a quit message from the rank and default pools. Quit
// messages are never animated: the action bar belongs to the departing user.
func (ms *MessageService) Quit(p models.Player, now time.Time) Outcome {
	if !ms.conf.Messages.Enabled {
		return Outcome{}
	}
	pool, tier := ms.pool(ms.conf.Messages.Quit, p, false)
	msg, ok := ms.picker.pick(pool)
	if !ok {
		return Outcome{}
	}
	ms.metrics.IncMessages(EventQuit, tier)
	return Outcome{Text: ms.render(msg, p, false, now), Tier: tier}
}

// pool selects the static pool for a player.
func (ms *MessageService) pool(mp structures.MessagePool, p models.Player, first bool) ([]string, string) {
	if first && len(mp.FirstTime) > 0 {
		return mp.FirstTime, TierFirstTime
	}

	var out []string
	tier := TierDefault
	if rank, ok := ms.highestRank(mp, p); ok {
		out = append(out, mp.Ranks[rank]...)
		tier = TierRank
	}
	if len(out) == 0 || ms.conf.Messages.CombineRankDefault {
		out = append(out, mp.Default...)
	}
	return out, tier
}

// highestRank returns the first rank in priority order the player holds and
// the pool has messages for.
func (ms *MessageService) highestRank(mp structures.MessagePool, p models.Player) (string, bool) {
	if p.Op && ms.conf.Messages.OpUsesDefault {
		return "", false
	}
	order := ms.conf.Messages.RankPriority
	if len(order) == 0 {
		order = defaultRankPriority
	}
	for _, rank := range order {
		key := strings.ToLower(rank)
		if p.HasRank(rank) && len(mp.Ranks[key]) > 0 {
			return key, true
		}
	}
	return "", false
}

func (ms *MessageService) render(msg string, p models.Player, first bool, now time.Time) string {
	world := p.World
	if world == "" {
		world = "unknown"
	}
	prof, _ := ms.profiles.Profile(p.ID)

	pairs := []string{
		"{player}", p.Name,
		"{displayname}", p.Display(),
		"{world}", world,
		"{online}", strconv.Itoa(ms.profiles.Online()),
		"{max}", strconv.Itoa(ms.conf.General.MaxPlayers),
		"{joincount}", strconv.Itoa(prof.JoinCount),
		"{time}", greeting(now.Hour()),
	}
	if first {
		pairs = append(pairs, "{ordinal}", Ordinal(ms.profiles.UniqueTotal()))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func greeting(hour int) string {
	switch {
	case hour < 12:
		return "morning"
	case hour < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// Ordinal renders n as an English ordinal: 1st, 2nd, 3rd, 11th, 22nd.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// present hands text to the animation engine when animations are on, and
// otherwise returns it for direct delivery.
func (ms *MessageService) present(p models.Player, text, event string, first bool, tier string) Outcome {
	ms.metrics.IncMessages(event, tier)
	out := Outcome{Text: text, Tier: tier}

	anim := ms.conf.Animations
	if !anim.Enabled {
		return out
	}
	name, duration := ms.AnimationFor(first)
	if name == noAnimation {
		return out
	}

	job := ms.engine.Animate(p.ID, text, name, duration)
	if anim.ShowFinalInChat {
		wait := anim.FinalChatDelay
		if wait < 0 {
			wait = defaultFinalChatWait
		}
		ms.engine.ChatAfter(job, text, job.Duration()+wait)
	}
	out.Animated = true
	return out
}

// AnimationFor resolves the join effect name and duration.
func (ms *MessageService) AnimationFor(first bool) (string, int) {
	anim := ms.conf.Animations
	ev := anim.Join
	if first {
		ev = anim.FirstJoin
	}

	name := strings.ToLower(strings.TrimSpace(ev.Type))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(anim.DefaultType))
	}
	if name == "" {
		name = defaultAnimation
	}
	duration := ev.Duration
	if duration <= 0 {
		duration = anim.DefaultDuration
	}

	if anim.Join.UseMultiLayer {
		name = strings.ToLower(strings.TrimSpace(anim.Join.MultiLayer))
		if name == "" {
			name = defaultComposite
		}
	}
	return name, duration
}
