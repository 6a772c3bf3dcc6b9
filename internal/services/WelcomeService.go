package services

import (
	"welcomer/internal/animation"
	"welcomer/internal/models"
	"welcomer/internal/providers"

	"github.com/google/uuid"
)

// WelcomeServiceInterface is what the host bridge talks to. Connection
// events must run on the tick goroutine.
type WelcomeServiceInterface interface {
	OnConnect(p models.Player) (string, bool)
	OnDisconnect(p models.Player) (string, bool)
	CancelAnimations(id uuid.UUID) bool
	CurrentTheme() string
	AvailableThemes() []string
	DescribeCurrentTheme() string
	MilestoneInfo(id uuid.UUID) string
	Behavior(id uuid.UUID) map[string]any
	ResetUser(p models.Player) bool
	ResetUserByID(id uuid.UUID) bool
	ToggleMessages(id uuid.UUID) (bool, error)
}

type WelcomeService struct {
	logger      providers.Logger
	clock       providers.Clock
	profiles    *ProfileService
	recognition *RecognitionService
	themes      ThemeServiceInterface
	messages    *MessageService
	engine      *animation.Engine
}

func NewWelcomeService(logger providers.Logger, clock providers.Clock, profiles *ProfileService, recognition *RecognitionService,
	themes ThemeServiceInterface, messages *MessageService, engine *animation.Engine) WelcomeServiceInterface {
	return &WelcomeService{
		logger:      logger,
		clock:       clock,
		profiles:    profiles,
		recognition: recognition,
		themes:      themes,
		messages:    messages,
		engine:      engine,
	}
}

// OnConnect records the connection and composes the join message. The text
// is returned with ok=false when there is nothing to send or an animation
// delivers it.
func (ws *WelcomeService) OnConnect(p models.Player) (string, bool) {
	now := ws.clock.Now()
	res := ws.profiles.RecordConnect(p, now)
	ws.recognition.Recall(p.ID)
	defer ws.recognition.Touch(p.ID, now)

	if res.Profile.MessagingSuppressed {
		ws.logger.Debugf(providers.TypeApp, "Join message suppressed for %s", p.Name)
		return "", false
	}

	out := ws.messages.Join(Visit{
		Player:       p,
		First:        res.First,
		PreviousSeen: res.PreviousSeen,
		Now:          now,
	})
	return out.Text, out.Deliver()
}

// OnDisconnect cancels the user's animations, closes the session and
// composes the quit message.
func (ws *WelcomeService) OnDisconnect(p models.Player) (string, bool) {
	ws.CancelAnimations(p.ID)

	now := ws.clock.Now()
	prof, err := ws.profiles.RecordDisconnect(p.ID, now)
	if err != nil {
		ws.logger.Warnf(providers.TypeApp, "Disconnect of unknown user %s (%s)", p.Name, p.ID)
	}
	ws.recognition.Touch(p.ID, now)

	if prof.MessagingSuppressed {
		return "", false
	}
	out := ws.messages.Quit(p, now)
	return out.Text, out.Deliver()
}

func (ws *WelcomeService) CancelAnimations(id uuid.UUID) bool {
	return ws.engine.Cancel(id)
}

func (ws *WelcomeService) CurrentTheme() string {
	return ws.themes.CurrentTheme()
}

func (ws *WelcomeService) AvailableThemes() []string {
	return ws.themes.AvailableThemes()
}

func (ws *WelcomeService) DescribeCurrentTheme() string {
	return ws.themes.DescribeCurrent()
}

func (ws *WelcomeService) MilestoneInfo(id uuid.UUID) string {
	return ws.recognition.MilestoneInfo(id, ws.clock.Now())
}

func (ws *WelcomeService) Behavior(id uuid.UUID) map[string]any {
	prof, _ := ws.profiles.Profile(id)
	return ws.recognition.Behavior(Visit{
		Player: models.Player{ID: id, Name: prof.Name, World: prof.World},
		First:  prof.JoinCount <= 1,
		Now:    ws.clock.Now(),
	})
}

// ResetUser clears recognition data of a connected user. The running
// animation is left alone.
func (ws *WelcomeService) ResetUser(p models.Player) bool {
	return ws.recognition.Reset(p.ID, ws.clock.Now())
}

// ResetUserByID is the offline variant of ResetUser.
func (ws *WelcomeService) ResetUserByID(id uuid.UUID) bool {
	return ws.recognition.Reset(id, ws.clock.Now())
}

func (ws *WelcomeService) ToggleMessages(id uuid.UUID) (bool, error) {
	suppressed, err := ws.profiles.ToggleMessages(id)
	if err != nil {
		return false, err
	}
	state := "on"
	if suppressed {
		state = "off"
	}
	ws.logger.Infof(providers.TypeApp, "Messages for %s are now %s", id, state)
	return suppressed, nil
}
