// Package animation renders a finished message as a tick-driven sequence of
// frames on a user's action bar, one job per user at a time.
package animation

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"
	"welcomer/internal/models"
	"welcomer/internal/providers"
	"welcomer/internal/structures"
	"welcomer/internal/tick"

	"github.com/google/uuid"
)

const defaultDuration = 60

// Display is the host's delivery surface for one user.
type Display interface {
	ActionBar(user uuid.UUID, text string) error
	Chat(user uuid.UUID, text string) error
}

// Segment is one primitive effect inside a job, in ticks from job start.
type Segment struct {
	Effect   Effect
	Start    int
	Duration int
}

// Job is the set of scheduled units making up one animation for one user.
type Job struct {
	User     uuid.UUID
	Name     string
	Segments []Segment

	mu        sync.Mutex
	tasks     []*tick.Task
	lastFrame int
}

func (j *Job) add(t *tick.Task) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.tasks = append(j.tasks, t)
}

func (j *Job) Tasks() []*tick.Task {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*tick.Task(nil), j.tasks...)
}

// Cancel stops every unit of the job. Safe to call repeatedly.
func (j *Job) Cancel() {
	for _, t := range j.Tasks() {
		t.Cancel()
	}
}

// Finished reports whether no unit of the job will run again.
func (j *Job) Finished() bool {
	for _, t := range j.Tasks() {
		if !t.Finished() {
			return false
		}
	}
	return true
}

// LastFrame is the tick, relative to job start, of the job's final frame.
func (j *Job) LastFrame() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.lastFrame
}

// Duration is the total length of the job's segments in ticks. Every frame
// of a segment lands within [Start, Start+Duration].
func (j *Job) Duration() int {
	end := 0
	for _, s := range j.Segments {
		end = max(end, s.Start+s.Duration)
	}
	return end
}

type Engine struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	display Display
	sched   *tick.Scheduler
	jobs    *models.ShardedMap[*Job]

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewEngine(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, display Display, sched *tick.Scheduler) *Engine {
	seed := uint64(time.Now().UnixNano())
	return &Engine{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
		display: display,
		sched:   sched,
		jobs:    models.NewShardedMap[*Job](),
		rnd:     rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// Seed makes the randomized effects reproducible.
func (e *Engine) Seed(a, b uint64) {
	e.rndMu.Lock()
	defer e.rndMu.Unlock()
	e.rnd = rand.New(rand.NewPCG(a, b))
}

// Animate cancels any running job of user and starts a new one. name is a
// primitive effect or a configured composite; unknown names play typing.
// A non-positive duration uses the configured default.
func (e *Engine) Animate(user uuid.UUID, text, name string, duration int) *Job {
	e.Cancel(user)

	if duration <= 0 {
		duration = e.conf.Animations.DefaultDuration
		if duration <= 0 {
			duration = defaultDuration
		}
	}

	label := strings.ToLower(strings.TrimSpace(name))
	segments, ok := e.composite(label, duration)
	if !ok {
		eff, known := ParseEffect(label)
		if !known {
			e.logger.Debugf(providers.TypeAnimation, "Unknown animation %q, using %s", name, eff)
		}
		label = eff.String()
		segments = []Segment{{Effect: eff, Start: 0, Duration: duration}}
	}

	job := &Job{User: user, Name: label, Segments: segments}
	for _, seg := range segments {
		e.schedule(job, seg, text)
	}
	e.jobs.Set(user, job)

	e.metrics.IncAnimations(job.Name)
	e.metrics.SetActiveAnimations(e.jobs.Len())
	e.logger.Debugf(providers.TypeAnimation, "Animation %q started for %s, %d segment(s), %d ticks", job.Name, user, len(segments), job.Duration())
	return job
}

// composite resolves a configured multi-layer animation into segments that
// split the overall duration evenly.
func (e *Engine) composite(name string, duration int) ([]Segment, bool) {
	ml := e.conf.Animations.MultiLayer
	if !ml.Enabled {
		return nil, false
	}
	cfg, ok := ml.Combinations[name]
	if !ok {
		return nil, false
	}

	effects := cfg.Effects
	if len(effects) == 0 {
		effects = []string{Typing.String()}
	}
	total := cfg.Duration
	if total <= 0 {
		total = duration
	}
	per := max(1, total/len(effects))

	segments := make([]Segment, len(effects))
	for i, n := range effects {
		eff, known := ParseEffect(n)
		if !known {
			e.logger.Warnf(providers.TypeAnimation, "Composite %q lists unknown effect %q, using %s", name, n, eff)
		}
		segments[i] = Segment{Effect: eff, Start: i * per, Duration: per}
	}
	return segments, true
}

func (e *Engine) schedule(job *Job, seg Segment, text string) {
	e.rndMu.Lock()
	seq := seg.Effect.Render(text, e.rnd)
	e.rndMu.Unlock()

	delay := seq.Delay(seg.Duration)
	frames := fitFrames(seq.Frames, seg.Duration/delay+1)
	next := 0
	task := e.sched.RunTimer(uint64(seg.Start), uint64(delay), func(t *tick.Task) {
		if next >= len(frames) {
			t.Finish()
			return
		}
		last := next == len(frames)-1
		e.deliver(job.User, frames[next], last)
		next++
		if last {
			t.Finish()
		}
	})

	job.mu.Lock()
	job.lastFrame = max(job.lastFrame, seg.Start+(len(frames)-1)*delay)
	job.mu.Unlock()
	job.add(task)
}

// fitFrames picks at most n frames evenly from frames, keeping the first and
// the exact-text last one.
func fitFrames(frames []string, n int) []string {
	if len(frames) <= n {
		return frames
	}
	if n <= 1 {
		return frames[len(frames)-1:]
	}
	out := make([]string, n)
	for i := range out {
		out[i] = frames[i*(len(frames)-1)/(n-1)]
	}
	return out
}

// deliver sends a frame to the action bar, or to chat when the action bar is
// turned off. A failed action bar on the last frame falls back to chat.
func (e *Engine) deliver(user uuid.UUID, frame string, last bool) {
	e.metrics.IncFrames()
	if !e.conf.Animations.UseActionBar {
		_ = e.display.Chat(user, frame)
		return
	}
	err := e.display.ActionBar(user, frame)
	if err == nil {
		return
	}
	if errors.Is(err, providers.ErrUserOffline) {
		e.logger.Debugf(providers.TypeAnimation, "Frame for %s dropped, user is offline", user)
		return
	}
	if !last {
		e.logger.Debugf(providers.TypeAnimation, "Action bar frame for %s dropped: %s", user, err)
		return
	}
	e.logger.Warnf(providers.TypeAnimation, "Action bar unavailable for %s, sending final frame to chat: %s", user, err)
	e.metrics.IncDisplayFallbacks()
	if err := e.display.Chat(user, frame); err != nil {
		e.logger.Errorf(providers.TypeAnimation, "Chat delivery failed for %s: %s", user, err)
	}
}

// ChatAfter sends text to chat delay ticks from now as part of job, so it is
// cancelled together with the job.
func (e *Engine) ChatAfter(job *Job, text string, delay int) *tick.Task {
	user := job.User
	task := e.sched.RunLater(uint64(max(0, delay)), func() {
		if err := e.display.Chat(user, text); err != nil {
			e.logger.Errorf(providers.TypeAnimation, "Chat delivery failed for %s: %s", user, err)
		}
	})
	job.add(task)
	return task
}

// Cancel stops and forgets the job of user. It reports whether a running job
// was interrupted.
func (e *Engine) Cancel(user uuid.UUID) bool {
	job, ok := e.jobs.Get(user)
	if !ok {
		return false
	}
	e.jobs.Delete(user)
	running := !job.Finished()
	job.Cancel()
	if running {
		e.metrics.IncAnimationsCancelled()
		e.logger.Debugf(providers.TypeAnimation, "Animation %q cancelled for %s", job.Name, user)
	}
	e.metrics.SetActiveAnimations(e.jobs.Len())
	return running
}

func (e *Engine) CancelAll() int {
	n := 0
	for id := range e.jobs.Snapshot() {
		if e.Cancel(id) {
			n++
		}
	}
	return n
}

// Sweep drops bookkeeping for jobs whose units have all completed.
func (e *Engine) Sweep() int {
	removed := e.jobs.DeleteIf(func(_ uuid.UUID, j *Job) bool {
		return j.Finished()
	})
	if removed > 0 {
		e.logger.Debugf(providers.TypeAnimation, "Swept %d finished animation job(s)", removed)
	}
	e.metrics.SetActiveAnimations(e.jobs.Len())
	return removed
}

func (e *Engine) Job(user uuid.UUID) (*Job, bool) {
	return e.jobs.Get(user)
}

func (e *Engine) Active(user uuid.UUID) bool {
	job, ok := e.jobs.Get(user)
	return ok && !job.Finished()
}

func (e *Engine) ActiveCount() int {
	n := 0
	e.jobs.Range(func(_ uuid.UUID, j *Job) bool {
		if !j.Finished() {
			n++
		}
		return true
	})
	return n
}

// Composites lists the configured multi-layer animation names.
func (e *Engine) Composites() []string {
	out := make([]string, 0, len(e.conf.Animations.MultiLayer.Combinations))
	for name := range e.conf.Animations.MultiLayer.Combinations {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
