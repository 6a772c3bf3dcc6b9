package services

import (
	"testing"
	"time"
	"welcomer/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_PriorityCascade(t *testing.T) {
	conf := baseConfig()
	conf.Recognition.Milestones.Join = joinMilestones(1)
	conf.Themes.Seasonal = structures.ThemeGroupConfig{Enabled: true, Themes: map[string]structures.ThemeConfig{
		"spring": {Start: "03-01", End: "05-31", Join: structures.MessagePool{Default: []string{"spring {player}"}}},
	}}
	conf.Messages.Join.Ranks = map[string][]string{"vip": {"vip {player}"}}
	f := newFixture(conf)

	p := player("alex", "vip")
	f.setJoins(p.ID, 1)
	v := visit(p, t0)
	v.PreviousSeen = t0.Add(-30 * time.Hour)

	var got []Outcome
	for i := 0; i < 3; i++ {
		got = append(got, f.messages.Join(v))
	}
	conf.Themes.Enabled = false
	got = append(got, f.messages.Join(v))

	assert.Equal(t, []Outcome{
		{Text: "alex hit 1", Tier: TierMilestone},
		{Text: "short alex 30", Tier: TierReturning},
		{Text: "spring alex", Tier: TierTheme},
		{Text: "vip alex", Tier: TierRank},
	}, got)
	for _, tier := range []string{TierMilestone, TierReturning, TierTheme, TierRank} {
		assert.Equal(t, 1, f.metrics.Messages["join:"+tier], tier)
	}
}

func TestJoin_RankPools(t *testing.T) {
	conf := baseConfig()
	conf.Messages.Join.Ranks = map[string][]string{"vip": {"vip {player}"}}
	f := newFixture(conf)

	// admin outranks vip but has no pool
	p := player("rin", "VIP", "admin")
	out := f.messages.Join(visit(p, t0))
	assert.Equal(t, Outcome{Text: "vip rin", Tier: TierRank}, out)

	conf.Messages.CombineRankDefault = true
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		out = f.messages.Join(visit(p, t0))
		assert.Equal(t, TierRank, out.Tier)
		seen[out.Text] = true
	}
	assert.Equal(t, map[string]bool{"vip rin": true, "Welcome rin": true}, seen)

	op := player("root", "vip")
	op.Op = true
	conf.Messages.OpUsesDefault = true
	assert.Equal(t, Outcome{Text: "Welcome root", Tier: TierDefault}, f.messages.Join(visit(op, t0)))
}

func TestJoin_FirstTimeWithOrdinal(t *testing.T) {
	conf := baseConfig()
	conf.Messages.Join.FirstTime = []string{"Say hi to {player}, our {ordinal} visitor"}
	f := newFixture(conf)

	var last ConnectResult
	var p = player("x")
	for _, name := range []string{"a", "b", "c"} {
		p = player(name)
		last = f.profiles.RecordConnect(p, t0)
	}
	require.True(t, last.First)

	v := visit(p, t0)
	v.First = true
	assert.Equal(t, Outcome{Text: "Say hi to c, our 3rd visitor", Tier: TierFirstTime}, f.messages.Join(v))

	v.First = false
	assert.Equal(t, Outcome{Text: "Welcome c", Tier: TierDefault}, f.messages.Join(v))
}

func TestJoin_Placeholders(t *testing.T) {
	conf := baseConfig()
	conf.Messages.Join.Default = []string{"{player}|{displayname}|{world}|{online}|{max}|{joincount}|{time}|{ordinal}"}
	f := newFixture(conf)

	p := player("bo")
	f.profiles.RecordConnect(p, t0)
	out := f.messages.Join(visit(p, t0))
	assert.Equal(t, "bo|~bo|overworld|1|50|1|morning|{ordinal}", out.Text)

	p.World = ""
	p.DisplayName = ""
	out = f.messages.Join(visit(p, t0.Add(9*time.Hour)))
	assert.Equal(t, "bo|bo|unknown|1|50|1|evening|{ordinal}", out.Text)
}

func TestJoin_NothingToSay(t *testing.T) {
	conf := baseConfig()
	conf.Messages.Join.Default = nil
	f := newFixture(conf)

	out := f.messages.Join(visit(player("nil"), t0))
	assert.Equal(t, Outcome{}, out)
	assert.False(t, out.Deliver())

	conf = baseConfig()
	conf.Messages.Enabled = false
	f = newFixture(conf)
	assert.Equal(t, Outcome{}, f.messages.Join(visit(player("off"), t0)))
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 10: "10th",
		11: "11th", 12: "12th", 13: "13th", 21: "21st", 22: "22nd",
		101: "101st", 111: "111th", 112: "112th", 1003: "1003rd",
	}
	for n, want := range cases {
		assert.Equal(t, want, Ordinal(n))
	}
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "morning", greeting(0))
	assert.Equal(t, "morning", greeting(11))
	assert.Equal(t, "afternoon", greeting(12))
	assert.Equal(t, "afternoon", greeting(17))
	assert.Equal(t, "evening", greeting(18))
	assert.Equal(t, "evening", greeting(23))
}

func TestJoin_AnimatedWithFinalChat(t *testing.T) {
	conf := baseConfig()
	conf.Animations.Enabled = true
	conf.Animations.ShowFinalInChat = true
	f := newFixture(conf)
	p := player("cam")

	out := f.messages.Join(visit(p, t0))
	assert.True(t, out.Animated)
	assert.False(t, out.Deliver())
	assert.Equal(t, "Welcome cam", out.Text)
	assert.True(t, f.engine.Active(p.ID))
	assert.Equal(t, 1, f.metrics.Animations["typing"])

	// 11 runes over 60 ticks: a frame every 5 ticks, chat at 60+20
	f.sched.Advance(80)
	assert.Empty(t, f.display.ChatLines(p.ID))
	assert.Equal(t, "Welcome cam", f.display.Frames(p.ID)[len(f.display.Frames(p.ID))-1])

	f.sched.Advance(1)
	assert.Equal(t, []string{"Welcome cam"}, f.display.ChatLines(p.ID))
}

func TestJoin_MultiLayerOverride(t *testing.T) {
	conf := baseConfig()
	conf.Animations.Enabled = true
	conf.Animations.Join.UseMultiLayer = true
	conf.Animations.MultiLayer = structures.MultiLayerConfig{
		Enabled: true,
		Combinations: map[string]structures.CompositeConfig{
			"smooth_entrance": {Effects: []string{"fade", "typing"}, Duration: 40},
		},
	}
	f := newFixture(conf)
	p := player("dax")

	name, duration := f.messages.AnimationFor(false)
	assert.Equal(t, "smooth_entrance", name)
	assert.Equal(t, 60, duration)

	f.messages.Join(visit(p, t0))
	job, ok := f.engine.Job(p.ID)
	require.True(t, ok)
	assert.Equal(t, "smooth_entrance", job.Name)
	assert.Equal(t, 40, job.Duration())
	assert.Len(t, job.Segments, 2)
}

func TestAnimationFor(t *testing.T) {
	conf := baseConfig()
	conf.Animations.FirstJoin = structures.AnimationEventConfig{Type: "Rainbow", Duration: 100}
	f := newFixture(conf)

	name, duration := f.messages.AnimationFor(true)
	assert.Equal(t, "rainbow", name)
	assert.Equal(t, 100, duration)

	name, duration = f.messages.AnimationFor(false)
	assert.Equal(t, "typing", name)
	assert.Equal(t, 60, duration)

	conf.Animations.DefaultType = ""
	name, _ = f.messages.AnimationFor(false)
	assert.Equal(t, "typing", name)
}

func TestJoin_AnimationTypeNoneDeliversDirectly(t *testing.T) {
	conf := baseConfig()
	conf.Animations.Enabled = true
	conf.Animations.Join.Type = "none"
	f := newFixture(conf)
	p := player("eli")

	out := f.messages.Join(visit(p, t0))
	assert.True(t, out.Deliver())
	assert.False(t, f.engine.Active(p.ID))
}

func TestQuit_RankPoolNeverAnimated(t *testing.T) {
	conf := baseConfig()
	conf.Animations.Enabled = true
	conf.Messages.Quit.Ranks = map[string][]string{"mvp": {"{player} the mvp left"}}
	f := newFixture(conf)

	p := player("fay", "mvp")
	out := f.messages.Quit(p, t0)
	assert.Equal(t, Outcome{Text: "fay the mvp left", Tier: TierRank}, out)
	assert.True(t, out.Deliver())
	assert.False(t, f.engine.Active(p.ID))
	assert.Equal(t, 1, f.metrics.Messages["quit:rank"])

	out = f.messages.Quit(player("gil"), t0)
	assert.Equal(t, "Bye gil", out.Text)
}
