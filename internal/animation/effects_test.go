package animation

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestParseEffect(t *testing.T) {
	for i, name := range EffectNames() {
		eff, ok := ParseEffect(strings.ToUpper(name))
		assert.True(t, ok, name)
		assert.Equal(t, Effect(i), eff)
		assert.Equal(t, name, eff.String())
	}

	eff, ok := ParseEffect("sparkle")
	assert.False(t, ok)
	assert.Equal(t, Typing, eff)
	assert.Equal(t, "typing", Effect(99).String())
}

func TestTyping_FramesAndDelay(t *testing.T) {
	text := "Hello there!"
	seq := Typing.Render(text, testRand())

	require.Len(t, seq.Frames, 13)
	assert.Equal(t, 12, seq.Steps)
	assert.Equal(t, 5, seq.Delay(60))
	assert.Equal(t, "H", seq.Frames[0])
	assert.Equal(t, "Hello", seq.Frames[4])
	assert.Equal(t, text, seq.Frames[11])
	assert.Equal(t, text, seq.Frames[12])
}

func TestTyping_PreservesMarkers(t *testing.T) {
	text := "&6Hi &lyou"
	seq := Typing.Render(text, testRand())
	require.Len(t, seq.Frames, 7)
	for _, f := range seq.Frames {
		assert.False(t, strings.HasSuffix(f, "&"), f)
		assert.True(t, strings.HasPrefix(f, "&6"), f)
	}
	assert.Equal(t, "&6Hi &ly", seq.Frames[3])
}

func TestTyping_EmptyText(t *testing.T) {
	seq := Typing.Render("&a", testRand())
	assert.Equal(t, []string{"&a"}, seq.Frames)
	assert.Equal(t, 1, seq.Steps)
}

func TestTypewriter_CursorBlinksAndFinalClean(t *testing.T) {
	seq := Typewriter.Render("abc", testRand())
	require.Len(t, seq.Frames, 4)
	assert.Equal(t, "a&7_", seq.Frames[0])
	assert.Equal(t, "ab&8_", seq.Frames[1])
	assert.Equal(t, "abc&7_", seq.Frames[2])
	assert.Equal(t, "abc", seq.Frames[3])
}

func TestFade_TiersAndConverges(t *testing.T) {
	seq := Fade.Render("&bHello", testRand())
	require.Len(t, seq.Frames, 10)
	assert.Equal(t, "&8Hello", seq.Frames[0])
	assert.Equal(t, "&7Hello", seq.Frames[4])
	assert.Equal(t, "&fHello", seq.Frames[8])
	assert.Equal(t, "&bHello", seq.Frames[9])
}

func TestSlide_ShrinksToZero(t *testing.T) {
	seq := Slide.Render("Hi", testRand())
	require.Len(t, seq.Frames, 21)
	assert.Equal(t, 20, seq.Steps)
	assert.Equal(t, strings.Repeat(" ", 20)+"Hi", seq.Frames[0])
	assert.Equal(t, " Hi", seq.Frames[19])
	assert.Equal(t, "Hi", seq.Frames[20])
}

func TestWave_OffsetsOnly(t *testing.T) {
	seq := Wave.Render("a b", testRand())
	require.Len(t, seq.Frames, 20)
	for _, f := range seq.Frames {
		assert.Equal(t, "ab", strings.ReplaceAll(f, " ", ""))
	}
}

func TestBounce_FloorBounded(t *testing.T) {
	seq := Bounce.Render("abc", testRand())
	require.Len(t, seq.Frames, 21)
	for _, f := range seq.Frames[:20] {
		assert.Equal(t, "abc", strings.ReplaceAll(f, " ", ""))
		assert.LessOrEqual(t, len(f), 3+3*3)
	}
	assert.Equal(t, "abc", seq.Frames[20])
}

func TestRainbow_CyclesHues(t *testing.T) {
	seq := Rainbow.Render("ab c", testRand())
	require.Len(t, seq.Frames, 21)
	assert.Equal(t, "&ca&6b &ac", seq.Frames[0])
	assert.Equal(t, "&6a&eb &bc", seq.Frames[1])
	assert.Equal(t, "ab c", seq.Frames[20])
}

func TestGlitchMatrix_RevealExact(t *testing.T) {
	for _, eff := range []Effect{Glitch, Matrix} {
		seq := eff.Render("&eWelcome", testRand())
		assert.Equal(t, "&eWelcome", seq.Frames[len(seq.Frames)-1], eff.String())
		for _, f := range seq.Frames {
			assert.True(t, strings.HasPrefix(f, "&e"), f)
		}
	}
	assert.Len(t, Glitch.Render("x", testRand()).Frames, 16)
	assert.Len(t, Matrix.Render("x", testRand()).Frames, 26)
}

func TestScramble_LastStepsExact(t *testing.T) {
	seq := Scramble.Render("hello world", testRand())
	require.Len(t, seq.Frames, 21)
	assert.NotEqual(t, "hello world", Strip(seq.Frames[0]))
	for _, f := range seq.Frames[17:] {
		assert.Equal(t, "hello world", f)
	}
}

func TestShake_JitterWithinBounds(t *testing.T) {
	seq := Shake.Render("&aHey", testRand())
	require.Len(t, seq.Frames, 16)
	for _, f := range seq.Frames {
		trimmed := strings.TrimLeft(f, " ")
		assert.Equal(t, "&aHey", trimmed)
		assert.LessOrEqual(t, len(f)-len(trimmed), 2)
	}
	assert.Equal(t, "&aHey", seq.Frames[15])
}

func TestPulse_Tiers(t *testing.T) {
	seq := Pulse.Render("&cHi", testRand())
	require.Len(t, seq.Frames, 21)
	assert.Equal(t, "&eHi", seq.Frames[0])
	assert.Equal(t, "&fHi", seq.Frames[3])
	assert.Equal(t, "&cHi", seq.Frames[20])
}

func TestSequence_DelayFloor(t *testing.T) {
	assert.Equal(t, 1, Sequence{Steps: 25}.Delay(10))
	assert.Equal(t, 1, Sequence{Steps: 0}.Delay(0))
	assert.Equal(t, 3, Sequence{Steps: 20}.Delay(60))
}

func TestNoiseFrame_NeverEmitsMarkerStart(t *testing.T) {
	rnd := testRand()
	clean := []rune(strings.Repeat("x", 200))
	f := noiseFrame("", clean, 1, "&c", rnd)
	for _, tok := range tokenize(f) {
		if !tok.marker {
			assert.NotEqual(t, "&", tok.text)
		}
	}
}
