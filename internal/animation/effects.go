package animation

import (
	"math"
	"math/rand/v2"
	"strings"
)

// Effect is a primitive animation. Unknown names resolve to Typing.
type Effect int

const (
	Typing Effect = iota
	Fade
	Slide
	Wave
	Rainbow
	Glitch
	Typewriter
	Bounce
	Shake
	Pulse
	Matrix
	Scramble
)

var effectNames = [...]string{
	Typing:     "typing",
	Fade:       "fade",
	Slide:      "slide",
	Wave:       "wave",
	Rainbow:    "rainbow",
	Glitch:     "glitch",
	Typewriter: "typewriter",
	Bounce:     "bounce",
	Shake:      "shake",
	Pulse:      "pulse",
	Matrix:     "matrix",
	Scramble:   "scramble",
}

var rainbowHues = [6]string{"&c", "&6", "&e", "&a", "&b", "&d"}

const (
	fadeSteps     = 10
	slideIndent   = 20
	waveSteps     = 20
	rainbowSteps  = 20
	glitchSteps   = 15
	bounceSteps   = 20
	shakeSteps    = 15
	pulseSteps    = 20
	matrixSteps   = 25
	scrambleSteps = 20
	scrambleExact = 3

	glitchChance = 0.3
	matrixChance = 0.4
)

func (e Effect) String() string {
	if e < Typing || e > Scramble {
		return effectNames[Typing]
	}
	return effectNames[e]
}

// ParseEffect maps a name to an Effect. ok is false when the name was unknown
// and Typing was substituted.
func ParseEffect(name string) (Effect, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range effectNames {
		if n == name {
			return Effect(i), true
		}
	}
	return Typing, false
}

func EffectNames() []string {
	return append([]string(nil), effectNames[:]...)
}

// Sequence is the rendered frame list of one effect. Steps is the nominal
// frame count used to derive the frame delay; an extra trailing frame with
// the exact text may follow the nominal ones.
type Sequence struct {
	Frames []string
	Steps  int
}

// Delay is the number of ticks between frames for a given duration.
func (s Sequence) Delay(duration int) int {
	return max(1, duration/max(1, s.Steps))
}

// Render produces the frames of e for text. rnd feeds the randomized effects.
func (e Effect) Render(text string, rnd *rand.Rand) Sequence {
	clean := []rune(Strip(text))
	style := LeadingStyle(text)

	var frames []string
	switch e {
	case Fade:
		return Sequence{Frames: fadeFrames(text, string(clean)), Steps: fadeSteps}
	case Wave:
		return Sequence{Frames: waveFrames(style, clean), Steps: waveSteps}
	case Slide:
		for i := 0; i < slideIndent; i++ {
			frames = append(frames, strings.Repeat(" ", slideIndent-i)+text)
		}
	case Rainbow:
		for i := 0; i < rainbowSteps; i++ {
			frames = append(frames, rainbowFrame(clean, i))
		}
	case Glitch:
		for i := 0; i < glitchSteps; i++ {
			frames = append(frames, noiseFrame(style, clean, glitchChance, "&c", rnd))
		}
	case Matrix:
		for i := 0; i < matrixSteps; i++ {
			frames = append(frames, noiseFrame(style, clean, matrixChance, "&a", rnd))
		}
	case Scramble:
		for i := 0; i < scrambleSteps; i++ {
			if i >= scrambleSteps-scrambleExact {
				frames = append(frames, style+string(clean))
			} else {
				frames = append(frames, noiseFrame(style, clean, 1, "&c", rnd))
			}
		}
	case Bounce:
		for i := 0; i < bounceSteps; i++ {
			frames = append(frames, offsetFrame(style, clean, func(idx int) int {
				return int(math.Abs(math.Sin(float64(i+idx)*0.8)) * 3)
			}))
		}
	case Shake:
		for i := 0; i < shakeSteps; i++ {
			frames = append(frames, strings.Repeat(" ", max(0, rnd.IntN(5)-2))+text)
		}
	case Pulse:
		for i := 0; i < pulseSteps; i++ {
			frames = append(frames, pulseTier(i)+string(clean))
		}
	case Typewriter:
		for i := range clean {
			cursor := "&7_"
			if i%2 == 1 {
				cursor = "&8_"
			}
			frames = append(frames, revealPrefix(text, i+1)+cursor)
		}
	default:
		for i := range clean {
			frames = append(frames, revealPrefix(text, i+1))
		}
	}

	steps := len(frames)
	if steps == 0 {
		steps = 1
	}
	return Sequence{Frames: append(frames, text), Steps: steps}
}

// fadeFrames maps 10 opacity steps onto style tiers; the last step is exact.
func fadeFrames(text, clean string) []string {
	frames := make([]string, fadeSteps)
	for i := range frames {
		opacity := float64(i) / float64(fadeSteps-1)
		switch {
		case opacity >= 1:
			frames[i] = text
		case opacity >= 0.7:
			frames[i] = "&f" + clean
		case opacity >= 0.4:
			frames[i] = "&7" + clean
		default:
			frames[i] = "&8" + clean
		}
	}
	return frames
}

func waveFrames(style string, clean []rune) []string {
	frames := make([]string, waveSteps)
	for i := range frames {
		frames[i] = offsetFrame(style, clean, func(idx int) int {
			return int(math.Round(math.Sin(float64(i+idx)*0.5)*2)) + 2
		})
	}
	return frames
}

// offsetFrame puts a run of spaces before every non-space rune.
func offsetFrame(style string, clean []rune, offset func(idx int) int) string {
	var b strings.Builder
	b.WriteString(style)
	for idx, r := range clean {
		if r != ' ' {
			b.WriteString(strings.Repeat(" ", max(0, offset(idx))))
		}
		b.WriteRune(r)
	}
	return b.String()
}

func rainbowFrame(clean []rune, step int) string {
	var b strings.Builder
	for idx, r := range clean {
		if r != ' ' {
			b.WriteString(rainbowHues[(step+idx)%len(rainbowHues)])
		}
		b.WriteRune(r)
	}
	return b.String()
}

// noiseFrame swaps each non-space rune for a random printable one with the
// given chance, colored with tint and followed by a reset to style.
func noiseFrame(style string, clean []rune, chance float64, tint string, rnd *rand.Rand) string {
	var b strings.Builder
	b.WriteString(style)
	for _, r := range clean {
		if r != ' ' && rnd.Float64() < chance {
			g := rune(33 + rnd.IntN(94))
			// '&' would start a marker
			if g == '&' {
				g = '%'
			}
			b.WriteString(tint)
			b.WriteRune(g)
			b.WriteString("&r")
			b.WriteString(style)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func pulseTier(step int) string {
	p := math.Sin(float64(step)*0.5)*0.5 + 0.5
	switch {
	case p > 0.7:
		return "&f"
	case p > 0.4:
		return "&e"
	default:
		return "&7"
	}
}
