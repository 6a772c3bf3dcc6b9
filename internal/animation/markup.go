package animation

import "strings"

const legacyCodes = "0123456789abcdefklmnorABCDEFKLMNOR"

// token is either one visible rune or one style marker (&x or &#RRGGBB).
type token struct {
	text   string
	marker bool
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func tokenize(s string) []token {
	runes := []rune(s)
	out := make([]token, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		if runes[i] == '&' && i+1 < len(runes) {
			next := runes[i+1]
			if next == '#' && i+7 < len(runes) && allHex(runes[i+2:i+8]) {
				out = append(out, token{text: string(runes[i : i+8]), marker: true})
				i += 7
				continue
			}
			if strings.ContainsRune(legacyCodes, next) {
				out = append(out, token{text: string(runes[i : i+2]), marker: true})
				i++
				continue
			}
		}
		out = append(out, token{text: string(runes[i])})
	}
	return out
}

func allHex(rs []rune) bool {
	for _, r := range rs {
		if !isHex(r) {
			return false
		}
	}
	return true
}

// Strip removes all style markers.
func Strip(s string) string {
	var b strings.Builder
	for _, t := range tokenize(s) {
		if !t.marker {
			b.WriteString(t.text)
		}
	}
	return b.String()
}

// LeadingStyle returns the run of markers the text starts with.
func LeadingStyle(s string) string {
	var b strings.Builder
	for _, t := range tokenize(s) {
		if !t.marker {
			break
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// VisibleLen counts the runes left after stripping markers.
func VisibleLen(s string) int {
	n := 0
	for _, t := range tokenize(s) {
		if !t.marker {
			n++
		}
	}
	return n
}

// revealPrefix returns s cut after its n-th visible rune. Markers are copied
// whole, so a partial frame never ends inside a marker.
func revealPrefix(s string, n int) string {
	var b strings.Builder
	shown := 0
	for _, t := range tokenize(s) {
		if !t.marker {
			if shown >= n {
				break
			}
			shown++
		}
		b.WriteString(t.text)
	}
	return b.String()
}
