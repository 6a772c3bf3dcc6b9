package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	assert.Equal(t, "Welcome back!", Strip("&6&lWelcome &#FFAA00back&r!"))
	assert.Equal(t, "Tom & Jerry", Strip("Tom & Jerry"))
	assert.Equal(t, "a&zb", Strip("a&zb"))
	assert.Equal(t, "&#12", Strip("&#12"))
	assert.Equal(t, "", Strip("&a&b"))
}

func TestLeadingStyle(t *testing.T) {
	assert.Equal(t, "&6&l", LeadingStyle("&6&lHello &aworld"))
	assert.Equal(t, "&#00FF00", LeadingStyle("&#00FF00Hi"))
	assert.Equal(t, "", LeadingStyle("Hi &a"))
}

func TestVisibleLen(t *testing.T) {
	assert.Equal(t, 5, VisibleLen("&aHe&#123456llo"))
	assert.Equal(t, 3, VisibleLen("äöü"))
}

func TestRevealPrefix_KeepsMarkersWhole(t *testing.T) {
	text := "&aHi &#FF0000there"
	assert.Equal(t, "&aH", revealPrefix(text, 1))
	assert.Equal(t, "&aHi &#FF0000", revealPrefix(text, 3))
	assert.Equal(t, "&aHi &#FF0000t", revealPrefix(text, 4))
	assert.Equal(t, text, revealPrefix(text, 100))
}
