package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveIdentity(t *testing.T) {
	a := DeriveIdentity("session-one", "salt")
	b := DeriveIdentity("session-one", "salt")
	c := DeriveIdentity("session-two", "salt")
	d := DeriveIdentity("session-one", "other-salt")

	// Stable for the lifetime of the salt
	assert.Equal(t, a, b)

	// Distinct credentials and distinct salts give distinct keys
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)

	// Fixed-length hex, and never the raw credential
	assert.Len(t, a, 64)
	assert.NotContains(t, a, "session-one")
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestSanitizeContent(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeContent("<b>hello</b>   world"))
	assert.Equal(t, "free of markup", SanitizeContent("free <img src=x onerror=alert(1)> of\n\nmarkup"))
	assert.Equal(t, "", SanitizeContent("  <p></p>  "))
	assert.Equal(t, "a < b", SanitizeContent("a < b"))
}

func TestLooksLikeSpam(t *testing.T) {
	assert.True(t, LooksLikeSpam("aaaaaaaaaaaaaaa"))
	assert.True(t, LooksLikeSpam("check out https://example.com now"))
	assert.True(t, LooksLikeSpam("huge DISCOUNT this week"))

	assert.False(t, LooksLikeSpam("the farmers market on 5th is open late today"))
	assert.False(t, LooksLikeSpam(strings.Repeat("word ", 50)))
}
