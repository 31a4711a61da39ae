package utils

import (
	"encoding/hex"
	"html"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/blake2b"
)

// Strip everything: post content is plain text by contract.
var contentPolicy = bluemonday.StrictPolicy()

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	urlRe          = regexp.MustCompile(`(?i)https?://`)
	spamKeywordsRe = regexp.MustCompile(`(?i)\b(buy|sale|discount|offer|deal|free|win|prize|click|visit)\b`)
)

// DeriveIdentity turns a raw client credential (session token or network
// address) into an opaque fixed-length pseudonymous key. Keyed BLAKE2b-256
// with the salt as key: one-way, and stable for the lifetime of the salt.
// The raw credential must never be persisted or logged past this call.
func DeriveIdentity(raw, salt string) string {
	key := blake2b.Sum256([]byte(salt))
	h, err := blake2b.New256(key[:])
	if err != nil {
		// Unreachable with a 32-byte key
		panic(err)
	}
	h.Write([]byte(raw))
	return hex.EncodeToString(h.Sum(nil))
}

// NewSessionID mints an opaque token for clients that arrive without one.
func NewSessionID() string {
	return uuid.NewString()
}

// SanitizeContent strips all HTML from user input and normalizes whitespace.
func SanitizeContent(content string) string {
	sanitized := html.UnescapeString(contentPolicy.Sanitize(content))
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(sanitized, " "))
}

// LooksLikeSpam applies cheap heuristics against obvious junk content.
func LooksLikeSpam(content string) bool {
	if longestRun(content) > 10 {
		return true
	}
	return urlRe.MatchString(content) || spamKeywordsRe.MatchString(content)
}

// longestRun returns the length of the longest run of one repeated rune.
func longestRun(s string) int {
	var prev rune
	run, longest := 0, 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
