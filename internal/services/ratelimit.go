package services

import (
	"sync"
	"time"

	"nymo/internal/utils"
)

// Endpoint classes with independent ceilings. Class selection is decided by
// the route, never by request content.
type EndpointClass string

const (
	ClassGeneral    EndpointClass = "general"
	ClassPostCreate EndpointClass = "post_create"
	ClassVote       EndpointClass = "vote"
)

const pruneInterval = time.Minute

// RateLimiter keeps a sliding window of request timestamps per
// (identity, endpoint class). Admission checks and recording are one
// mutex-guarded step, shared by all concurrent requests for a key.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[EndpointClass]utils.RateLimitWindow
	requests  map[string][]time.Time
	lastPrune time.Time
	now       func() time.Time
}

func NewRateLimiter(cfg utils.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		windows: map[EndpointClass]utils.RateLimitWindow{
			ClassGeneral:    cfg.General,
			ClassPostCreate: cfg.PostCreate,
			ClassVote:       cfg.Vote,
		},
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Admit reports whether the request may proceed. Admitted requests are
// recorded against the window; rejected ones are not.
func (l *RateLimiter) Admit(identityKey string, class EndpointClass) bool {
	window, ok := l.windows[class]
	if !ok {
		window = l.windows[ClassGeneral]
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	key := string(class) + ":" + identityKey
	cutoff := now.Add(-window.Window)

	recent := l.requests[key][:0:0]
	for _, t := range l.requests[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= window.Max {
		l.requests[key] = recent
		return false
	}

	l.requests[key] = append(recent, now)
	return true
}

// pruneLocked drops keys whose entries all fell out of the largest window, so
// long-lived identities don't grow the map without bound. Runs opportunistically
// on request paths, at most once per pruneInterval.
func (l *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < pruneInterval {
		return
	}
	l.lastPrune = now

	var maxWindow time.Duration
	for _, w := range l.windows {
		if w.Window > maxWindow {
			maxWindow = w.Window
		}
	}
	cutoff := now.Add(-maxWindow)

	for key, stamps := range l.requests {
		live := false
		for _, t := range stamps {
			if t.After(cutoff) {
				live = true
				break
			}
		}
		if !live {
			delete(l.requests, key)
		}
	}
}
