package middleware

import (
	"net/http"
	"time"

	"nymo/internal/services"

	"github.com/gin-gonic/gin"
)

// rateLimitMessages keeps the caller-facing copy per endpoint class.
var rateLimitMessages = map[services.EndpointClass]string{
	services.ClassGeneral:    "Too many requests, please try again later.",
	services.ClassPostCreate: "Post limit exceeded. Please wait before posting again.",
	services.ClassVote:       "Voting too fast. Please slow down.",
}

// RateLimit gates requests through the limiter for one endpoint class.
// Rejections answer 429 with the error envelope, so clients can tell
// "try later" apart from a malformed request.
func RateLimit(limiter *services.RateLimiter, class services.EndpointClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The general class throttles per client address; write classes
		// throttle per session identity.
		key := Identity(c)
		if class == services.ClassGeneral {
			key = AddrIdentity(c)
		}

		if !limiter.Admit(key, class) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":     true,
				"message":   rateLimitMessages[class],
				"status":    http.StatusTooManyRequests,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}
