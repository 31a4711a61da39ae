package middleware

import (
	"nymo/internal/utils"

	"github.com/gin-gonic/gin"
)

// Context keys for the derived identity hashes. Only hashes cross this
// boundary; the raw token and client address are never stored or logged.
const (
	IdentityKey = "identity"
	AddrKey     = "addr_identity"
)

// SessionHeader carries the opaque client token. The service mints one and
// echoes it back when the client arrives without.
const SessionHeader = "X-Session-ID"

// Session derives the pseudonymous identity keys for the request: one from
// the session token (minted if absent), one from the client address as a
// fallback key for the general limiter.
func Session(salt string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			token = utils.NewSessionID()
			c.Header(SessionHeader, token)
		}

		c.Set(IdentityKey, utils.DeriveIdentity(token, salt))
		c.Set(AddrKey, utils.DeriveIdentity(c.ClientIP(), salt))
		c.Next()
	}
}

// Identity returns the session-derived identity hash for the request.
func Identity(c *gin.Context) string {
	return c.GetString(IdentityKey)
}

// AddrIdentity returns the address-derived identity hash for the request.
func AddrIdentity(c *gin.Context) string {
	return c.GetString(AddrKey)
}
