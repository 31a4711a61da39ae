package router

import (
	"nymo/internal/handlers"
	"nymo/internal/middleware"
	"nymo/internal/services"

	"github.com/gin-gonic/gin"
)

// Handlers bundles the constructed handlers for route registration.
type Handlers struct {
	Post  *handlers.PostHandler
	Vote  *handlers.VoteHandler
	Stats *handlers.StatsHandler
}

// RegisterRoutes wires the API surface. Every route passes the session
// middleware (identity derivation) and the general limiter; the write
// endpoints carry their stricter classes on top.
func RegisterRoutes(r *gin.Engine, h Handlers, limiter *services.RateLimiter, salt string) {
	r.Use(middleware.Session(salt))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(limiter, services.ClassGeneral))

	api.GET("/health", h.Stats.Health)
	api.GET("/stats", h.Stats.Stats)

	posts := api.Group("/posts")
	{
		posts.GET("", h.Post.List)
		posts.POST("", middleware.RateLimit(limiter, services.ClassPostCreate), h.Post.Create)
		posts.GET("/:id", h.Post.Detail)
		posts.POST("/:id/vote", middleware.RateLimit(limiter, services.ClassVote), h.Vote.Vote)
		posts.POST("/:id/view", h.Vote.View)
	}
}
