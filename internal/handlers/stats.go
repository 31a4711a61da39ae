package handlers

import (
	"net/http"
	"time"

	"nymo/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StatsHandler struct {
	posts *services.PostService
	log   *logrus.Logger
	start time.Time
}

func NewStatsHandler(posts *services.PostService, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{posts: posts, log: log, start: time.Now()}
}

// Stats handles GET /api/stats.
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.posts.Stats()
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// Health handles GET /api/health.
func (h *StatsHandler) Health(c *gin.Context) {
	Success(c, http.StatusOK, "Service is healthy", gin.H{
		"status": "healthy",
		"uptime": time.Since(h.start).Seconds(),
	})
}
