package handlers

import (
	"errors"
	"net/http"
	"time"

	"nymo/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Success writes the success envelope all endpoints share.
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"success":   true,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Error writes the error envelope.
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error":     true,
		"message":   message,
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleError maps the error taxonomy onto HTTP statuses. Anything outside
// the taxonomy is internal: logged with detail, surfaced generically.
func HandleError(c *gin.Context, log *logrus.Logger, err error) {
	var inv *apperr.InvalidArgument
	switch {
	case errors.As(err, &inv):
		Error(c, http.StatusBadRequest, inv.Reason)
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "Post not found")
	default:
		log.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
