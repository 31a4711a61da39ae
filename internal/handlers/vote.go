package handlers

import (
	"net/http"

	"nymo/internal/middleware"
	"nymo/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type VoteHandler struct {
	store *store.Store
	log   *logrus.Logger
}

func NewVoteHandler(st *store.Store, log *logrus.Logger) *VoteHandler {
	return &VoteHandler{store: st, log: log}
}

type voteRequest struct {
	VoteType *int `json:"vote_type" binding:"required"`
}

// Vote handles POST /api/posts/:id/vote. The ledger upserts the caller's vote
// and returns the post with freshly recounted aggregates.
func (h *VoteHandler) Vote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "vote_type is required")
		return
	}

	post, err := h.store.ApplyVote(c.Param("id"), middleware.Identity(c), *req.VoteType)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Vote recorded successfully", gin.H{
		"vote_type": *req.VoteType,
		"post":      post,
	})
}

// View handles POST /api/posts/:id/view. Counted at most once per identity.
func (h *VoteHandler) View(c *gin.Context) {
	countedNow, err := h.store.RecordView(c.Param("id"), middleware.Identity(c))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "View recorded", gin.H{
		"counted_now": countedNow,
	})
}
