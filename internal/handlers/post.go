package handlers

import (
	"net/http"
	"strconv"

	"nymo/internal/middleware"
	"nymo/internal/services"
	"nymo/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Feed defaults when the client leaves the knobs off.
const (
	defaultRadius = 2.0
	defaultLimit  = 20
)

type PostHandler struct {
	feed  *services.FeedService
	posts *services.PostService
	log   *logrus.Logger
}

func NewPostHandler(feed *services.FeedService, posts *services.PostService, log *logrus.Logger) *PostHandler {
	return &PostHandler{feed: feed, posts: posts, log: log}
}

// List handles GET /api/posts - ranked posts around a location.
func (h *PostHandler) List(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("latitude"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("longitude"), 64)
	if latErr != nil || lonErr != nil {
		Error(c, http.StatusBadRequest, "Invalid or missing coordinates")
		return
	}

	params := services.FeedParams{
		Latitude:  lat,
		Longitude: lon,
		Radius:    defaultRadius,
		Limit:     defaultLimit,
		Offset:    0,
		Sort:      c.DefaultQuery("sort", store.SortRank),
	}

	if v := c.Query("radius"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			Error(c, http.StatusBadRequest, "Invalid radius")
			return
		}
		params.Radius = radius
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			Error(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		params.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			Error(c, http.StatusBadRequest, "Invalid offset")
			return
		}
		params.Offset = offset
	}

	result, err := h.feed.Feed(params, middleware.Identity(c))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Success", result)
}

type createPostRequest struct {
	Content   string   `json:"content" binding:"required"`
	PostType  string   `json:"post_type" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "Content, post_type, latitude and longitude are required")
		return
	}

	post, err := h.posts.CreatePost(req.Content, req.PostType, *req.Latitude, *req.Longitude)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	Success(c, http.StatusCreated, "Post created successfully", post)
}

// Detail handles GET /api/posts/:id.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.feed.GetPost(c.Param("id"), middleware.Identity(c))
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	Success(c, http.StatusOK, "Success", post)
}
