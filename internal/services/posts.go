package services

import (
	"time"

	"nymo/internal/apperr"
	"nymo/internal/models"
	"nymo/internal/store"
	"nymo/internal/utils"

	"github.com/google/uuid"
)

const (
	MaxContentLength = 2000

	statsCacheKey = "stats"
	statsCacheTTL = time.Minute
)

// PostService validates and creates posts, and serves cached platform stats.
type PostService struct {
	store *store.Store
	cache *utils.Cache
	now   func() time.Time
}

func NewPostService(st *store.Store, cache *utils.Cache) *PostService {
	return &PostService{store: st, cache: cache, now: time.Now}
}

// CreatePost sanitizes and validates the input, derives the location hash and
// the initial rank score, and persists the post.
func (s *PostService) CreatePost(content, postType string, lat, lon float64) (*models.Post, error) {
	sanitized := utils.SanitizeContent(content)
	if sanitized == "" {
		return nil, apperr.Invalid("Content cannot be empty")
	}
	if len([]rune(sanitized)) > MaxContentLength {
		return nil, apperr.Invalid("Content must be %d characters or less", MaxContentLength)
	}
	if utils.LooksLikeSpam(sanitized) {
		return nil, apperr.Invalid("Content looks like spam")
	}
	if !models.ValidCategory(postType) {
		return nil, apperr.Invalid("Invalid post type. Must be one of: event, recommendation, alert, question, random")
	}
	if !utils.ValidCoordinates(lat, lon) {
		return nil, apperr.Invalid("Invalid coordinates. Latitude must be between -90 and 90, longitude between -180 and 180")
	}

	now := s.now()
	post := &models.Post{
		ID:           uuid.NewString(),
		Content:      sanitized,
		PostType:     postType,
		Latitude:     lat,
		Longitude:    lon,
		LocationHash: utils.LocationHash(lat, lon),
		RankScore:    utils.CalculateRankScore(0, 0, 0, now, postType, now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreatePost(post); err != nil {
		return nil, err
	}

	// New content invalidates the cached totals
	s.cache.Delete(statsCacheKey)

	post.TimeAgo = utils.FormatTimeAgo(post.CreatedAt, now)
	return post, nil
}

// Stats returns platform totals, cached briefly to keep the counting queries
// off the hot path.
func (s *PostService) Stats() (*store.StatsResult, error) {
	if cached := s.cache.Get(statsCacheKey); cached != nil {
		if result, ok := cached.(*store.StatsResult); ok {
			return result, nil
		}
	}

	result, err := s.store.Stats()
	if err != nil {
		return nil, err
	}
	s.cache.Set(statsCacheKey, result, statsCacheTTL)
	return result, nil
}
