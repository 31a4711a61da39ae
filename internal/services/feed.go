package services

import (
	"time"

	"nymo/internal/apperr"
	"nymo/internal/models"
	"nymo/internal/store"
	"nymo/internal/utils"
)

// Feed retrieval constraints. Out-of-range values are a validation failure,
// never a silent clamp.
const (
	MinRadiusMiles = 0.1
	MaxRadiusMiles = 50.0
	MinLimit       = 1
	MaxLimit       = 100
)

// FeedParams is one validated-on-use retrieval request.
type FeedParams struct {
	Latitude  float64
	Longitude float64
	Radius    float64
	Limit     int
	Offset    int
	Sort      string
}

// Pagination mirrors the original response shape. HasMore uses the full-page
// heuristic: a returned page of exactly Limit rows signals a (probable) next
// page. Kept as-is for behavioral compatibility.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

type FeedResult struct {
	Posts      []models.Post `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

// FeedService orchestrates bounding-box retrieval with per-caller vote
// annotation on top of the store.
type FeedService struct {
	store *store.Store
	now   func() time.Time
}

func NewFeedService(st *store.Store) *FeedService {
	return &FeedService{store: st, now: time.Now}
}

func validateFeedParams(p FeedParams) error {
	if !utils.ValidCoordinates(p.Latitude, p.Longitude) {
		return apperr.Invalid("Invalid coordinates. Latitude must be between -90 and 90, longitude between -180 and 180")
	}
	if p.Radius < MinRadiusMiles || p.Radius > MaxRadiusMiles {
		return apperr.Invalid("Radius must be between %.1f and %.0f miles", MinRadiusMiles, MaxRadiusMiles)
	}
	if p.Limit < MinLimit || p.Limit > MaxLimit {
		return apperr.Invalid("Limit must be between %d and %d", MinLimit, MaxLimit)
	}
	if p.Offset < 0 {
		return apperr.Invalid("Offset must be 0 or greater")
	}
	switch p.Sort {
	case store.SortRank, store.SortNew, store.SortTop:
	default:
		return apperr.Invalid("Sort must be one of: rank, new, top")
	}
	return nil
}

// Feed returns the ordered page of posts around the center, each annotated
// with the caller's own vote (0 when none).
func (s *FeedService) Feed(p FeedParams, identity string) (*FeedResult, error) {
	if err := validateFeedParams(p); err != nil {
		return nil, err
	}

	box := utils.BoxAround(p.Latitude, p.Longitude, p.Radius)
	posts, err := s.store.PostsWithin(store.FeedQuery{
		Box:    box,
		Sort:   p.Sort,
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return nil, err
	}

	s.annotate(posts, identity)

	return &FeedResult{
		Posts: posts,
		Pagination: Pagination{
			Total:   len(posts),
			Limit:   p.Limit,
			Offset:  p.Offset,
			HasMore: len(posts) == p.Limit,
		},
	}, nil
}

// GetPost fetches a single post with the caller's vote state filled in.
func (s *FeedService) GetPost(id, identity string) (*models.Post, error) {
	post, err := s.store.GetPost(id)
	if err != nil {
		return nil, err
	}

	vote, err := s.store.UserVote(id, identity)
	if err != nil {
		return nil, err
	}
	post.UserVote = vote
	post.TimeAgo = utils.FormatTimeAgo(post.CreatedAt, s.now())
	return post, nil
}

// annotate batch-fills each post's caller vote and time-ago label.
func (s *FeedService) annotate(posts []models.Post, identity string) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	votes, err := s.store.UserVotes(postIDs, identity)
	if err != nil {
		// Annotation is best-effort; the feed still serves with user_vote=0
		votes = map[string]int{}
	}

	now := s.now()
	for i := range posts {
		posts[i].UserVote = votes[posts[i].ID]
		posts[i].TimeAgo = utils.FormatTimeAgo(posts[i].CreatedAt, now)
	}
}
