// Package store owns all persisted state: posts, the vote and view ledgers,
// and the recount-and-rescore path both ledgers go through. Dependencies run
// one way only: the ledgers call into post storage, never the reverse.
package store

import (
	"errors"
	"time"

	"nymo/internal/apperr"
	"nymo/internal/models"
	"nymo/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sort modes for feed retrieval.
const (
	SortRank = "rank"
	SortNew  = "new"
	SortTop  = "top"
)

type Store struct {
	db  *gorm.DB
	log *logrus.Logger
	now func() time.Time
}

// New wraps an open database handle. Lifecycle of the handle stays with the
// caller (the process entry point).
func New(gdb *gorm.DB, log *logrus.Logger) *Store {
	return &Store{db: gdb, log: log, now: time.Now}
}

// FeedQuery selects posts inside a bounding box with one of the sort modes.
type FeedQuery struct {
	Box    utils.BoundingBox
	Sort   string
	Limit  int
	Offset int
}

// CreatePost persists a fully constructed post.
func (s *Store) CreatePost(post *models.Post) error {
	return s.db.Create(post).Error
}

// GetPost fetches a post by id.
func (s *Store) GetPost(id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// PostsWithin returns posts inside the box, ordered by the requested mode.
func (s *Store) PostsWithin(q FeedQuery) ([]models.Post, error) {
	order := "rank_score DESC, created_at DESC"
	switch q.Sort {
	case SortNew:
		order = "created_at DESC"
	case SortTop:
		order = "(upvotes - downvotes) DESC, created_at DESC"
	}

	var posts []models.Post
	err := s.db.
		Where("latitude BETWEEN ? AND ?", q.Box.MinLat, q.Box.MaxLat).
		Where("longitude BETWEEN ? AND ?", q.Box.MinLon, q.Box.MaxLon).
		Order(order).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// lockForUpdate takes a FOR UPDATE row lock where the dialect supports it.
// sqlite has a single writer and no FOR UPDATE syntax, so it is skipped there.
func (s *Store) lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// RefreshAggregates recounts a post's vote and view totals from the ledgers
// and recomputes its rank score, persisting everything on the given tx. The
// recount (rather than increment) guarantees the counters converge even under
// concurrent duplicate writes. This is the only rescoring path; the ledgers
// depend on it, not the other way around.
//
// The post row is locked before the recount so concurrent ledger writes to the
// same post recount one after another; each recount then runs its count
// statements after every earlier writer has committed, never against a stale
// snapshot.
func (s *Store) RefreshAggregates(tx *gorm.DB, postID string) error {
	var post models.Post
	if err := s.lockForUpdate(tx).First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}

	var upvotes, downvotes, views int64
	if err := tx.Model(&models.Vote{}).
		Where("post_id = ? AND vote_type = ?", postID, models.VoteUp).
		Count(&upvotes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Vote{}).
		Where("post_id = ? AND vote_type = ?", postID, models.VoteDown).
		Count(&downvotes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.View{}).
		Where("post_id = ?", postID).
		Count(&views).Error; err != nil {
		return err
	}

	now := s.now()
	score := utils.CalculateRankScore(
		int(upvotes), int(downvotes), int(views),
		post.CreatedAt, post.PostType, now,
	)

	return tx.Model(&models.Post{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"upvotes":    upvotes,
			"downvotes":  downvotes,
			"views":      views,
			"rank_score": score,
			"updated_at": now,
		}).Error
}

// StatsResult holds the platform counters served by the stats endpoint.
type StatsResult struct {
	TotalPosts int64 `json:"total_posts"`
	PostsToday int64 `json:"posts_today"`
	TotalVotes int64 `json:"total_votes"`
}

// Stats returns platform-wide totals.
func (s *Store) Stats() (*StatsResult, error) {
	var result StatsResult
	if err := s.db.Model(&models.Post{}).Count(&result.TotalPosts).Error; err != nil {
		return nil, err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.Post{}).
		Where("created_at >= ?", midnight).
		Count(&result.PostsToday).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Vote{}).Count(&result.TotalVotes).Error; err != nil {
		return nil, err
	}
	return &result, nil
}
