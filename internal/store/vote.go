package store

import (
	"errors"

	"nymo/internal/apperr"
	"nymo/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplyVote upserts the caller's vote on a post and restores the post's
// aggregate counters and rank score in the same transaction. There is exactly
// one logical vote per (post, identity) at all times: voting again overwrites
// the earlier row, voting 0 clears it logically but keeps the row.
func (s *Store) ApplyVote(postID, identity string, voteType int) (*models.Post, error) {
	if !models.ValidVoteType(voteType) {
		return nil, apperr.Invalid("Invalid vote type. Must be 1 (upvote), -1 (downvote), or 0 (remove vote)")
	}

	var updated models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		// Check if this identity already voted
		var existing models.Vote
		err := tx.Where("post_id = ? AND identity_hash = ?", postID, identity).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Model(&existing).
				Updates(map[string]interface{}{
					"vote_type":  voteType,
					"updated_at": s.now(),
				}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote := models.Vote{
				ID:           uuid.NewString(),
				PostID:       postID,
				IdentityHash: identity,
				VoteType:     voteType,
				CreatedAt:    s.now(),
				UpdatedAt:    s.now(),
			}
			if err := tx.Create(&vote).Error; err != nil {
				return err
			}
		default:
			return err
		}

		if err := s.RefreshAggregates(tx, postID); err != nil {
			return err
		}
		return tx.First(&updated, "id = ?", postID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UserVote returns the caller's active vote on a post, 0 when none.
func (s *Store) UserVote(postID, identity string) (int, error) {
	var vote models.Vote
	err := s.db.Where("post_id = ? AND identity_hash = ?", postID, identity).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return vote.VoteType, nil
}

// UserVotes batch-fetches the caller's votes for a page of posts.
func (s *Store) UserVotes(postIDs []string, identity string) (map[string]int, error) {
	votes := make(map[string]int, len(postIDs))
	if len(postIDs) == 0 {
		return votes, nil
	}

	var rows []models.Vote
	err := s.db.Where("post_id IN ? AND identity_hash = ?", postIDs, identity).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, v := range rows {
		votes[v.PostID] = v.VoteType
	}
	return votes, nil
}
