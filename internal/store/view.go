package store

import (
	"errors"

	"nymo/internal/apperr"
	"nymo/internal/models"

	"gorm.io/gorm"
)

// RecordView counts at most one view per (post, identity). The first call
// inserts the view record and restores the post's counters and rank score in
// one transaction; repeats are no-ops and report countedNow=false.
func (s *Store) RecordView(postID, identity string) (bool, error) {
	countedNow := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.ErrNotFound
			}
			return err
		}

		var existing models.View
		err := tx.Where("post_id = ? AND identity_hash = ?", postID, identity).
			First(&existing).Error
		if err == nil {
			// Already counted for this identity
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		view := models.View{
			PostID:       postID,
			IdentityHash: identity,
			ViewedAt:     s.now(),
		}
		if err := tx.Create(&view).Error; err != nil {
			return err
		}
		if err := s.RefreshAggregates(tx, postID); err != nil {
			return err
		}
		countedNow = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return countedNow, nil
}

// HasViewed reports whether a view has already been counted for the pair.
func (s *Store) HasViewed(postID, identity string) (bool, error) {
	var count int64
	err := s.db.Model(&models.View{}).
		Where("post_id = ? AND identity_hash = ?", postID, identity).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
