package models

import (
	"time"
)

// View marks that a view has been counted for (post, identity). Existence is
// the whole signal; there is no un-view.
type View struct {
	PostID       string    `gorm:"primaryKey;size:36" json:"post_id"`
	IdentityHash string    `gorm:"primaryKey;size:64" json:"-"`
	ViewedAt     time.Time `gorm:"autoCreateTime" json:"viewed_at"`
}
