package models

import (
	"time"
)

// Vote types. 0 is a logical clear: the row stays for idempotence and audit.
const (
	VoteDown    = -1
	VoteCleared = 0
	VoteUp      = 1
)

// ValidVoteType reports whether v is one of -1, 0, 1.
func ValidVoteType(v int) bool {
	return v == VoteDown || v == VoteCleared || v == VoteUp
}

// Vote holds one logical vote per (post, identity). A later vote by the same
// identity overwrites this row rather than creating a second one.
type Vote struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	PostID       string    `gorm:"size:36;not null;uniqueIndex:idx_votes_post_identity" json:"post_id"`
	IdentityHash string    `gorm:"size:64;not null;uniqueIndex:idx_votes_post_identity" json:"-"`
	VoteType     int       `gorm:"not null" json:"vote_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
