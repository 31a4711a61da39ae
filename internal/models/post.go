package models

import (
	"time"
)

// Post categories. The set is closed: creation rejects anything else.
const (
	CategoryEvent          = "event"
	CategoryRecommendation = "recommendation"
	CategoryAlert          = "alert"
	CategoryQuestion       = "question"
	CategoryRandom         = "random"
)

var Categories = []string{
	CategoryEvent,
	CategoryRecommendation,
	CategoryAlert,
	CategoryQuestion,
	CategoryRandom,
}

// ValidCategory reports whether c is one of the known post categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Post struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	PostType     string    `gorm:"size:16;not null" json:"post_type"`
	Latitude     float64   `gorm:"not null;index:idx_posts_location,priority:1" json:"latitude"`
	Longitude    float64   `gorm:"not null;index:idx_posts_location,priority:2" json:"longitude"`
	LocationHash string    `gorm:"size:12;not null;index" json:"location_hash"`
	Upvotes      int       `gorm:"not null;default:0" json:"upvotes"`
	Downvotes    int       `gorm:"not null;default:0" json:"downvotes"`
	Views        int       `gorm:"not null;default:0" json:"views"`
	RankScore    float64   `gorm:"not null;default:0;index:idx_posts_rank,priority:1,sort:desc" json:"rank_score"`
	CreatedAt    time.Time `gorm:"index:idx_posts_rank,priority:2,sort:desc;index:idx_posts_created,sort:desc" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Filled per request at query time, never persisted
	UserVote int    `gorm:"-" json:"user_vote"`
	TimeAgo  string `gorm:"-" json:"time_ago"`
}
