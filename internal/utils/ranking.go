package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity          float64 // 时间重力 (1.5)
	RecencyBonus     float64 // early vote velocity bonus
	ControversyBonus float64 // both sides engaged
	SpamPenalty      float64 // heavily downvoted
}

var DefaultRankConfig = RankConfig{
	Gravity:          1.5,
	RecencyBonus:     1.3,
	ControversyBonus: 1.2,
	SpamPenalty:      0.5,
}

// categoryMultipliers weight the base score per post category. Unknown
// categories fall back to 1.0 so a stored row can never fail scoring.
var categoryMultipliers = map[string]float64{
	"alert":          2.0,
	"event":          1.5,
	"question":       1.2,
	"recommendation": 1.0,
	"random":         0.8,
}

// CategoryMultiplier returns the ranking weight for a category.
func CategoryMultiplier(category string) float64 {
	if m, ok := categoryMultipliers[category]; ok {
		return m
	}
	return 1.0
}

// CalculateRankScore converts a post's engagement and age into a single
// non-negative sortable score. Deterministic for a fixed now, so recomputing
// is idempotent. Callers persist the result.
func CalculateRankScore(upvotes, downvotes, views int, createdAt time.Time, category string, now time.Time) float64 {
	hours := now.Sub(createdAt).Hours()

	// 时间衰减: (hours+2)^-1.5, never divides by zero for hours >= 0
	timeDecay := math.Pow(hours+2, -DefaultRankConfig.Gravity)

	voteScore := float64(upvotes - downvotes)
	engagement := math.Log(float64(views) + 1)
	base := (voteScore + engagement) * timeDecay

	totalVotes := upvotes + downvotes
	quality := 1.0

	// Velocity bonus: votes arriving within the first hour
	if totalVotes > 2 && hours < 1 {
		quality *= DefaultRankConfig.RecencyBonus
	}

	// Controversy bonus: both sides meaningfully engaged
	if totalVotes > 5 && float64(min(upvotes, downvotes))/float64(totalVotes) > 0.3 {
		quality *= DefaultRankConfig.ControversyBonus
	}

	// Spam penalty: overwhelmingly downvoted
	if totalVotes > 0 && float64(downvotes)/float64(totalVotes) > 0.7 {
		quality *= DefaultRankConfig.SpamPenalty
	}

	score := base * CategoryMultiplier(category) * quality
	return math.Max(0, score)
}
