package store

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"nymo/internal/apperr"
	"nymo/internal/db"
	"nymo/internal/models"
	"nymo/internal/utils"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// One connection so every query sees the same in-memory database
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))

	log := logrus.New()
	log.SetOutput(io.Discard)
	return New(gdb, log)
}

func seedPost(t *testing.T, s *Store, lat, lon float64, category string, createdAt time.Time) *models.Post {
	t.Helper()

	post := &models.Post{
		ID:           uuid.NewString(),
		Content:      "something is happening nearby",
		PostType:     category,
		Latitude:     lat,
		Longitude:    lon,
		LocationHash: utils.LocationHash(lat, lon),
		RankScore:    utils.CalculateRankScore(0, 0, 0, createdAt, category, createdAt),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, s.CreatePost(post))
	return post
}

func TestApplyVoteIdempotent(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryEvent, time.Now())

	updated, err := s.ApplyVote(post.ID, "identity-a", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Upvotes)
	assert.Equal(t, 0, updated.Downvotes)

	// Same identity, same value: counters unchanged
	updated, err = s.ApplyVote(post.ID, "identity-a", models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Upvotes)
	assert.Equal(t, 0, updated.Downvotes)
}

func TestApplyVoteFlip(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryEvent, time.Now())

	_, err := s.ApplyVote(post.ID, "identity-a", models.VoteUp)
	require.NoError(t, err)

	// Opposite vote moves exactly one unit between the counters
	updated, err := s.ApplyVote(post.ID, "identity-a", models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Upvotes)
	assert.Equal(t, 1, updated.Downvotes)
}

func TestApplyVoteClearKeepsRecord(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryEvent, time.Now())

	_, err := s.ApplyVote(post.ID, "identity-a", models.VoteUp)
	require.NoError(t, err)

	updated, err := s.ApplyVote(post.ID, "identity-a", models.VoteCleared)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Upvotes)
	assert.Equal(t, 0, updated.Downvotes)

	// The row persists as a logical clear, no second row appears
	var count int64
	require.NoError(t, s.db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	vote, err := s.UserVote(post.ID, "identity-a")
	require.NoError(t, err)
	assert.Equal(t, models.VoteCleared, vote)
}

func TestApplyVoteInvalidType(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryEvent, time.Now())

	_, err := s.ApplyVote(post.ID, "identity-a", 5)
	assert.True(t, apperr.IsInvalid(err))

	// No state change
	fresh, err := s.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Upvotes)
	assert.Equal(t, 0, fresh.Downvotes)
}

func TestApplyVoteMissingPost(t *testing.T) {
	s := newTestStore(t)

	_, err := s.ApplyVote(uuid.NewString(), "identity-a", models.VoteUp)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestApplyVoteDistinctIdentities(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryAlert, time.Now().Add(-30*time.Minute))

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.ApplyVote(post.ID, id, models.VoteUp)
		require.NoError(t, err)
	}
	updated, err := s.ApplyVote(post.ID, "d", models.VoteDown)
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Upvotes)
	assert.Equal(t, 1, updated.Downvotes)
	assert.Greater(t, updated.RankScore, 0.0)
}

func TestApplyVoteConcurrentIdentities(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryEvent, time.Now())

	// Every writer goes through the locked recount, so no acknowledged vote
	// can be lost to a stale count, whatever the interleaving
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.ApplyVote(post.ID, fmt.Sprintf("identity-%d", n), models.VoteUp)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	fresh, err := s.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, fresh.Upvotes)

	var rows int64
	require.NoError(t, s.db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	assert.EqualValues(t, fresh.Upvotes, rows)
}

func TestRecordViewCountedOnce(t *testing.T) {
	s := newTestStore(t)
	post := seedPost(t, s, 40.7128, -74.0060, models.CategoryQuestion, time.Now())

	countedNow, err := s.RecordView(post.ID, "identity-a")
	require.NoError(t, err)
	assert.True(t, countedNow)

	countedNow, err = s.RecordView(post.ID, "identity-a")
	require.NoError(t, err)
	assert.False(t, countedNow)

	fresh, err := s.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Views)

	// A different identity counts again
	countedNow, err = s.RecordView(post.ID, "identity-b")
	require.NoError(t, err)
	assert.True(t, countedNow)

	fresh, err = s.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Views)
}

func TestRecordViewMissingPost(t *testing.T) {
	s := newTestStore(t)

	_, err := s.RecordView(uuid.NewString(), "identity-a")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPostsWithinBoundingBox(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	near := seedPost(t, s, 40.7130, -74.0058, models.CategoryEvent, now)
	seedPost(t, s, 41.0, -74.0, models.CategoryEvent, now) // ~20 miles out

	posts, err := s.PostsWithin(FeedQuery{
		Box:   utils.BoxAround(40.7128, -74.0060, 2),
		Sort:  SortRank,
		Limit: 20,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, near.ID, posts[0].ID)
}

func TestPostsWithinSortModes(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	oldest := seedPost(t, s, 40.71, -74.00, models.CategoryEvent, now.Add(-3*time.Hour))
	middle := seedPost(t, s, 40.71, -74.00, models.CategoryEvent, now.Add(-2*time.Hour))
	newest := seedPost(t, s, 40.71, -74.00, models.CategoryEvent, now.Add(-1*time.Hour))

	// Give the oldest post the best vote balance
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.ApplyVote(oldest.ID, id, models.VoteUp)
		require.NoError(t, err)
	}
	_, err := s.ApplyVote(middle.ID, "a", models.VoteUp)
	require.NoError(t, err)
	_, err = s.ApplyVote(newest.ID, "a", models.VoteDown)
	require.NoError(t, err)

	box := utils.BoxAround(40.71, -74.00, 2)

	byNew, err := s.PostsWithin(FeedQuery{Box: box, Sort: SortNew, Limit: 20})
	require.NoError(t, err)
	require.Len(t, byNew, 3)
	assert.Equal(t, newest.ID, byNew[0].ID)
	assert.Equal(t, middle.ID, byNew[1].ID)
	assert.Equal(t, oldest.ID, byNew[2].ID)

	byTop, err := s.PostsWithin(FeedQuery{Box: box, Sort: SortTop, Limit: 20})
	require.NoError(t, err)
	require.Len(t, byTop, 3)
	assert.Equal(t, oldest.ID, byTop[0].ID)
	assert.Equal(t, middle.ID, byTop[1].ID)
	assert.Equal(t, newest.ID, byTop[2].ID)

	byRank, err := s.PostsWithin(FeedQuery{Box: box, Sort: SortRank, Limit: 20})
	require.NoError(t, err)
	require.Len(t, byRank, 3)
	for i := 1; i < len(byRank); i++ {
		assert.GreaterOrEqual(t, byRank[i-1].RankScore, byRank[i].RankScore)
	}
}

func TestPostsWithinPagination(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	for i := 0; i < 5; i++ {
		seedPost(t, s, 40.71, -74.00, models.CategoryRandom, now.Add(-time.Duration(i)*time.Minute))
	}

	box := utils.BoxAround(40.71, -74.00, 2)

	page, err := s.PostsWithin(FeedQuery{Box: box, Sort: SortNew, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	rest, err := s.PostsWithin(FeedQuery{Box: box, Sort: SortNew, Limit: 10, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	today := seedPost(t, s, 40.71, -74.00, models.CategoryEvent, now)
	seedPost(t, s, 40.71, -74.00, models.CategoryEvent, now.Add(-48*time.Hour))

	_, err := s.ApplyVote(today.ID, "a", models.VoteUp)
	require.NoError(t, err)
	_, err = s.ApplyVote(today.ID, "b", models.VoteDown)
	require.NoError(t, err)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalPosts)
	assert.EqualValues(t, 1, stats.PostsToday)
	assert.EqualValues(t, 2, stats.TotalVotes)
}
