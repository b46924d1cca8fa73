package services

import (
	"testing"
	"time"

	"readsprint/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayChallengeDeterministic(t *testing.T) {
	db := newTestDB(t)
	var ids []uint
	for _, title := range []string{"A", "B", "C"} {
		ex := createTestExercise(t, db, title, 400, true)
		ex.IsDailyCandidate = true
		require.NoError(t, db.Save(ex).Error)
		ids = append(ids, ex.ID)
	}

	// 2025-03-15 is day 74; 74 % 3 = 2 picks the third by id.
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	got, err := TodayChallenge(db, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ids[74%3], got.ID)
}

func TestTodayChallengeStableWithinDay(t *testing.T) {
	db := newTestDB(t)
	for _, title := range []string{"A", "B", "C"} {
		ex := createTestExercise(t, db, title, 400, true)
		ex.IsDailyCandidate = true
		require.NoError(t, db.Save(ex).Error)
	}

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	first, err := TodayChallenge(db, now)
	require.NoError(t, err)
	require.NotNil(t, first)

	// The pool changes after the pick; the persisted pick must not.
	ex := createTestExercise(t, db, "D", 400, true)
	ex.IsDailyCandidate = true
	require.NoError(t, db.Save(ex).Error)

	again, err := TodayChallenge(db, now.Add(10*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, first.ID, again.ID)
}

func TestTodayChallengePurgesPastDates(t *testing.T) {
	db := newTestDB(t)
	ex := createTestExercise(t, db, "A", 400, true)

	stale := models.DailyChallenge{Date: "2025-03-10", ExerciseID: ex.ID}
	require.NoError(t, db.Create(&stale).Error)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	_, err := TodayChallenge(db, now)
	require.NoError(t, err)

	var staleCount int64
	require.NoError(t, db.Model(&models.DailyChallenge{}).Where("date = ?", "2025-03-10").Count(&staleCount).Error)
	assert.EqualValues(t, 0, staleCount)
}

func TestTodayChallengeFallbackPools(t *testing.T) {
	db := newTestDB(t)

	// Ranked but neither public nor a daily candidate: last fallback pool.
	ex := &models.Exercise{Title: "Hidden", Text: "t", WordCount: 400, IsRanked: true}
	require.NoError(t, db.Create(ex).Error)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	got, err := TodayChallenge(db, now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ex.ID, got.ID)
}

func TestTodayChallengeEmptyPool(t *testing.T) {
	db := newTestDB(t)

	// Only non-ranked exercises exist: no challenge, no error.
	createTestExercise(t, db, "Casual", 400, false)

	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	got, err := TodayChallenge(db, now)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHasBankedDailyBonus(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "alice")
	ex := createTestExercise(t, db, "A", 400, true)
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

	banked, err := HasBankedDailyBonus(db, user.ID, now)
	require.NoError(t, err)
	assert.False(t, banked)

	attempt := &models.Attempt{UserID: user.ID, ExerciseID: ex.ID, Wpm: 300, Accuracy: 90, CompletedDailyChallenge: true, CompletedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, db.Create(attempt).Error)

	banked, err = HasBankedDailyBonus(db, user.ID, now)
	require.NoError(t, err)
	assert.True(t, banked)

	// Yesterday's completion does not count today.
	nextDay := now.AddDate(0, 0, 1)
	banked, err = HasBankedDailyBonus(db, user.ID, nextDay)
	require.NoError(t, err)
	assert.False(t, banked)
}
