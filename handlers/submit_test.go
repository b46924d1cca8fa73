package handlers

import (
	"testing"

	"readsprint/models"
	"readsprint/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitProgressEndToEnd(t *testing.T) {
	app, db := newTestApp(t)
	token, userID := registerUser(t, app, "alice")

	ex := &models.Exercise{Title: "Sprint", Text: "placeholder", WordCount: 250, IsPublic: true, IsRanked: true}
	require.NoError(t, db.Create(ex).Error)
	q := &models.Question{ExerciseID: ex.ID, Text: "Q", CorrectAnswer: "alpha", QuestionType: models.QuestionTypeOpen}
	require.NoError(t, db.Create(q).Error)

	resp := doJSON(t, app, "POST", "/api/submit-progress", map[string]interface{}{
		"exercise_id":     ex.ID,
		"reading_time_ms": 30000,
		"answers": []map[string]interface{}{
			{"question_id": q.ID, "answer": "ALPHA"},
		},
	}, token)
	require.Equal(t, 200, resp.StatusCode)

	var out struct {
		Success bool                      `json:"success"`
		Result  services.SubmissionResult `json:"result"`
	}
	decodeBody(t, resp, &out)
	require.True(t, out.Success)
	assert.Equal(t, 500, out.Result.Wpm)
	assert.Equal(t, 100.0, out.Result.Accuracy)
	assert.True(t, out.Result.CountedForRanking)
	assert.Equal(t, 1, out.Result.AttemptNumber)
	assert.Equal(t, 1, out.Result.CurrentStreak)

	var attempts int64
	require.NoError(t, db.Model(&models.Attempt{}).Where("user_id = ?", userID).Count(&attempts).Error)
	assert.EqualValues(t, 1, attempts)
}

func TestSubmitProgressRejectsInvalidInput(t *testing.T) {
	app, db := newTestApp(t)
	token, _ := registerUser(t, app, "alice")

	ex := &models.Exercise{Title: "Sprint", Text: "placeholder", WordCount: 250, IsPublic: true, IsRanked: true}
	require.NoError(t, db.Create(ex).Error)

	resp := doJSON(t, app, "POST", "/api/submit-progress", map[string]interface{}{
		"exercise_id":     ex.ID,
		"reading_time_ms": 0,
	}, token)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/submit-progress", map[string]interface{}{
		"exercise_id":     99999,
		"reading_time_ms": 30000,
	}, token)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestLeaderboardOrdering(t *testing.T) {
	app, db := newTestApp(t)
	token, _ := registerUser(t, app, "viewer")

	standings := []struct {
		name   string
		points int
	}{
		{"bronze", 100},
		{"gold", 900},
		{"silver", 500},
		{"unranked", 0},
	}
	for _, s := range standings {
		u := &models.User{Username: s.name, Password: "x", TotalRankingPoints: s.points, MaxWpmLimit: 350}
		require.NoError(t, db.Create(u).Error)
	}

	resp := doJSON(t, app, "GET", "/api/ranking/leaderboard", nil, token)
	require.Equal(t, 200, resp.StatusCode)

	var out struct {
		Success bool               `json:"success"`
		Entries []LeaderboardEntry `json:"entries"`
		Total   int64              `json:"total"`
	}
	decodeBody(t, resp, &out)

	require.Len(t, out.Entries, 3) // zero-point users excluded
	assert.EqualValues(t, 3, out.Total)
	assert.Equal(t, "gold", out.Entries[0].Username)
	assert.Equal(t, "silver", out.Entries[1].Username)
	assert.Equal(t, "bronze", out.Entries[2].Username)
	assert.Equal(t, 1, out.Entries[0].Rank)
	assert.Equal(t, 3, out.Entries[2].Rank)
}

func TestMyStatsReflectsSubmissions(t *testing.T) {
	app, db := newTestApp(t)
	token, userID := registerUser(t, app, "alice")

	ex := &models.Exercise{Title: "Sprint", Text: "placeholder", WordCount: 400, IsPublic: true, IsRanked: true}
	require.NoError(t, db.Create(ex).Error)

	resp := doJSON(t, app, "POST", "/api/submit-progress", map[string]interface{}{
		"exercise_id":     ex.ID,
		"reading_time_ms": 60000,
	}, token)
	require.Equal(t, 200, resp.StatusCode)

	// No questions: accuracy 0, an attempt below the floor. It persists but
	// never enters the aggregates.
	resp = doJSON(t, app, "GET", "/api/ranking/my-stats", nil, token)
	require.Equal(t, 200, resp.StatusCode)

	var out struct {
		Success            bool             `json:"success"`
		TotalRankingPoints int              `json:"total_ranking_points"`
		CurrentStreak      int              `json:"current_streak"`
		RecentAttempts     []models.Attempt `json:"recent_attempts"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, 0, out.TotalRankingPoints)
	assert.Equal(t, 1, out.CurrentStreak)
	assert.Empty(t, out.RecentAttempts)

	var persisted int64
	require.NoError(t, db.Model(&models.Attempt{}).Where("user_id = ?", userID).Count(&persisted).Error)
	assert.EqualValues(t, 1, persisted)
}
