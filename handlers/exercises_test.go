package handlers

import (
	"fmt"
	"testing"

	"readsprint/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// adminToken creates an admin account directly and signs a token for it.
func adminToken(t *testing.T, db *gorm.DB) (string, uint) {
	t.Helper()
	admin := &models.User{Username: "admin", Password: "x", IsAdmin: true, MaxWpmLimit: 350}
	require.NoError(t, db.Create(admin).Error)
	token, err := generateToken(*admin)
	require.NoError(t, err)
	return token, admin.ID
}

func manyWords(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("word%d", i)
	}
	return out
}

func TestCreateExerciseDerivesWordCount(t *testing.T) {
	app, db := newTestApp(t)
	token, _ := registerUser(t, app, "alice")

	resp := doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title": "My exercise",
		"text":  "one two three four five",
	}, token)
	require.Equal(t, 201, resp.StatusCode)

	var out struct {
		Success  bool            `json:"success"`
		Exercise models.Exercise `json:"exercise"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, 5, out.Exercise.WordCount)
	assert.False(t, out.Exercise.IsPublic)

	var stored models.Exercise
	require.NoError(t, db.First(&stored, out.Exercise.ID).Error)
	assert.Equal(t, 5, stored.WordCount)
}

func TestCreateExerciseFlagsRequireAdmin(t *testing.T) {
	app, db := newTestApp(t)
	token, _ := registerUser(t, app, "alice")

	resp := doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title":     "Ranked attempt",
		"text":      "some text here",
		"is_ranked": true,
	}, token)
	assert.Equal(t, 403, resp.StatusCode)

	admin, _ := adminToken(t, db)
	resp = doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title":     "Ranked ok",
		"text":      "some text here",
		"is_ranked": true,
		"is_public": true,
	}, admin)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestCreateExerciseRankedWordCap(t *testing.T) {
	app, db := newTestApp(t)
	admin, _ := adminToken(t, db)

	resp := doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title":     "Too long",
		"text":      manyWords(1001),
		"is_ranked": true,
	}, admin)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title":     "At the cap",
		"text":      manyWords(1000),
		"is_ranked": true,
	}, admin)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestCreateExerciseQuestionValidation(t *testing.T) {
	app, _ := newTestApp(t)
	token, _ := registerUser(t, app, "alice")

	// Choice question with fewer than 4 options.
	resp := doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title": "Quiz",
		"text":  "some text",
		"questions": []map[string]interface{}{
			{"text": "Q1", "correct_answer": "a", "question_type": "choice", "option_1": "a", "option_2": "b"},
		},
	}, token)
	assert.Equal(t, 400, resp.StatusCode)

	// Open question with options.
	resp = doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title": "Quiz",
		"text":  "some text",
		"questions": []map[string]interface{}{
			{"text": "Q1", "correct_answer": "a", "question_type": "open", "option_1": "a"},
		},
	}, token)
	assert.Equal(t, 400, resp.StatusCode)

	// Valid mix.
	resp = doJSON(t, app, "POST", "/api/exercises/", map[string]interface{}{
		"title": "Quiz",
		"text":  "some text",
		"questions": []map[string]interface{}{
			{"text": "Q1", "correct_answer": "a", "question_type": "open"},
			{"text": "Q2", "correct_answer": "b", "question_type": "choice",
				"option_1": "a", "option_2": "b", "option_3": "c", "option_4": "d"},
		},
	}, token)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestUpdateExerciseRecomputesWordCount(t *testing.T) {
	app, db := newTestApp(t)
	token, userID := registerUser(t, app, "alice")

	ex := &models.Exercise{Title: "Mine", Text: "one two", WordCount: 2, CreatedBy: &userID}
	require.NoError(t, db.Create(ex).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/exercises/%d", ex.ID), map[string]interface{}{
		"text": "one two three four five six",
	}, token)
	require.Equal(t, 200, resp.StatusCode)

	var stored models.Exercise
	require.NoError(t, db.First(&stored, ex.ID).Error)
	assert.Equal(t, 6, stored.WordCount)
}

func TestUpdateExerciseOwnershipEnforced(t *testing.T) {
	app, db := newTestApp(t)
	_, ownerID := registerUser(t, app, "owner")
	intruder, _ := registerUser(t, app, "intruder")

	ex := &models.Exercise{Title: "Owned", Text: "text", WordCount: 1, CreatedBy: &ownerID}
	require.NoError(t, db.Create(ex).Error)

	resp := doJSON(t, app, "PUT", fmt.Sprintf("/api/exercises/%d", ex.ID), map[string]interface{}{
		"title": "Stolen",
	}, intruder)
	assert.Equal(t, 403, resp.StatusCode)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/exercises/%d", ex.ID), nil, intruder)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestDeleteExerciseRemovesQuestions(t *testing.T) {
	app, db := newTestApp(t)
	token, userID := registerUser(t, app, "alice")

	ex := &models.Exercise{Title: "Mine", Text: "text", WordCount: 1, CreatedBy: &userID}
	require.NoError(t, db.Create(ex).Error)
	q := &models.Question{ExerciseID: ex.ID, Text: "Q", CorrectAnswer: "a", QuestionType: models.QuestionTypeOpen}
	require.NoError(t, db.Create(q).Error)

	resp := doJSON(t, app, "DELETE", fmt.Sprintf("/api/exercises/%d", ex.ID), nil, token)
	require.Equal(t, 200, resp.StatusCode)

	var questions int64
	require.NoError(t, db.Model(&models.Question{}).Where("exercise_id = ?", ex.ID).Count(&questions).Error)
	assert.EqualValues(t, 0, questions)
}

func TestGetAttemptStatusEndpoint(t *testing.T) {
	app, db := newTestApp(t)
	token, _ := registerUser(t, app, "alice")

	ex := &models.Exercise{Title: "Ranked", Text: "text", WordCount: 1, IsPublic: true, IsRanked: true}
	require.NoError(t, db.Create(ex).Error)

	resp := doJSON(t, app, "GET", fmt.Sprintf("/api/exercises/%d/attempt-status", ex.ID), nil, token)
	require.Equal(t, 200, resp.StatusCode)

	var out struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "rankable", out.Status)
}
