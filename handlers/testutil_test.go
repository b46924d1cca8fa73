package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"readsprint/database"
	"readsprint/middleware"
	"readsprint/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter uint64

// newTestApp wires a fiber app with the API routes against a fresh in-memory
// database. The database package's singleton is swapped so handlers see the
// test database.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	id := atomic.AddUint64(&testDBCounter, 1)
	dsn := fmt.Sprintf("file:handlerdb_%d?mode=memory&cache=shared", id)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Exercise{},
		&models.Question{},
		&models.Attempt{},
		&models.DailyChallenge{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.Notification{},
		&models.Friendship{},
	)
	require.NoError(t, err)
	database.SeedAchievements(db)
	database.SetDB(db)

	app := fiber.New()
	api := app.Group("/api")

	api.Post("/auth/register", Register)
	api.Post("/auth/login", Login)
	api.Post("/auth/guest", GuestLogin)

	exercises := api.Group("/exercises", middleware.AuthMiddleware)
	exercises.Get("/", GetExercises)
	exercises.Post("/", CreateExercise)
	exercises.Get("/:id", GetExercise)
	exercises.Put("/:id", UpdateExercise)
	exercises.Delete("/:id", DeleteExercise)
	exercises.Get("/:id/attempt-status", GetAttemptStatus)

	api.Post("/submit-progress", middleware.AuthMiddleware, SubmitProgress)
	api.Get("/challenge/today", middleware.AuthMiddleware, GetTodayChallenge)

	ranking := api.Group("/ranking", middleware.AuthMiddleware)
	ranking.Get("/leaderboard", GetLeaderboard)
	ranking.Get("/my-stats", GetMyStats)

	user := api.Group("/user", middleware.AuthMiddleware)
	user.Get("/status", GetUserStatus)
	user.Get("/settings", GetSettings)
	user.Put("/settings", UpdateSettings)
	user.Get("/achievements", GetAchievements)

	social := api.Group("/social", middleware.AuthMiddleware)
	social.Post("/follow/:id", FollowUser)
	social.Delete("/follow/:id", UnfollowUser)
	social.Get("/following", GetFollowing)

	notifications := api.Group("/notifications", middleware.AuthMiddleware)
	notifications.Get("/", GetNotifications)
	notifications.Post("/read", MarkNotificationsRead)

	return app, db
}

// registerUser creates an account through the API and returns its token and id.
func registerUser(t *testing.T, app *fiber.App, username string) (string, uint) {
	t.Helper()

	body := map[string]string{"username": username, "password": "password123"}
	resp := doJSON(t, app, "POST", "/api/auth/register", body, "")
	require.Equal(t, 201, resp.StatusCode)

	var auth AuthResponse
	decodeBody(t, resp, &auth)
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.User.ID
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
