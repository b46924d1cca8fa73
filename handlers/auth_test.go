package handlers

import (
	"testing"

	"readsprint/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app, db := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "password123",
	}, "")
	require.Equal(t, 201, resp.StatusCode)

	var auth AuthResponse
	decodeBody(t, resp, &auth)
	assert.True(t, auth.Success)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "alice", auth.User.Username)
	assert.Equal(t, 350, auth.User.MaxWpmLimit)

	// Password is stored hashed.
	var user models.User
	require.NoError(t, db.First(&user, auth.User.ID).Error)
	assert.NotEqual(t, "password123", user.Password)

	resp = doJSON(t, app, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "password123",
	}, "")
	require.Equal(t, 200, resp.StatusCode)

	decodeBody(t, resp, &auth)
	assert.True(t, auth.Success)
	assert.NotEmpty(t, auth.Token)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := newTestApp(t)

	// Short password.
	resp := doJSON(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "bob",
		"password": "short",
	}, "")
	assert.Equal(t, 400, resp.StatusCode)

	// Duplicate username.
	registerUser(t, app, "carol")
	resp = doJSON(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "carol",
		"password": "password123",
	}, "")
	assert.Equal(t, 409, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	app, _ := newTestApp(t)
	registerUser(t, app, "alice")

	resp := doJSON(t, app, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "password123",
	}, "")
	assert.Equal(t, 401, resp.StatusCode)
}

func TestGuestLogin(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "POST", "/api/auth/guest", nil, "")
	require.Equal(t, 200, resp.StatusCode)

	var auth AuthResponse
	decodeBody(t, resp, &auth)
	assert.True(t, auth.Success)
	assert.True(t, auth.User.IsGuest)
	assert.NotEmpty(t, auth.Token)
	assert.Contains(t, auth.User.Username, "Guest_")

	// The guest token works against protected routes.
	resp = doJSON(t, app, "GET", "/api/user/status", nil, auth.Token)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestProtectedRouteRequiresToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, "GET", "/api/user/status", nil, "")
	assert.Equal(t, 401, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/user/status", nil, "not-a-jwt")
	assert.Equal(t, 401, resp.StatusCode)
}
