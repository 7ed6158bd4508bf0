package handlers

import (
	"net/http"
	"testing"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/cache"
	"task-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func usersRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/users", GetUsers)
	r.POST("/users", CreateUser)
	r.POST("/login", Login)
	r.GET("/projects", GetProjects)
	r.POST("/projects", CreateProject)
	return r
}

func TestCreateUser_HashesPassword(t *testing.T) {
	s := newSeeded(t)
	r := usersRouter()

	w := doJSON(r, http.MethodPost, "/users", map[string]any{"username": "dave", "password": "hunter2"})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeObject(t, w)
	require.Equal(t, "dave", body["username"])
	require.NotContains(t, body, "password")

	var stored models.User
	require.NoError(t, s.db.Where("username = ?", "dave").First(&stored).Error)
	require.NotEqual(t, "hunter2", stored.Password)
	require.True(t, auth.CheckPassword(stored.Password, "hunter2"))
}

func TestCreateUser_Validation(t *testing.T) {
	newSeeded(t)
	r := usersRouter()

	w := doJSON(r, http.MethodPost, "/users", map[string]any{"username": "dave"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// alice is already seeded
	w = doJSON(r, http.MethodPost, "/users", map[string]any{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"message":"Failed to create user"}`, w.Body.String())
}

func TestGetUsers(t *testing.T) {
	newSeeded(t)
	r := usersRouter()

	w := doJSON(r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decodeList(t, w)
	require.Len(t, users, 3)
	require.Equal(t, float64(1), users[0]["userId"])
	require.NotContains(t, users[0], "password")
}

func TestLogin(t *testing.T) {
	s := newSeeded(t)
	hash, err := auth.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, s.db.Model(&s.bob).Update("password", hash).Error)
	r := usersRouter()

	w := doJSON(r, http.MethodPost, "/login", map[string]any{"username": "bob", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeObject(t, w)
	require.Equal(t, float64(s.bob.ID), body["userId"])

	claims, err := auth.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, s.bob.ID, claims.UserID)

	w = doJSON(r, http.MethodPost, "/login", map[string]any{"username": "bob", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/login", map[string]any{"username": "ghost", "password": "pw"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/login", map[string]any{"username": "bob"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_CreateAndList(t *testing.T) {
	newSeeded(t)
	r := usersRouter()

	w := doJSON(r, http.MethodPost, "/projects", map[string]any{
		"name": "Gemini", "description": "second", "startDate": "2025-02-01", "endDate": "1 Mar 2025",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "Gemini", decodeObject(t, w)["name"])

	w = doJSON(r, http.MethodPost, "/projects", map[string]any{"name": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/projects", map[string]any{"name": "x", "endDate": "soon"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeList(t, w), 2)
}

func TestLogin_LocksOutAfterRepeatedFailures(t *testing.T) {
	newSeeded(t)
	prev := loginLimiter
	loginLimiter = cache.NewAttemptLimiter(2, time.Minute)
	t.Cleanup(func() { loginLimiter = prev })
	r := usersRouter()

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/login", map[string]any{"username": "alice", "password": "bad"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := doJSON(r, http.MethodPost, "/login", map[string]any{"username": "alice", "password": "bad"})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}
