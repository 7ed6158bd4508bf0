package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-tracker-api/internal/database"
	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/store"
	"task-tracker-api/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStore records calls and returns canned results.
type stubStore struct {
	calls   int
	err     error
	tasks   []models.Task
	updated *models.Task
}

func (s *stubStore) FindMany(context.Context, store.TaskFilter, ...string) ([]models.Task, error) {
	s.calls++
	return s.tasks, s.err
}

func (s *stubStore) Create(_ context.Context, task *models.Task) error {
	s.calls++
	if s.err == nil {
		task.ID = 1
	}
	return s.err
}

func (s *stubStore) Update(context.Context, uint, map[string]any) (*models.Task, error) {
	s.calls++
	return s.updated, s.err
}

type recordingClient struct {
	messages [][]byte
}

func (r *recordingClient) Send(message []byte) bool {
	r.messages = append(r.messages, message)
	return true
}

func (r *recordingClient) Close() {}

func quietLogger() *logrus.Logger {
	return logger.New(io.Discard, "test", "error")
}

func taskRouter(h *TaskHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/tasks", h.GetTasks)
	r.POST("/tasks", h.CreateTask)
	r.PATCH("/tasks/:taskId", h.UpdateTaskStatus)
	r.GET("/users/:userId/tasks", h.GetUserTasks)
	return r
}

type seeded struct {
	db      *gorm.DB
	router  *gin.Engine
	hub     *realtime.Hub
	project models.Project
	alice   models.User // id 1
	bob     models.User // id 2
	carol   models.User // id 3
}

// newSeeded opens an in-memory database with one project and three users.
func newSeeded(t *testing.T) *seeded {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	database.DB = db

	s := &seeded{
		db:      db,
		hub:     realtime.NewHub(),
		project: models.Project{Name: "Apollo"},
		alice:   models.User{Username: "alice", Password: "x"},
		bob:     models.User{Username: "bob", Password: "x"},
		carol:   models.User{Username: "carol", Password: "x"},
	}
	for _, v := range []any{&s.project, &s.alice, &s.bob, &s.carol} {
		require.NoError(t, db.Create(v).Error)
	}
	s.router = taskRouter(NewTaskHandler(store.NewGormTaskStore(db), s.hub, quietLogger()))
	return s
}

func (s *seeded) taskCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(&models.Task{}).Count(&n).Error)
	return n
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
