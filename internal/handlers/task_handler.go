package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"task-tracker-api/internal/logger"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/models"
	"task-tracker-api/internal/realtime"
	"task-tracker-api/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgInvalidProjectID   = "Valid projectId query parameter is required"
	msgGetTasksFailed     = "Failed to retrieve tasks"
	msgCreateRequired     = "title, projectId, and authorUserId are required"
	msgCreateFailed       = "Failed to create task"
	msgInvalidStatusInput = "Valid taskId and status are required"
	msgUpdateFailed       = "Failed to update task status"
	msgInvalidUserID      = "Valid userId is required"
	msgUserTasksFailed    = "Failed to retrieve user tasks"
)

// FlexibleID accepts a JSON number or a numeric string. Present records whether the
// field appeared with a non-null value at all.
type FlexibleID struct {
	Value   int64
	Present bool
	Valid   bool
}

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = FlexibleID{}
		return nil
	}
	f.Present = true

	var raw string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		f.Value, f.Valid = 0, true
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	f.Value, f.Valid = v, err == nil
	return nil
}

// blank reports whether the field is absent, null, 0 or "", all of which mean "not set".
func (f FlexibleID) blank() bool {
	return !f.Present || (f.Valid && f.Value == 0)
}

// positive returns the id when the field holds a usable identifier.
func (f FlexibleID) positive() (uint, bool) {
	if !f.Present || !f.Valid || f.Value <= 0 {
		return 0, false
	}
	return uint(f.Value), true
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title          string               `json:"title"`
	Description    *string              `json:"description"`
	Status         *models.TaskStatus   `json:"status"`
	Priority       *models.TaskPriority `json:"priority"`
	Tags           *string              `json:"tags"`
	StartDate      *string              `json:"startDate"`
	DueDate        *string              `json:"dueDate"`
	Points         *int                 `json:"points"`
	ProjectID      FlexibleID           `json:"projectId"`
	AuthorUserID   FlexibleID           `json:"authorUserId"`
	AssignedUserID FlexibleID           `json:"assignedUserId"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status"`
}

// TaskHandler serves the task endpoints. It keeps no state between requests.
type TaskHandler struct {
	store store.TaskStore
	hub   *realtime.Hub
	log   logrus.FieldLogger
}

// NewTaskHandler wires the handler to its store. hub may be nil to disable events.
func NewTaskHandler(s store.TaskStore, hub *realtime.Hub, log logrus.FieldLogger) *TaskHandler {
	if log == nil {
		log = logger.Logger
	}
	return &TaskHandler{store: s, hub: hub, log: log}
}

func parseDateFlexible(dateStr string) (time.Time, bool) {
	if dateStr == "" {
		return time.Time{}, false
	}
	layouts := []string{
		time.RFC3339,  // full RFC3339
		"2006-01-02",  // ISO date
		"2 Jan 2006",  // e.g., 30 Oct 2025
		"02 Jan 2006", // zero-padded day
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// optionalDate parses an optional date field; nil and "" mean absent.
func optionalDate(s *string) (*time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	t, ok := parseDateFlexible(strings.TrimSpace(*s))
	if !ok {
		return nil, false
	}
	return &t, true
}

func parsePositiveID(raw string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func (h *TaskHandler) logFor(c *gin.Context) logrus.FieldLogger {
	return logger.WithRequestID(h.log, middleware.GetRequestID(c))
}

/*
*
GetTasks handles GET /tasks?projectId=
Returns every task of the project with author, assignee, comments and attachments.
*/
func (h *TaskHandler) GetTasks(c *gin.Context) {
	projectID, ok := parsePositiveID(c.Query("projectId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidProjectID})
		return
	}

	tasks, err := h.store.FindMany(c.Request.Context(), store.TaskFilter{ProjectID: projectID},
		models.RelationAuthor, models.RelationAssignee, models.RelationComments, models.RelationAttachments)
	if err != nil {
		h.logFor(c).WithError(err).WithField("project_id", projectID).Error("getTasks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgGetTasksFailed})
		return
	}

	c.JSON(http.StatusOK, toProjectTasks(tasks))
}

/*
*
CreateTask handles POST /tasks
Persists exactly one task row.
*/
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgCreateRequired})
		return
	}

	projectID, okProject := req.ProjectID.positive()
	authorID, okAuthor := req.AuthorUserID.positive()
	if req.Title == "" || !okProject || !okAuthor {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgCreateRequired})
		return
	}

	startDate, okStart := optionalDate(req.StartDate)
	dueDate, okDue := optionalDate(req.DueDate)
	if !okStart || !okDue {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgCreateRequired})
		return
	}

	task := models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		Tags:         req.Tags,
		StartDate:    startDate,
		DueDate:      dueDate,
		Points:       req.Points,
		ProjectID:    projectID,
		AuthorUserID: authorID,
	}
	// Coerce if set, otherwise store NULL. A set but unusable id never reaches the store.
	if !req.AssignedUserID.blank() {
		assignee, ok := req.AssignedUserID.positive()
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgCreateRequired})
			return
		}
		task.AssignedUserID = &assignee
	}

	if err := h.store.Create(c.Request.Context(), &task); err != nil {
		h.logFor(c).WithError(err).WithFields(logrus.Fields{
			"project_id":     projectID,
			"author_user_id": authorID,
		}).Error("createTask failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgCreateFailed})
		return
	}

	h.publish(c, realtime.EventTaskCreated, &task)
	c.JSON(http.StatusCreated, task)
}

// UpdateTaskStatus handles PATCH /tasks/:taskId
// Only the status column is written. A missing task is reported as a 500 like any other
// storage failure; the log line still tells the two apart.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	taskID, okID := parsePositiveID(c.Param("taskId"))

	var req UpdateTaskStatusRequest
	bindErr := c.ShouldBindJSON(&req)
	if !okID || bindErr != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidStatusInput})
		return
	}

	task, err := h.store.Update(c.Request.Context(), taskID, map[string]any{"status": req.Status})
	if err != nil {
		entry := h.logFor(c).WithError(err).WithField("task_id", taskID)
		if errors.Is(err, store.ErrTaskNotFound) {
			entry = entry.WithField("not_found", true)
		}
		entry.Error("updateTaskStatus failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgUpdateFailed})
		return
	}

	h.publish(c, realtime.EventTaskStatusChanged, task)
	c.JSON(http.StatusOK, task)
}

// GetUserTasks handles GET /users/:userId/tasks
// Returns tasks the user authored or is assigned to, with author and assignee only.
func (h *TaskHandler) GetUserTasks(c *gin.Context) {
	userID, ok := parsePositiveID(c.Param("userId"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidUserID})
		return
	}

	tasks, err := h.store.FindMany(c.Request.Context(), store.TaskFilter{UserID: userID},
		models.RelationAuthor, models.RelationAssignee)
	if err != nil {
		h.logFor(c).WithError(err).WithField("user_id", userID).Error("getUserTasks failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgUserTasksFailed})
		return
	}

	c.JSON(http.StatusOK, toUserTasks(tasks))
}

func (h *TaskHandler) publish(c *gin.Context, eventType string, task *models.Task) {
	if h.hub == nil {
		return
	}
	evt := realtime.TaskEvent{
		Type:      eventType,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
		Version:   1,
	}
	if task.Status != nil {
		s := string(*task.Status)
		evt.Status = &s
	}
	recipients := []uint{task.AuthorUserID}
	if task.AssignedUserID != nil {
		recipients = append(recipients, *task.AssignedUserID)
	}
	if err := h.hub.Publish(evt, recipients...); err != nil {
		h.logFor(c).WithError(err).Warn("task event not published")
	}
}
