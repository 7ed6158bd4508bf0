package store

import (
	"context"
	"errors"
	"fmt"

	"task-tracker-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTaskNotFound is returned by Update when no task has the given id.
var ErrTaskNotFound = errors.New("task not found")

// TaskFilter narrows FindMany. Zero fields are ignored.
type TaskFilter struct {
	ProjectID uint
	// UserID matches tasks the user authored or is assigned to.
	UserID uint
}

// TaskStore is the persistence boundary the task handlers depend on.
type TaskStore interface {
	FindMany(ctx context.Context, filter TaskFilter, include ...string) ([]models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	Update(ctx context.Context, id uint, fields map[string]any) (*models.Task, error)
}

// GormTaskStore implements TaskStore on top of gorm.
type GormTaskStore struct {
	db *gorm.DB
}

func NewGormTaskStore(db *gorm.DB) *GormTaskStore {
	return &GormTaskStore{db: db}
}

// FindMany returns tasks matching filter with the requested relations preloaded.
// Order is whatever the database returns.
func (s *GormTaskStore) FindMany(ctx context.Context, filter TaskFilter, include ...string) ([]models.Task, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{})
	if filter.ProjectID != 0 {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.UserID != 0 {
		query = query.Where("author_user_id = ? OR assigned_user_id = ?", filter.UserID, filter.UserID)
	}
	for _, rel := range include {
		query = query.Preload(rel)
	}

	tasks := make([]models.Task, 0)
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	return tasks, nil
}

// Create inserts exactly one task row; related rows are never written.
func (s *GormTaskStore) Create(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// Update writes the given columns of one task and returns the stored row.
func (s *GormTaskStore) Update(ctx context.Context, id uint, fields map[string]any) (*models.Task, error) {
	db := s.db.WithContext(ctx)

	result := db.Model(&models.Task{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("update task %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("update task %d: %w", id, ErrTaskNotFound)
	}

	var task models.Task
	if err := db.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reload task %d: %w", id, ErrTaskNotFound)
		}
		return nil, fmt.Errorf("reload task %d: %w", id, err)
	}
	return &task, nil
}

var _ TaskStore = (*GormTaskStore)(nil)
