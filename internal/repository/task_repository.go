package repository

import (
	"context"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// ListByProject lists a project's tasks, most recent first
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByProjects lists the tasks of several projects grouped by project ID
func (r *GormTaskRepository) ListByProjects(ctx context.Context, projectIDs []string) (map[string][]models.Task, error) {
	grouped := make(map[string][]models.Task, len(projectIDs))
	if len(projectIDs) == 0 {
		return grouped, nil
	}

	var tasks []models.Task
	if err := r.db.WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	for _, task := range tasks {
		grouped[task.ProjectID] = append(grouped[task.ProjectID], task)
	}
	return grouped, nil
}

// ToggleCompleted flips the completion flag with a single UPDATE and reads the
// row back in the same transaction
func (r *GormTaskRepository) ToggleCompleted(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("id = ?", id).
			Update("completed", gorm.Expr("NOT completed"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", id).First(&task).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// Delete removes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{}).Error
}
