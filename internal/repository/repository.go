package repository

import (
	"context"
	"errors"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/utils"
)

var (
	// ErrNotFound is returned when a lookup by id or key matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create inserts a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// ListByOwner lists a user's projects, most recent first
	ListByOwner(ctx context.Context, filter ProjectFilter) ([]models.Project, int64, error)

	// Delete removes an owner's project and all of its tasks. Deleting a
	// missing project is not an error.
	Delete(ctx context.Context, ownerID, id string) error
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	OwnerID string
	// Pagination is optional; nil lists every project.
	Pagination *utils.PaginationParams
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// ListByProject lists a project's tasks, most recent first
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)

	// ListByProjects lists the tasks of several projects grouped by project ID
	ListByProjects(ctx context.Context, projectIDs []string) (map[string][]models.Task, error)

	// ToggleCompleted flips the completion flag of a task in place and returns
	// the updated task. Concurrent toggles never overwrite each other.
	ToggleCompleted(ctx context.Context, id string) (*models.Task, error)

	// Delete removes a task. Deleting a missing task is not an error.
	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
