package services

import (
	"context"
	"errors"
	"time"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/progress"
	"github.com/DevNiNi18/flowtrack/internal/repository"
	"github.com/DevNiNi18/flowtrack/internal/utils"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/google/uuid"
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	now         func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		now:         time.Now,
	}
}

// ProjectWithProgress is a project together with progress derived from its
// current tasks.
type ProjectWithProgress struct {
	models.Project
	Progress progress.Summary
}

// Create validates the project form and stores a new project for ownerID
func (s *ProjectService) Create(ctx context.Context, ownerID string, values validation.Values) (*ProjectWithProgress, error) {
	form, err := validation.Project(values)
	if err != nil {
		return nil, err
	}

	now := s.now()
	project := &models.Project{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     form.Title,
		DueDate:   form.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, backendError("create project", err)
	}

	return &ProjectWithProgress{
		Project:  *project,
		Progress: progress.Compute(nil),
	}, nil
}

// List returns the owner's projects, most recent first, with progress
func (s *ProjectService) List(ctx context.Context, ownerID string, page *utils.PaginationParams) ([]ProjectWithProgress, int64, error) {
	projects, total, err := s.projectRepo.ListByOwner(ctx, repository.ProjectFilter{
		OwnerID:    ownerID,
		Pagination: page,
	})
	if err != nil {
		return nil, 0, backendError("list projects", err)
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	tasksByProject, err := s.taskRepo.ListByProjects(ctx, ids)
	if err != nil {
		return nil, 0, backendError("list tasks", err)
	}

	result := make([]ProjectWithProgress, len(projects))
	for i, p := range projects {
		result[i] = ProjectWithProgress{
			Project:  p,
			Progress: progress.Compute(tasksByProject[p.ID]),
		}
	}

	return result, total, nil
}

// Get returns one of the owner's projects with progress
func (s *ProjectService) Get(ctx context.Context, ownerID, id string) (*ProjectWithProgress, error) {
	project, err := s.GetOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, backendError("list tasks", err)
	}

	return &ProjectWithProgress{
		Project:  *project,
		Progress: progress.Compute(tasks),
	}, nil
}

// Delete removes the project and its tasks. Missing projects are ignored.
func (s *ProjectService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.projectRepo.Delete(ctx, ownerID, id); err != nil {
		return backendError("delete project", err)
	}
	return nil
}

// GetOwned returns the project without progress. Projects owned by someone
// else are reported as ErrProjectNotFound.
func (s *ProjectService) GetOwned(ctx context.Context, ownerID, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, backendError("find project", err)
	}

	if project.OwnerID != ownerID {
		return nil, ErrProjectNotFound
	}

	return project, nil
}
