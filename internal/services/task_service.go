package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/progress"
	"github.com/DevNiNi18/flowtrack/internal/repository"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/google/uuid"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	aiService   *AIService
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		aiService:   aiService,
		now:         time.Now,
	}
}

// Create validates the task form and adds a new, incomplete task to the project
func (s *TaskService) Create(ctx context.Context, projectID string, values validation.Values) (*models.Task, error) {
	form, err := validation.Task(values)
	if err != nil {
		return nil, err
	}

	if _, err := s.projectRepo.FindByID(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, backendError("find project", err)
	}

	now := s.now()
	task := &models.Task{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		Title:     form.Title,
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, backendError("create task", err)
	}

	return task, nil
}

// List returns the project's tasks, most recent first
func (s *TaskService) List(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, backendError("list tasks", err)
	}
	return tasks, nil
}

// ListWithProgress returns the project's tasks and the progress they add up to
func (s *TaskService) ListWithProgress(ctx context.Context, projectID string) ([]models.Task, progress.Summary, error) {
	tasks, err := s.List(ctx, projectID)
	if err != nil {
		return nil, progress.Summary{}, err
	}
	return tasks, progress.Compute(tasks), nil
}

// Progress recomputes the project's progress from its stored tasks
func (s *TaskService) Progress(ctx context.Context, projectID string) (progress.Summary, error) {
	_, summary, err := s.ListWithProgress(ctx, projectID)
	return summary, err
}

// Toggle flips the completion flag of a task
func (s *TaskService) Toggle(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.ToggleCompleted(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, backendError("toggle task", err)
	}
	return task, nil
}

// Delete removes a task. Missing tasks are ignored.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return backendError("delete task", err)
	}
	return nil
}

// GetOwned returns a task whose project belongs to ownerID
func (s *TaskService) GetOwned(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	task, err := s.find(ctx, taskID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, backendError("find project", err)
	}

	if project.OwnerID != ownerID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// Suggest uses AI to propose tasks for a project from free text
func (s *TaskService) Suggest(ctx context.Context, project models.Project, text string) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrSuggestionTextRequired
	}
	text = truncateUTF8(text, constants.MaxSuggestionText)

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, project.Title, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}

	return validTasks, nil
}

func (s *TaskService) find(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, backendError("find task", err)
	}
	return task, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
