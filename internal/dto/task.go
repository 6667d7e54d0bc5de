package dto

import (
	"time"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/progress"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/DevNiNi18/flowtrack/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProjectDTO represents a project card in API responses
type ProjectDTO struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	DueDate        string          `json:"dueDate"`
	CreatedAt      time.Time       `json:"createdAt"`
	Progress       int             `json:"progress"`
	Status         progress.Status `json:"status"`
	TotalTasks     int             `json:"totalTasks"`
	CompletedTasks int             `json:"completedTasks"`
}

// ProjectListResponse represents the project dashboard. Pagination is only
// present when the request asked for a page.
type ProjectListResponse struct {
	Projects   []ProjectDTO              `json:"projects"`
	Pagination *utils.PaginationResponse `json:"pagination,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskListResponse represents a project's task list with its progress
type TaskListResponse struct {
	Tasks    []TaskDTO        `json:"tasks"`
	Progress progress.Summary `json:"progress"`
}

// TaskMutationResponse represents a created or toggled task together with
// the recomputed progress of its project
type TaskMutationResponse struct {
	Task     TaskDTO          `json:"task"`
	Progress progress.Summary `json:"progress"`
}

// SuggestionListResponse represents unsaved task suggestions
type SuggestionListResponse struct {
	Suggestions []services.GeneratedTask `json:"suggestions"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToProjectDTO converts a project and its derived progress to ProjectDTO
func ToProjectDTO(p services.ProjectWithProgress) ProjectDTO {
	return ProjectDTO{
		ID:             p.ID,
		Title:          p.Title,
		DueDate:        p.DueDate.Format(constants.DateLayout),
		CreatedAt:      p.CreatedAt,
		Progress:       p.Progress.Percent,
		Status:         p.Progress.Status,
		TotalTasks:     p.Progress.Total,
		CompletedTasks: p.Progress.Completed,
	}
}

// ToProjectListResponse converts a page of projects to ProjectListResponse
func ToProjectListResponse(projects []services.ProjectWithProgress, page *utils.PaginationParams, total int64) ProjectListResponse {
	items := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		items[i] = ToProjectDTO(p)
	}

	resp := ProjectListResponse{Projects: items}
	if page != nil {
		resp.Pagination = &utils.PaginationResponse{
			Page:  page.Page,
			Limit: page.Limit,
			Total: total,
		}
	}
	return resp
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt,
	}
}

// ToTaskListResponse converts a project's tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, summary progress.Summary) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}

	return TaskListResponse{
		Tasks:    items,
		Progress: summary,
	}
}
