package handlers

import (
	"errors"
	"net/http"

	"github.com/DevNiNi18/flowtrack/internal/dto"
	apierrors "github.com/DevNiNi18/flowtrack/internal/errors"
	"github.com/DevNiNi18/flowtrack/internal/middleware"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type TaskHandler struct {
	taskService *services.TaskService
	log         zerolog.Logger
}

func NewTaskHandler(taskService *services.TaskService, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks returns a project's tasks and its progress
// Project is already loaded by RequireProjectAccess middleware
func (h *TaskHandler) ListTasks(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	tasks, summary, err := h.taskService.ListWithProgress(c.Request.Context(), project.ID)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, summary))
}

// CreateTask adds a task to the project and returns the new progress
func (h *TaskHandler) CreateTask(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateTaskRequest struct {
		TaskTitle string `json:"taskTitle"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), project.ID, validation.Values{
		validation.FieldTaskTitle: req.TaskTitle,
	})
	middleware.RecordMutation("task", "create", err == nil)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	summary, err := h.taskService.Progress(c.Request.Context(), project.ID)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TaskMutationResponse{
		Task:     dto.ToTaskDTO(*task),
		Progress: summary,
	})
}

// ToggleTask flips a task's completion and returns the new progress
// Task is already loaded by RequireTaskAccess middleware
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	current, ok := middleware.GetTask(c)
	if !ok {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	task, err := h.taskService.Toggle(c.Request.Context(), current.ID)
	middleware.RecordMutation("task", "toggle", err == nil)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	summary, err := h.taskService.Progress(c.Request.Context(), task.ProjectID)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskMutationResponse{
		Task:     dto.ToTaskDTO(*task),
		Progress: summary,
	})
}

// DeleteTask deletes a task. Deleting a task that is already gone, or that
// the user cannot see, changes nothing and succeeds.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.GetOwned(c.Request.Context(), userID, c.Param("id"))
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
		return
	case err != nil:
		respondStoreError(c, h.log, err)
		return
	}

	err = h.taskService.Delete(c.Request.Context(), task.ID)
	middleware.RecordMutation("task", "delete", err == nil)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// SuggestTasks proposes tasks for the project from free text using AI.
// Suggestions are returned to the client and not stored.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type SuggestTasksRequest struct {
		Text string `json:"text"`
	}

	var req SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	suggestions, err := h.taskService.Suggest(c.Request.Context(), project, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAIServiceNotConfigured):
			apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		case errors.Is(err, services.ErrSuggestionTextRequired):
			apierrors.ValidationFailed(c, map[string]string{"text": "Field is required"})
		case errors.Is(err, services.ErrAINoTasksGenerated),
			errors.Is(err, services.ErrAINoValidTasks):
			c.JSON(http.StatusOK, dto.SuggestionListResponse{Suggestions: []services.GeneratedTask{}})
		default:
			h.log.Error().Err(err).Str("project_id", project.ID).Msg("task suggestion failed")
			apierrors.BadGateway(c, "Failed to generate tasks")
		}
		return
	}

	c.JSON(http.StatusOK, dto.SuggestionListResponse{Suggestions: suggestions})
}
