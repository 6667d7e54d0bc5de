package handlers

import (
	"errors"
	"net/http"

	"github.com/DevNiNi18/flowtrack/internal/dto"
	apierrors "github.com/DevNiNi18/flowtrack/internal/errors"
	"github.com/DevNiNi18/flowtrack/internal/middleware"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/DevNiNi18/flowtrack/internal/utils"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProjectHandler serves the project dashboard.
type ProjectHandler struct {
	projectService *services.ProjectService
	log            zerolog.Logger
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		log:            log,
	}
}

// ListProjects returns the current user's projects, most recent first
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	page := utils.OptionalPaginationParams(c)
	projects, total, err := h.projectService.List(c.Request.Context(), userID, page)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectListResponse(projects, page, total))
}

// CreateProject creates a new project owned by the current user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateProjectRequest struct {
		ProjectTitle string `json:"projectTitle"`
		DueDate      string `json:"dueDate"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, validation.Values{
		validation.FieldProjectTitle: req.ProjectTitle,
		validation.FieldDueDate:      req.DueDate,
	})
	middleware.RecordMutation("project", "create", err == nil)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns one project with its progress
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject deletes a project and its tasks. Deleting a project that is
// already gone succeeds.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	err := h.projectService.Delete(c.Request.Context(), userID, c.Param("id"))
	middleware.RecordMutation("project", "delete", err == nil)
	if err != nil {
		respondStoreError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}

// respondStoreError maps project and task store errors to responses
func respondStoreError(c *gin.Context, log zerolog.Logger, err error) {
	var verr *validation.Error
	var berr *services.BackendError

	switch {
	case errors.As(err, &verr):
		apierrors.ValidationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.As(err, &berr):
		log.Error().Err(berr.Err).Str("op", berr.Op).Msg("store operation failed")
		apierrors.InternalError(c, "Failed to "+berr.Op)
	default:
		log.Error().Err(err).Msg("unexpected store error")
		apierrors.InternalError(c, "")
	}
}
