package middleware

import (
	"errors"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	apierrors "github.com/DevNiNi18/flowtrack/internal/errors"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequireTaskAccess checks if the user has access to a task
// User must own the task's project
func RequireTaskAccess(taskService *services.TaskService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		task, err := taskService.GetOwned(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			// Return 404 instead of 403 to avoid leaking task existence
			if errors.Is(err, services.ErrTaskNotFound) {
				apierrors.NotFound(c, err.Error())
				return
			}
			log.Error().Err(err).Str("task_id", c.Param("id")).Msg("failed to load task")
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyTask, *task)
		c.Next()
	}
}

// GetTask retrieves the task stored by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
