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

// RequireProjectAccess loads the project named by the :id parameter and
// checks that the current user owns it
func RequireProjectAccess(projectService *services.ProjectService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		project, err := projectService.GetOwned(c.Request.Context(), userID, c.Param("id"))
		if err != nil {
			// Projects of other users are reported as missing to avoid leaking their existence
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, err.Error())
				return
			}
			log.Error().Err(err).Str("project_id", c.Param("id")).Msg("failed to load project")
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Next()
	}
}

// GetProject retrieves the project stored by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
