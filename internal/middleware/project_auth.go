package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
)

// RequireProjectAccess loads the project from the :id parameter and
// verifies the user belongs to its organization. The project is stored
// in the gin context for the handler.
func RequireProjectAccess(projectService *services.ProjectService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		project, err := projectService.GetProject(c.Param("id"), userID)
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				// 404 instead of 403 to avoid leaking project existence
				apierrors.NotFound(c, "Project not found")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set("project", *project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProjectAccess
func GetProject(c *gin.Context) (models.Project, bool) {
	projectInterface, exists := c.Get("project")
	if !exists {
		return models.Project{}, false
	}
	project, ok := projectInterface.(models.Project)
	return project, ok
}
