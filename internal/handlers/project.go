package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/poller"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

// ProjectHandler coordinates project-related HTTP handlers.
type ProjectHandler struct {
	projectService *services.ProjectService
	coordinator    *poller.Coordinator
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService *services.ProjectService, coordinator *poller.Coordinator) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		coordinator:    coordinator,
	}
}

// CreateProject creates an ongoing project in one of the user's
// organizations.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateProjectRequest struct {
		Title          string   `json:"title" binding:"required"`
		OrganizationID uint64   `json:"organization_id" binding:"required"`
		FreelancerID   uint64   `json:"freelancer_id" binding:"required"`
		TypeTags       []string `json:"type_tags"`
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(services.CreateProjectInput{
		Title:          req.Title,
		OrganizationID: req.OrganizationID,
		CommissionerID: userID,
		FreelancerID:   req.FreelancerID,
		TypeTags:       req.TypeTags,
	})
	if err != nil {
		respondProjectError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// ListProjects lists the projects in the user's organizations.
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	total := len(projects)
	projects = utils.Paginate(projects, params)

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int64(total),
		},
	})
}

// GetProject returns the project loaded by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	c.JSON(http.StatusOK, project)
}

// PauseProject pauses an ongoing project. Its tasks leave the today
// queue on the next refresh but stay visible in upcoming.
func (h *ProjectHandler) PauseProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.projectService.Pause(c.Param("id"), userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, project)
}

// ResumeProject returns a paused project to the ongoing state.
func (h *ProjectHandler) ResumeProject(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, err := h.projectService.Resume(c.Param("id"), userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) refresh() {
	if h.coordinator != nil {
		h.coordinator.RefreshAll()
	}
}

func respondProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrProjectTitleEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProjectNotOngoing),
		errors.Is(err, services.ErrProjectNotPaused):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotProjectCommissioner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
