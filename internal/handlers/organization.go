package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

// OrganizationHandler coordinates organization-related HTTP handlers.
type OrganizationHandler struct {
	orgService *services.OrganizationService
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// CreateOrganization creates an organization owned by the current user.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateOrganizationRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.CreateOrganization(req.Name, userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org, true))
}

// ListOrganizations lists the organizations the current user belongs to.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgs, err := h.orgService.ListOrganizations(userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	total := len(orgs)
	orgs = utils.Paginate(orgs, params)

	dtos := make([]dto.OrganizationDTO, len(orgs))
	for i, org := range orgs {
		dtos[i] = dto.ToOrganizationDTO(org, true)
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": dtos,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int64(total),
		},
	})
}

// GetOrganization returns one organization the current user belongs to.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid organization ID")
		return
	}

	org, err := h.orgService.GetOrganization(orgID, userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, true))
}

// JoinOrganization adds the current user to an organization via invite
// code.
func (h *OrganizationHandler) JoinOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	org, err := h.orgService.JoinOrganization(req.InviteCode, userID)
	if err != nil {
		respondOrganizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationDTO(*org, false))
}

func respondOrganizationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrganizationNameEmpty):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
