package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

// ProposalHandler coordinates proposal-related HTTP handlers.
type ProposalHandler struct {
	proposalService *services.ProposalService
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// draftRequest carries the auto-saved proposal form. The client posts it
// every few seconds while the freelancer types.
type draftRequest struct {
	Title           string                 `json:"title"`
	OrganizationID  uint64                 `json:"organization_id" binding:"required"`
	ExecutionMethod models.ExecutionMethod `json:"execution_method" binding:"required"`
	TotalBid        float64                `json:"total_bid"`
	BudgetMin       float64                `json:"budget_min"`
	BudgetMax       float64                `json:"budget_max"`
	StartType       models.StartType       `json:"start_type"`
	CustomStartDate *time.Time             `json:"custom_start_date"`
	EndDate         *time.Time             `json:"end_date"`
	Rate            float64                `json:"rate"`
	MaxHoursPerDay  float64                `json:"max_hours_per_day"`
	Milestones      []models.Milestone     `json:"milestones"`
}

func (r draftRequest) toInput(id string) services.DraftInput {
	return services.DraftInput{
		ID:              id,
		Title:           r.Title,
		OrganizationID:  r.OrganizationID,
		ExecutionMethod: r.ExecutionMethod,
		TotalBid:        r.TotalBid,
		BudgetMin:       r.BudgetMin,
		BudgetMax:       r.BudgetMax,
		StartType:       r.StartType,
		CustomStartDate: r.CustomStartDate,
		EndDate:         r.EndDate,
		Rate:            r.Rate,
		MaxHoursPerDay:  r.MaxHoursPerDay,
		Milestones:      r.Milestones,
	}
}

// CreateDraft creates a new draft proposal from the form.
func (h *ProposalHandler) CreateDraft(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.SaveDraft(req.toInput(""), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.withBreakdown(proposal))
}

// SaveDraft overwrites an existing draft (auto-save upsert).
func (h *ProposalHandler) SaveDraft(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.SaveDraft(req.toInput(c.Param("id")), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withBreakdown(proposal))
}

// AddMilestone appends a milestone to a draft. Every milestone amount is
// re-split evenly afterwards.
func (h *ProposalHandler) AddMilestone(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type MilestoneRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		StartDate   *time.Time `json:"start_date"`
		EndDate     *time.Time `json:"end_date"`
	}

	var req MilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	proposal, err := h.proposalService.AddMilestone(c.Param("id"), userID, models.Milestone{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withBreakdown(proposal))
}

// RemoveMilestone deletes a milestone from a draft and re-splits the
// remaining amounts.
func (h *ProposalHandler) RemoveMilestone(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposal, err := h.proposalService.RemoveMilestone(c.Param("id"), c.Param("milestoneId"), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withBreakdown(proposal))
}

// ListProposals lists the current user's proposals.
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposals, err := h.proposalService.ListProposals(userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	total := len(proposals)
	proposals = utils.Paginate(proposals, params)

	c.JSON(http.StatusOK, gin.H{
		"proposals": proposals,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int64(total),
		},
	})
}

// GetProposal returns a proposal with its computed payment breakdown.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposal, err := h.proposalService.GetProposal(c.Param("id"), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withBreakdown(proposal))
}

// SendProposal submits a draft. Milestone-based proposals whose amounts
// do not sum to the total bid are blocked with the exact delta.
func (h *ProposalHandler) SendProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposal, err := h.proposalService.Send(c.Param("id"), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withBreakdown(proposal))
}

// AcceptProposal accepts a sent proposal. Completion-based proposals get
// the upfront commitment invoice generated immediately.
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposal, invoice, err := h.proposalService.Accept(c.Param("id"), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	resp := gin.H{"proposal": proposal}
	if invoice != nil {
		resp["upfront_invoice"] = invoice
	}
	c.JSON(http.StatusOK, resp)
}

// RejectProposal rejects a sent proposal.
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	proposal, err := h.proposalService.Reject(c.Param("id"), userID)
	if err != nil {
		respondProposalError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withBreakdown(proposal))
}

func (h *ProposalHandler) withBreakdown(proposal *models.Proposal) dto.ProposalDetailDTO {
	return dto.ToProposalDetailDTO(*proposal, h.proposalService.ComputeBreakdown(proposal))
}

func respondProposalError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrExecutionMethodMissing):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrMilestoneMismatch):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrProposalNotFound),
		errors.Is(err, services.ErrMilestoneNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrProposalNotDraft),
		errors.Is(err, services.ErrProposalNotSent):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotProposalOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNotOrganizationMember):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
