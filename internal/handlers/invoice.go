package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

// InvoiceHandler coordinates invoice-related HTTP handlers.
type InvoiceHandler struct {
	invoiceService *services.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// ListInvoices lists the invoices of the user's organizations.
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	invoices, err := h.invoiceService.ListInvoices(userID)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	params := utils.GetPaginationParams(c)
	total := len(invoices)
	invoices = utils.Paginate(invoices, params)

	c.JSON(http.StatusOK, gin.H{
		"invoices": invoices,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: int64(total),
		},
	})
}

// GenerateInvoice creates a milestone or completion invoice on an
// accepted proposal.
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type GenerateRequest struct {
		ProposalID  string             `json:"proposal_id" binding:"required"`
		Kind        models.InvoiceKind `json:"kind" binding:"required"`
		MilestoneID string             `json:"milestone_id"`
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invoice, err := h.invoiceService.Generate(services.GenerateInput{
		ProposalID:  req.ProposalID,
		Kind:        req.Kind,
		MilestoneID: req.MilestoneID,
		ActorID:     userID,
	})
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// PayInvoice settles an invoice as a member of the billed organization.
func (h *InvoiceHandler) PayInvoice(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	invoice, err := h.invoiceService.Pay(c.Param("id"), userID)
	if err != nil {
		respondInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, invoice)
}

func respondInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvoiceNotFound),
		errors.Is(err, services.ErrProposalNotFound),
		errors.Is(err, services.ErrMilestoneNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvoiceAlreadyPaid),
		errors.Is(err, services.ErrProposalNotAccepted):
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
