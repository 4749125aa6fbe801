package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/freelance-marketplace-api/internal/budget"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

var (
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrInvoiceAlreadyPaid = errors.New("invoice is already paid")
	ErrProposalNotAccepted = errors.New("proposal has not been accepted")
)

// InvoiceService generates and settles invoices derived from proposals.
type InvoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	proposalRepo repository.ProposalRepository
	orgService   *OrganizationService
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService. A nil clock falls back
// to time.Now.
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, proposalRepo repository.ProposalRepository, orgService *OrganizationService, now func() time.Time) *InvoiceService {
	if now == nil {
		now = time.Now
	}
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		proposalRepo: proposalRepo,
		orgService:   orgService,
		now:          now,
	}
}

// GenerateUpfront creates the 12% upfront commitment invoice for a
// completion-based proposal.
func (s *InvoiceService) GenerateUpfront(proposal *models.Proposal) (*models.Invoice, error) {
	breakdown := budget.ForCompletion(proposal.TotalBid)
	invoice := &models.Invoice{
		ID:             uuid.NewString(),
		ProposalID:     proposal.ID,
		OrganizationID: proposal.OrganizationID,
		Kind:           models.InvoiceKindUpfront,
		Amount:         breakdown.UpfrontAmount,
		Status:         models.InvoiceStatusSent,
		IssuedAt:       s.now(),
	}

	if err := s.invoiceRepo.Create(invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

// GenerateInput selects what to invoice on an accepted proposal.
type GenerateInput struct {
	ProposalID  string
	Kind        models.InvoiceKind
	MilestoneID string
	ActorID     uint64
}

// Generate creates a milestone or completion invoice for an accepted
// proposal.
func (s *InvoiceService) Generate(input GenerateInput) (*models.Invoice, error) {
	proposal, err := s.proposalRepo.FindByID(input.ProposalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}
	if proposal.Status != models.ProposalStatusAccepted {
		return nil, ErrProposalNotAccepted
	}
	if proposal.FreelancerID != input.ActorID {
		return nil, ErrNotProposalOwner
	}

	invoice := &models.Invoice{
		ID:             uuid.NewString(),
		ProposalID:     proposal.ID,
		OrganizationID: proposal.OrganizationID,
		Kind:           input.Kind,
		Status:         models.InvoiceStatusSent,
		IssuedAt:       s.now(),
	}

	switch input.Kind {
	case models.InvoiceKindMilestone:
		found := false
		for _, m := range proposal.Milestones {
			if m.ID == input.MilestoneID {
				invoice.MilestoneID = m.ID
				invoice.Amount = budget.Clamp(m.Amount)
				found = true
				break
			}
		}
		if !found {
			return nil, ErrMilestoneNotFound
		}
	case models.InvoiceKindCompletion:
		// The remaining 88% after the upfront commitment.
		breakdown := budget.ForCompletion(proposal.TotalBid)
		invoice.Amount = breakdown.RemainderAmount
	case models.InvoiceKindUpfront:
		breakdown := budget.ForCompletion(proposal.TotalBid)
		invoice.Amount = breakdown.UpfrontAmount
	default:
		return nil, fmt.Errorf("unknown invoice kind %q", input.Kind)
	}

	if err := s.invoiceRepo.Create(invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

// Pay settles an invoice. Only members of the billed organization can
// pay.
func (s *InvoiceService) Pay(invoiceID string, actorID uint64) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(invoiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}

	if err := s.orgService.EnsureMember(invoice.OrganizationID, actorID); err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil, ErrInvoiceAlreadyPaid
	}

	paidAt := s.now()
	invoice.Status = models.InvoiceStatusPaid
	invoice.PaidAt = &paidAt

	if err := s.invoiceRepo.Update(invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices lists invoices for the actor's organizations.
func (s *InvoiceService) ListInvoices(actorID uint64) ([]models.Invoice, error) {
	orgIDs, err := s.orgService.AccessibleOrganizationIDs(actorID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListByOrganizationIDs(orgIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}
