package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/freelance-marketplace-api/internal/budget"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

var (
	ErrProposalNotFound    = errors.New("proposal not found")
	ErrProposalNotDraft    = errors.New("proposal is no longer a draft")
	ErrProposalNotSent     = errors.New("proposal has not been sent")
	ErrNotProposalOwner    = errors.New("only the proposal owner can perform this action")
	ErrMilestoneMismatch   = errors.New("milestone amounts do not match the total bid")
	ErrMilestoneNotFound   = errors.New("milestone not found")
	ErrExecutionMethodMissing = errors.New("execution method is required")
)

// ProposalService handles proposal drafting and lifecycle. Draft saves
// are upserts: the web client auto-saves the form every few seconds and
// simply overwrites the stored draft.
type ProposalService struct {
	proposalRepo   repository.ProposalRepository
	orgService     *OrganizationService
	invoiceService *InvoiceService
	now            func() time.Time
}

// NewProposalService creates a new ProposalService. A nil clock falls
// back to time.Now.
func NewProposalService(proposalRepo repository.ProposalRepository, orgService *OrganizationService, invoiceService *InvoiceService, now func() time.Time) *ProposalService {
	if now == nil {
		now = time.Now
	}
	return &ProposalService{
		proposalRepo:   proposalRepo,
		orgService:     orgService,
		invoiceService: invoiceService,
		now:            now,
	}
}

// DraftInput carries the auto-saved proposal form.
type DraftInput struct {
	ID              string
	Title           string
	OrganizationID  uint64
	ExecutionMethod models.ExecutionMethod
	TotalBid        float64
	BudgetMin       float64
	BudgetMax       float64
	StartType       models.StartType
	CustomStartDate *time.Time
	EndDate         *time.Time
	Rate            float64
	MaxHoursPerDay  float64
	Milestones      []models.Milestone
}

// Breakdown is the computed payment summary returned alongside a
// proposal.
type Breakdown struct {
	ExecutionMethod models.ExecutionMethod      `json:"executionMethod"`
	Completion      *budget.CompletionBreakdown `json:"completion,omitempty"`
	MilestoneCheck  *budget.MilestoneCheck      `json:"milestoneCheck,omitempty"`
	HourlyTotal     *float64                    `json:"hourlyTotal,omitempty"`
}

// SaveDraft creates or overwrites a draft proposal.
func (s *ProposalService) SaveDraft(input DraftInput, freelancerID uint64) (*models.Proposal, error) {
	if input.ExecutionMethod == "" {
		return nil, ErrExecutionMethodMissing
	}

	now := s.now()
	proposal := &models.Proposal{
		ID:              input.ID,
		Title:           strings.TrimSpace(input.Title),
		OrganizationID:  input.OrganizationID,
		FreelancerID:    freelancerID,
		ExecutionMethod: input.ExecutionMethod,
		Status:          models.ProposalStatusDraft,
		TotalBid:        budget.Clamp(input.TotalBid),
		BudgetMin:       budget.Clamp(input.BudgetMin),
		BudgetMax:       budget.Clamp(input.BudgetMax),
		StartType:       input.StartType,
		CustomStartDate: input.CustomStartDate,
		EndDate:         input.EndDate,
		Rate:            budget.Clamp(input.Rate),
		MaxHoursPerDay:  budget.Clamp(input.MaxHoursPerDay),
		Milestones:      input.Milestones,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	} else {
		existing, err := s.proposalRepo.FindByID(proposal.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to find proposal: %w", err)
		}
		if err == nil {
			if existing.FreelancerID != freelancerID {
				return nil, ErrNotProposalOwner
			}
			if !existing.Draft() {
				return nil, ErrProposalNotDraft
			}
			proposal.CreatedAt = existing.CreatedAt
		}
	}

	for i := range proposal.Milestones {
		if proposal.Milestones[i].ID == "" {
			proposal.Milestones[i].ID = uuid.NewString()
		}
		proposal.Milestones[i].Amount = budget.Clamp(proposal.Milestones[i].Amount)
	}

	if err := s.proposalRepo.Upsert(proposal); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}
	return proposal, nil
}

// AddMilestone appends a milestone to a draft and re-splits every amount
// evenly, not just the new one.
func (s *ProposalService) AddMilestone(proposalID string, actorID uint64, milestone models.Milestone) (*models.Proposal, error) {
	proposal, err := s.ownedDraft(proposalID, actorID)
	if err != nil {
		return nil, err
	}

	milestone.ID = uuid.NewString()
	proposal.Milestones = append(proposal.Milestones, milestone)
	budget.SplitEvenly(proposal.Milestones, proposal.TotalBid)
	proposal.UpdatedAt = s.now()

	if err := s.proposalRepo.Upsert(proposal); err != nil {
		return nil, fmt.Errorf("failed to add milestone: %w", err)
	}
	return proposal, nil
}

// RemoveMilestone deletes a milestone from a draft and re-splits the
// remaining amounts.
func (s *ProposalService) RemoveMilestone(proposalID, milestoneID string, actorID uint64) (*models.Proposal, error) {
	proposal, err := s.ownedDraft(proposalID, actorID)
	if err != nil {
		return nil, err
	}

	found := false
	remaining := proposal.Milestones[:0]
	for _, m := range proposal.Milestones {
		if m.ID == milestoneID {
			found = true
			continue
		}
		remaining = append(remaining, m)
	}
	if !found {
		return nil, ErrMilestoneNotFound
	}

	proposal.Milestones = remaining
	budget.SplitEvenly(proposal.Milestones, proposal.TotalBid)
	proposal.UpdatedAt = s.now()

	if err := s.proposalRepo.Upsert(proposal); err != nil {
		return nil, fmt.Errorf("failed to remove milestone: %w", err)
	}
	return proposal, nil
}

// Send submits a draft. Milestone-based proposals are blocked when the
// amounts do not sum to the total bid; the mismatch message carries the
// exact delta for the form.
func (s *ProposalService) Send(proposalID string, actorID uint64) (*models.Proposal, error) {
	proposal, err := s.ownedDraft(proposalID, actorID)
	if err != nil {
		return nil, err
	}

	if proposal.ExecutionMethod == models.ExecutionMilestone {
		check := budget.CheckMilestoneSum(proposal.Milestones, proposal.TotalBid)
		if !check.OK {
			return nil, fmt.Errorf("%w: %s", ErrMilestoneMismatch, check.Message)
		}
	}

	proposal.Status = models.ProposalStatusSent
	proposal.UpdatedAt = s.now()

	if err := s.proposalRepo.Upsert(proposal); err != nil {
		return nil, fmt.Errorf("failed to send proposal: %w", err)
	}
	return proposal, nil
}

// Accept accepts a sent proposal. For completion-based execution the
// upfront commitment invoice is generated immediately.
func (s *ProposalService) Accept(proposalID string, actorID uint64) (*models.Proposal, *models.Invoice, error) {
	proposal, err := s.findProposal(proposalID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.orgService.EnsureMember(proposal.OrganizationID, actorID); err != nil {
		return nil, nil, err
	}
	if proposal.Status != models.ProposalStatusSent {
		return nil, nil, ErrProposalNotSent
	}

	proposal.Status = models.ProposalStatusAccepted
	proposal.UpdatedAt = s.now()
	if err := s.proposalRepo.Upsert(proposal); err != nil {
		return nil, nil, fmt.Errorf("failed to accept proposal: %w", err)
	}

	var invoice *models.Invoice
	if proposal.ExecutionMethod == models.ExecutionCompletion {
		invoice, err = s.invoiceService.GenerateUpfront(proposal)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate upfront invoice: %w", err)
		}
	}
	return proposal, invoice, nil
}

// Reject rejects a sent proposal.
func (s *ProposalService) Reject(proposalID string, actorID uint64) (*models.Proposal, error) {
	proposal, err := s.findProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if err := s.orgService.EnsureMember(proposal.OrganizationID, actorID); err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusSent {
		return nil, ErrProposalNotSent
	}

	proposal.Status = models.ProposalStatusRejected
	proposal.UpdatedAt = s.now()
	if err := s.proposalRepo.Upsert(proposal); err != nil {
		return nil, fmt.Errorf("failed to reject proposal: %w", err)
	}
	return proposal, nil
}

// GetProposal returns a proposal visible to the actor: its owner or a
// member of the target organization.
func (s *ProposalService) GetProposal(proposalID string, actorID uint64) (*models.Proposal, error) {
	proposal, err := s.findProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.FreelancerID != actorID {
		if err := s.orgService.EnsureMember(proposal.OrganizationID, actorID); err != nil {
			return nil, ErrProposalNotFound
		}
	}
	return proposal, nil
}

// ListProposals lists the actor's own proposals.
func (s *ProposalService) ListProposals(actorID uint64) ([]models.Proposal, error) {
	proposals, err := s.proposalRepo.ListByFreelancerID(actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	return proposals, nil
}

// ComputeBreakdown derives the payment summary for a proposal.
func (s *ProposalService) ComputeBreakdown(proposal *models.Proposal) Breakdown {
	breakdown := Breakdown{ExecutionMethod: proposal.ExecutionMethod}

	switch proposal.ExecutionMethod {
	case models.ExecutionCompletion:
		b := budget.ForCompletion(proposal.TotalBid)
		breakdown.Completion = &b
	case models.ExecutionMilestone:
		check := budget.CheckMilestoneSum(proposal.Milestones, proposal.TotalBid)
		breakdown.MilestoneCheck = &check
	case models.ExecutionHourly:
		start := proposal.CustomStartDate
		if proposal.StartType != models.StartCustom {
			now := s.now()
			start = &now
		}
		total := budget.HourlyTotal(start, proposal.EndDate, proposal.Rate, proposal.MaxHoursPerDay)
		breakdown.HourlyTotal = &total
	}
	return breakdown
}

func (s *ProposalService) ownedDraft(proposalID string, actorID uint64) (*models.Proposal, error) {
	proposal, err := s.findProposal(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.FreelancerID != actorID {
		return nil, ErrNotProposalOwner
	}
	if !proposal.Draft() {
		return nil, ErrProposalNotDraft
	}
	return proposal, nil
}

func (s *ProposalService) findProposal(proposalID string) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByID(proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to find proposal: %w", err)
	}
	return proposal, nil
}
