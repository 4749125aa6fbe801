package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/utils"
)

var (
	ErrOrganizationNotFound  = errors.New("organization not found")
	ErrOrganizationNameEmpty = errors.New("organization name is required")
	ErrAlreadyMember         = errors.New("user is already a member of the organization")
	ErrInvalidInviteCode     = errors.New("invalid invite code")
	ErrNotOrganizationMember = errors.New("user is not a member of the organization")
)

// OrganizationService handles organization business logic.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// CreateOrganization creates an organization owned by the actor.
func (s *OrganizationService) CreateOrganization(name string, ownerID uint64) (*models.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrOrganizationNameEmpty
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	now := time.Now()
	org := &models.Organization{
		Name:       name,
		InviteCode: inviteCode,
		Members: []models.OrganizationMember{
			{UserID: ownerID, Role: models.RoleOwner, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orgRepo.Create(org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return org, nil
}

// ListOrganizations lists the organizations the user belongs to.
func (s *OrganizationService) ListOrganizations(userID uint64) ([]models.Organization, error) {
	orgs, err := s.orgRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// GetOrganization returns one organization the user belongs to.
func (s *OrganizationService) GetOrganization(orgID, userID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if !org.HasMember(userID) {
		// Hide existence from non-members.
		return nil, ErrOrganizationNotFound
	}
	return org, nil
}

// JoinOrganization adds the user as a member via invite code.
func (s *OrganizationService) JoinOrganization(inviteCode string, userID uint64) (*models.Organization, error) {
	org, err := s.orgRepo.FindByInviteCode(strings.TrimSpace(inviteCode))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidInviteCode
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	if org.HasMember(userID) {
		return nil, ErrAlreadyMember
	}

	org.Members = append(org.Members, models.OrganizationMember{
		UserID:   userID,
		Role:     models.RoleMember,
		JoinedAt: time.Now(),
	})
	org.UpdatedAt = time.Now()

	if err := s.orgRepo.Update(org); err != nil {
		return nil, fmt.Errorf("failed to update organization: %w", err)
	}
	return org, nil
}

// EnsureMember verifies that a user belongs to an organization.
func (s *OrganizationService) EnsureMember(orgID, userID uint64) error {
	org, err := s.orgRepo.FindByID(orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("failed to find organization: %w", err)
	}
	if !org.HasMember(userID) {
		return ErrNotOrganizationMember
	}
	return nil
}

// AccessibleOrganizationIDs returns the IDs of every organization the
// user belongs to.
func (s *OrganizationService) AccessibleOrganizationIDs(userID uint64) ([]uint64, error) {
	orgs, err := s.orgRepo.ListByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	ids := make([]uint64, 0, len(orgs))
	for _, org := range orgs {
		ids = append(ids, org.ID)
	}
	return ids, nil
}
