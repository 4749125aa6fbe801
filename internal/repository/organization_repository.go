package repository

import (
	"sync"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

// JSONOrganizationRepository stores organizations in organizations.json
type JSONOrganizationRepository struct {
	store *store.Store
	mu    sync.Mutex
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(s *store.Store) OrganizationRepository {
	return &JSONOrganizationRepository{store: s}
}

func (r *JSONOrganizationRepository) load() ([]models.Organization, error) {
	var orgs []models.Organization
	if err := r.store.Read(store.FileOrganizations, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Create creates a new organization and assigns its ID
func (r *JSONOrganizationRepository) Create(org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orgs, err := r.load()
	if err != nil {
		return err
	}

	var maxID uint64
	for _, o := range orgs {
		if o.ID > maxID {
			maxID = o.ID
		}
	}
	org.ID = maxID + 1

	orgs = append(orgs, *org)
	return r.store.Write(store.FileOrganizations, orgs)
}

// FindByID finds an organization by ID
func (r *JSONOrganizationRepository) FindByID(id uint64) (*models.Organization, error) {
	orgs, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range orgs {
		if orgs[i].ID == id {
			return &orgs[i], nil
		}
	}
	return nil, ErrNotFound
}

// FindByInviteCode finds an organization by invite code
func (r *JSONOrganizationRepository) FindByInviteCode(code string) (*models.Organization, error) {
	orgs, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range orgs {
		if orgs[i].InviteCode == code {
			return &orgs[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update rewrites an existing organization
func (r *JSONOrganizationRepository) Update(org *models.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	orgs, err := r.load()
	if err != nil {
		return err
	}

	for i := range orgs {
		if orgs[i].ID == org.ID {
			orgs[i] = *org
			return r.store.Write(store.FileOrganizations, orgs)
		}
	}
	return ErrNotFound
}

// ListByUserID lists all organizations a user is a member of
func (r *JSONOrganizationRepository) ListByUserID(userID uint64) ([]models.Organization, error) {
	orgs, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]models.Organization, 0, len(orgs))
	for _, org := range orgs {
		if org.HasMember(userID) {
			result = append(result, org)
		}
	}
	return result, nil
}
