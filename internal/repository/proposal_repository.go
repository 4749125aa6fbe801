package repository

import (
	"sync"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

// JSONProposalRepository stores proposals in proposals.json
type JSONProposalRepository struct {
	store *store.Store
	mu    sync.Mutex
}

// NewProposalRepository creates a new ProposalRepository
func NewProposalRepository(s *store.Store) ProposalRepository {
	return &JSONProposalRepository{store: s}
}

func (r *JSONProposalRepository) load() ([]models.Proposal, error) {
	var proposals []models.Proposal
	if err := r.store.Read(store.FileProposals, &proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}

// Upsert inserts or replaces a proposal. Draft auto-save hits this path
// repeatedly, so an existing record with the same ID is overwritten.
func (r *JSONProposalRepository) Upsert(proposal *models.Proposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	proposals, err := r.load()
	if err != nil {
		return err
	}

	for i := range proposals {
		if proposals[i].ID == proposal.ID {
			proposals[i] = *proposal
			return r.store.Write(store.FileProposals, proposals)
		}
	}

	proposals = append(proposals, *proposal)
	return r.store.Write(store.FileProposals, proposals)
}

// FindByID finds a proposal by ID
func (r *JSONProposalRepository) FindByID(id string) (*models.Proposal, error) {
	proposals, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range proposals {
		if proposals[i].ID == id {
			return &proposals[i], nil
		}
	}
	return nil, ErrNotFound
}

// ListByFreelancerID lists proposals submitted by a freelancer
func (r *JSONProposalRepository) ListByFreelancerID(freelancerID uint64) ([]models.Proposal, error) {
	proposals, err := r.load()
	if err != nil {
		return nil, err
	}

	result := make([]models.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if p.FreelancerID == freelancerID {
			result = append(result, p)
		}
	}
	return result, nil
}

// List lists all proposals
func (r *JSONProposalRepository) List() ([]models.Proposal, error) {
	return r.load()
}
