package repository

import (
	"sync"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

// JSONProjectRepository stores projects in projects.json
type JSONProjectRepository struct {
	store *store.Store
	mu    sync.Mutex
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(s *store.Store) ProjectRepository {
	return &JSONProjectRepository{store: s}
}

func (r *JSONProjectRepository) load() ([]models.Project, error) {
	var projects []models.Project
	if err := r.store.Read(store.FileProjects, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Create creates a new project
func (r *JSONProjectRepository) Create(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return err
	}

	projects = append(projects, *project)
	return r.store.Write(store.FileProjects, projects)
}

// FindByID finds a project by ID
func (r *JSONProjectRepository) FindByID(projectID string) (*models.Project, error) {
	projects, err := r.load()
	if err != nil {
		return nil, err
	}

	for i := range projects {
		if projects[i].ProjectID == projectID {
			return &projects[i], nil
		}
	}
	return nil, ErrNotFound
}

// Update rewrites an existing project
func (r *JSONProjectRepository) Update(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	projects, err := r.load()
	if err != nil {
		return err
	}

	for i := range projects {
		if projects[i].ProjectID == project.ProjectID {
			projects[i] = *project
			return r.store.Write(store.FileProjects, projects)
		}
	}
	return ErrNotFound
}

// ListByOrganizationIDs lists projects owned by any of the organizations
func (r *JSONProjectRepository) ListByOrganizationIDs(orgIDs []uint64) ([]models.Project, error) {
	if len(orgIDs) == 0 {
		return []models.Project{}, nil
	}

	projects, err := r.load()
	if err != nil {
		return nil, err
	}

	wanted := make(map[uint64]struct{}, len(orgIDs))
	for _, id := range orgIDs {
		wanted[id] = struct{}{}
	}

	result := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if _, ok := wanted[p.OrganizationID]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// List lists all projects
func (r *JSONProjectRepository) List() ([]models.Project, error) {
	return r.load()
}
