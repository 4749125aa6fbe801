package repository

import (
	"errors"

	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// ErrNotFound is returned when a record does not exist in its collection.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user and assigns its ID
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}

// OrganizationRepository defines the interface for organization data access
type OrganizationRepository interface {
	// Create creates a new organization and assigns its ID
	Create(org *models.Organization) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// FindByInviteCode finds an organization by invite code
	FindByInviteCode(code string) (*models.Organization, error)

	// Update rewrites an existing organization
	Update(org *models.Organization) error

	// ListByUserID lists all organizations a user is a member of
	ListByUserID(userID uint64) ([]models.Organization, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(projectID string) (*models.Project, error)

	// Update rewrites an existing project
	Update(project *models.Project) error

	// ListByOrganizationIDs lists projects owned by any of the organizations
	ListByOrganizationIDs(orgIDs []uint64) ([]models.Project, error)

	// List lists all projects
	List() ([]models.Project, error)
}

// TaskRepository defines the interface for per-project task list access
type TaskRepository interface {
	// ListGroups returns every project's task list
	ListGroups() ([]models.ProjectTasks, error)

	// FindGroup returns one project's task list
	FindGroup(projectID string) (*models.ProjectTasks, error)

	// FindTask returns a single task within a project
	FindTask(projectID, taskID string) (*models.Task, error)

	// AppendTask adds a task to the end of a project's list
	AppendTask(projectID string, task models.Task) error

	// UpdateTask replaces a task in place, keeping list order
	UpdateTask(projectID string, task models.Task) error
}

// ProposalRepository defines the interface for proposal data access
type ProposalRepository interface {
	// Upsert inserts or replaces a proposal (draft auto-save path)
	Upsert(proposal *models.Proposal) error

	// FindByID finds a proposal by ID
	FindByID(id string) (*models.Proposal, error)

	// ListByFreelancerID lists proposals submitted by a freelancer
	ListByFreelancerID(freelancerID uint64) ([]models.Proposal, error)

	// List lists all proposals
	List() ([]models.Proposal, error)
}

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	// Create creates a new invoice
	Create(invoice *models.Invoice) error

	// FindByID finds an invoice by ID
	FindByID(id string) (*models.Invoice, error)

	// Update rewrites an existing invoice
	Update(invoice *models.Invoice) error

	// ListByOrganizationIDs lists invoices for any of the organizations
	ListByOrganizationIDs(orgIDs []uint64) ([]models.Invoice, error)
}
