package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrProjectTitleEmpty   = errors.New("project title is required")
	ErrProjectNotOngoing   = errors.New("project is not ongoing")
	ErrProjectNotPaused    = errors.New("project is not paused")
	ErrNotProjectCommissioner = errors.New("only the commissioner can perform this action")
)

// ProjectService handles project business logic.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	orgService  *OrganizationService
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, orgService *OrganizationService) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		orgService:  orgService,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Title          string
	OrganizationID uint64
	CommissionerID uint64
	FreelancerID   uint64
	TypeTags       []string
}

// CreateProject creates an ongoing project owned by an organization.
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleEmpty
	}
	if err := s.orgService.EnsureMember(input.OrganizationID, input.CommissionerID); err != nil {
		return nil, err
	}

	now := time.Now()
	project := &models.Project{
		ProjectID:      uuid.NewString(),
		Title:          strings.TrimSpace(input.Title),
		OrganizationID: input.OrganizationID,
		CommissionerID: input.CommissionerID,
		FreelancerID:   input.FreelancerID,
		TypeTags:       input.TypeTags,
		Status:         models.ProjectStatusOngoing,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject returns a project the user can access.
func (s *ProjectService) GetProject(projectID string, userID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.orgService.EnsureMember(project.OrganizationID, userID); err != nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// ListProjects lists projects in the user's organizations.
func (s *ProjectService) ListProjects(userID uint64) ([]models.Project, error) {
	orgIDs, err := s.orgService.AccessibleOrganizationIDs(userID)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListByOrganizationIDs(orgIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Pause temporarily removes the project's tasks from the today queue.
// Its tasks stay visible in upcoming.
func (s *ProjectService) Pause(projectID string, actorID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.CommissionerID != actorID {
		return nil, ErrNotProjectCommissioner
	}
	if project.Status != models.ProjectStatusOngoing {
		return nil, ErrProjectNotOngoing
	}

	project.Status = models.ProjectStatusPaused
	project.UpdatedAt = time.Now()
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// Resume returns a paused project to the ongoing state.
func (s *ProjectService) Resume(projectID string, actorID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.CommissionerID != actorID {
		return nil, ErrNotProjectCommissioner
	}
	if project.Status != models.ProjectStatusPaused {
		return nil, ErrProjectNotPaused
	}

	project.Status = models.ProjectStatusOngoing
	project.UpdatedAt = time.Now()
	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// SweepCompletion derives project completion from task state: an ongoing
// project whose tasks are all approved becomes completed. Runs on the
// poller's 60s interval.
func (s *ProjectService) SweepCompletion() error {
	projects, err := s.projectRepo.List()
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	for i := range projects {
		project := projects[i]
		if project.Status != models.ProjectStatusOngoing {
			continue
		}

		group, err := s.taskRepo.FindGroup(project.ProjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to load tasks for %s: %w", project.ProjectID, err)
		}
		if len(group.Tasks) == 0 {
			continue
		}

		done := true
		for _, task := range group.Tasks {
			if !task.Completed {
				done = false
				break
			}
		}
		if !done {
			continue
		}

		project.Status = models.ProjectStatusCompleted
		project.UpdatedAt = time.Now()
		if err := s.projectRepo.Update(&project); err != nil {
			return fmt.Errorf("failed to complete project %s: %w", project.ProjectID, err)
		}
	}
	return nil
}

func (s *ProjectService) findProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
