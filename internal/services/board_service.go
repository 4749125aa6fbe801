package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

// BoardService assembles classifier snapshots from the JSON collections.
type BoardService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
	orgService  *OrganizationService
	tracker     *board.ReviewTracker
	now         func() time.Time
}

// NewBoardService creates a new BoardService. A nil clock falls back to
// time.Now.
func NewBoardService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, orgService *OrganizationService, tracker *board.ReviewTracker, now func() time.Time) *BoardService {
	if now == nil {
		now = time.Now
	}
	return &BoardService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		orgService:  orgService,
		tracker:     tracker,
		now:         now,
	}
}

// Snapshot builds the classifier input over every project, used by the
// auto-movement poller.
func (s *BoardService) Snapshot() (board.Input, error) {
	projects, err := s.projectRepo.List()
	if err != nil {
		return board.Input{}, fmt.Errorf("failed to load projects: %w", err)
	}
	groups, err := s.taskRepo.ListGroups()
	if err != nil {
		return board.Input{}, fmt.Errorf("failed to load task groups: %w", err)
	}

	return board.Input{
		Projects:         projects,
		Groups:           groups,
		RecentlyReviewed: s.tracker.Snapshot(),
		Now:              s.now(),
	}, nil
}

// SnapshotFor builds the classifier input scoped to the projects visible
// to one user.
func (s *BoardService) SnapshotFor(userID uint64) (board.Input, error) {
	orgIDs, err := s.orgService.AccessibleOrganizationIDs(userID)
	if err != nil {
		return board.Input{}, err
	}

	projects, err := s.projectRepo.ListByOrganizationIDs(orgIDs)
	if err != nil {
		return board.Input{}, fmt.Errorf("failed to load projects: %w", err)
	}

	visible := make(map[string]struct{}, len(projects))
	for _, p := range projects {
		visible[p.ProjectID] = struct{}{}
	}

	groups, err := s.taskRepo.ListGroups()
	if err != nil {
		return board.Input{}, fmt.Errorf("failed to load task groups: %w", err)
	}

	in := board.Input{
		Projects:         projects,
		RecentlyReviewed: s.tracker.Snapshot(),
		Now:              s.now(),
	}
	for _, g := range groups {
		if _, ok := visible[g.ProjectID]; ok {
			in.Groups = append(in.Groups, g)
		}
	}
	return in, nil
}

// Column returns the ordered cards of one column for a user.
func (s *BoardService) Column(userID uint64, column board.Column) ([]board.Card, error) {
	in, err := s.SnapshotFor(userID)
	if err != nil {
		return nil, err
	}

	cards := board.Classify(in, column)
	if cards == nil {
		cards = []board.Card{}
	}
	return cards, nil
}
