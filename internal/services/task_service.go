package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskTitleRequired    = errors.New("title is required")
	ErrTaskNotOngoing       = errors.New("task is not ongoing")
	ErrTaskNotInReview      = errors.New("task is not in review")
	ErrNotProjectFreelancer = errors.New("only the project freelancer can perform this action")
)

// TaskService handles task lifecycle transitions. The transitions are
// the only writers of the completed flag, which keeps the invariant that
// completed is true only for approved tasks.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	tracker     *board.ReviewTracker
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, tracker *board.ReviewTracker) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		tracker:     tracker,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	ProjectID string
	Title     string
	DueDate   *time.Time
	ActorID   uint64
}

// CreateTask appends an ongoing task to a project.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTaskTitleRequired
	}

	project, err := s.findProject(input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.CommissionerID != input.ActorID {
		return nil, ErrNotProjectCommissioner
	}

	now := time.Now()
	task := models.Task{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(input.Title),
		Status:    models.TaskStatusOngoing,
		DueDate:   input.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.taskRepo.AppendTask(input.ProjectID, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// UpdateTaskInput represents a partial task update.
type UpdateTaskInput struct {
	Title        *string
	DueDate      *time.Time
	ClearDueDate bool
}

// UpdateTask updates title and due date. Lifecycle fields are only
// touched by the transition methods below.
func (s *TaskService) UpdateTask(projectID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(projectID, *task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// Submit moves an ongoing task into review. Only the project freelancer
// can submit. The task is marked for grace-window suppression so it
// never renders in two columns during overlapping refreshes.
func (s *TaskService) Submit(projectID, taskID string, actorID uint64) (*models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.FreelancerID != actorID {
		return nil, ErrNotProjectFreelancer
	}

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.OngoingIncomplete() {
		return nil, ErrTaskNotOngoing
	}

	task.Status = models.TaskStatusInReview
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(projectID, *task); err != nil {
		return nil, fmt.Errorf("failed to submit task: %w", err)
	}

	if s.tracker != nil {
		s.tracker.Mark(task.ID)
	}
	return task, nil
}

// Approve accepts a task in review. Only the commissioner can approve.
// Approval is the single place completed becomes true.
func (s *TaskService) Approve(projectID, taskID string, actorID uint64) (*models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.CommissionerID != actorID {
		return nil, ErrNotProjectCommissioner
	}

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusInReview {
		return nil, ErrTaskNotInReview
	}

	task.Status = models.TaskStatusApproved
	task.Completed = true
	task.Rejected = false
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(projectID, *task); err != nil {
		return nil, fmt.Errorf("failed to approve task: %w", err)
	}
	return task, nil
}

// Reject sends a task in review back to the freelancer: the rejected
// flag is set and the status reverts to ongoing. Non-empty feedback
// increments the feedback counter.
func (s *TaskService) Reject(projectID, taskID string, actorID uint64, feedback string) (*models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.CommissionerID != actorID {
		return nil, ErrNotProjectCommissioner
	}

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusInReview {
		return nil, ErrTaskNotInReview
	}

	task.Status = models.TaskStatusOngoing
	task.Completed = false
	task.Rejected = true
	if strings.TrimSpace(feedback) != "" {
		task.FeedbackCount++
	}
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(projectID, *task); err != nil {
		return nil, fmt.Errorf("failed to reject task: %w", err)
	}
	return task, nil
}

// PushBack delays a task: the pushed-back flag is set and the due date
// moves to the given date.
func (s *TaskService) PushBack(projectID, taskID string, actorID uint64, newDueDate time.Time) (*models.Task, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if project.CommissionerID != actorID && project.FreelancerID != actorID {
		return nil, ErrNotProjectCommissioner
	}

	task, err := s.findTask(projectID, taskID)
	if err != nil {
		return nil, err
	}
	if !task.OngoingIncomplete() {
		return nil, ErrTaskNotOngoing
	}

	task.PushedBack = true
	task.DueDate = &newDueDate
	task.UpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(projectID, *task); err != nil {
		return nil, fmt.Errorf("failed to push back task: %w", err)
	}
	return task, nil
}

// ListGroups returns the task lists of the given projects.
func (s *TaskService) ListGroups(projectIDs []string) ([]models.ProjectTasks, error) {
	groups, err := s.taskRepo.ListGroups()
	if err != nil {
		return nil, fmt.Errorf("failed to list task groups: %w", err)
	}

	wanted := make(map[string]struct{}, len(projectIDs))
	for _, id := range projectIDs {
		wanted[id] = struct{}{}
	}

	result := make([]models.ProjectTasks, 0, len(groups))
	for _, g := range groups {
		if _, ok := wanted[g.ProjectID]; ok {
			result = append(result, g)
		}
	}
	return result, nil
}

func (s *TaskService) findProject(projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func (s *TaskService) findTask(projectID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindTask(projectID, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
