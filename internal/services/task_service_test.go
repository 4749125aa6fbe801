package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

const (
	commissionerID uint64 = 1
	freelancerID   uint64 = 2
	outsiderID     uint64 = 99
)

type taskTestEnv struct {
	taskService    *TaskService
	projectService *ProjectService
	tracker        *board.ReviewTracker
	project        *models.Project
}

func setupTaskTestEnv(t *testing.T) taskTestEnv {
	t.Helper()

	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	orgRepo := repository.NewOrganizationRepository(st)
	projectRepo := repository.NewProjectRepository(st)
	taskRepo := repository.NewTaskRepository(st)

	orgService := NewOrganizationService(orgRepo)
	org, err := orgService.CreateOrganization("studio", commissionerID)
	require.NoError(t, err)
	_, err = orgService.JoinOrganization(org.InviteCode, freelancerID)
	require.NoError(t, err)

	projectService := NewProjectService(projectRepo, taskRepo, orgService)
	project, err := projectService.CreateProject(CreateProjectInput{
		Title:          "Logo redesign",
		OrganizationID: org.ID,
		CommissionerID: commissionerID,
		FreelancerID:   freelancerID,
		TypeTags:       []string{"Design"},
	})
	require.NoError(t, err)

	tracker := board.NewReviewTracker(nil)
	taskService := NewTaskService(taskRepo, projectRepo, tracker)

	return taskTestEnv{
		taskService:    taskService,
		projectService: projectService,
		tracker:        tracker,
		project:        project,
	}
}

func (env taskTestEnv) createTask(t *testing.T, title string) *models.Task {
	t.Helper()

	task, err := env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.project.ProjectID,
		Title:     title,
		ActorID:   commissionerID,
	})
	require.NoError(t, err)
	return task
}

func TestTaskService_CreateTask(t *testing.T) {
	env := setupTaskTestEnv(t)

	task := env.createTask(t, "Draft sketches")
	require.Equal(t, models.TaskStatusOngoing, task.Status)
	require.False(t, task.Completed)
	require.NotEmpty(t, task.ID)

	_, err := env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.project.ProjectID,
		Title:     "Sneaky task",
		ActorID:   freelancerID,
	})
	require.ErrorIs(t, err, ErrNotProjectCommissioner)

	_, err = env.taskService.CreateTask(CreateTaskInput{
		ProjectID: env.project.ProjectID,
		Title:     "   ",
		ActorID:   commissionerID,
	})
	require.ErrorIs(t, err, ErrTaskTitleRequired)
}

func TestTaskService_SubmitOnlyFreelancer(t *testing.T) {
	env := setupTaskTestEnv(t)
	task := env.createTask(t, "Draft sketches")

	_, err := env.taskService.Submit(env.project.ProjectID, task.ID, commissionerID)
	require.ErrorIs(t, err, ErrNotProjectFreelancer)

	submitted, err := env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInReview, submitted.Status)
	require.False(t, submitted.Completed)

	// Submission marks the task for grace-window suppression.
	require.Contains(t, env.tracker.Snapshot(), task.ID)

	// Already in review, cannot submit again.
	_, err = env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.ErrorIs(t, err, ErrTaskNotOngoing)
}

func TestTaskService_ApproveSetsCompleted(t *testing.T) {
	env := setupTaskTestEnv(t)
	task := env.createTask(t, "Draft sketches")

	// Approval requires the task to be in review.
	_, err := env.taskService.Approve(env.project.ProjectID, task.ID, commissionerID)
	require.ErrorIs(t, err, ErrTaskNotInReview)

	_, err = env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.NoError(t, err)

	_, err = env.taskService.Approve(env.project.ProjectID, task.ID, freelancerID)
	require.ErrorIs(t, err, ErrNotProjectCommissioner)

	approved, err := env.taskService.Approve(env.project.ProjectID, task.ID, commissionerID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusApproved, approved.Status)
	require.True(t, approved.Completed)
	require.False(t, approved.Rejected)
}

func TestTaskService_RejectRevertsAndCountsFeedback(t *testing.T) {
	env := setupTaskTestEnv(t)
	task := env.createTask(t, "Draft sketches")

	_, err := env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.NoError(t, err)

	rejected, err := env.taskService.Reject(env.project.ProjectID, task.ID, commissionerID, "too rough")
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusOngoing, rejected.Status)
	require.True(t, rejected.Rejected)
	require.False(t, rejected.Completed)
	require.Equal(t, 1, rejected.FeedbackCount)

	// Empty feedback does not increment the counter.
	_, err = env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.NoError(t, err)
	rejected, err = env.taskService.Reject(env.project.ProjectID, task.ID, commissionerID, "  ")
	require.NoError(t, err)
	require.Equal(t, 1, rejected.FeedbackCount)
}

func TestTaskService_PushBack(t *testing.T) {
	env := setupTaskTestEnv(t)
	task := env.createTask(t, "Draft sketches")

	newDue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pushed, err := env.taskService.PushBack(env.project.ProjectID, task.ID, commissionerID, newDue)
	require.NoError(t, err)
	require.True(t, pushed.PushedBack)
	require.NotNil(t, pushed.DueDate)
	require.True(t, pushed.DueDate.Equal(newDue))

	_, err = env.taskService.PushBack(env.project.ProjectID, task.ID, outsiderID, newDue)
	require.ErrorIs(t, err, ErrNotProjectCommissioner)
}

func TestTaskService_CompletedOnlyThroughApproval(t *testing.T) {
	env := setupTaskTestEnv(t)
	task := env.createTask(t, "Draft sketches")

	// Title/due-date updates never touch lifecycle fields.
	title := "Draft sketches v2"
	updated, err := env.taskService.UpdateTask(env.project.ProjectID, task.ID, UpdateTaskInput{Title: &title})
	require.NoError(t, err)
	require.False(t, updated.Completed)
	require.Equal(t, models.TaskStatusOngoing, updated.Status)

	_, err = env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.NoError(t, err)
	approved, err := env.taskService.Approve(env.project.ProjectID, task.ID, commissionerID)
	require.NoError(t, err)
	require.True(t, approved.Completed)
	require.Equal(t, models.TaskStatusApproved, approved.Status)
}

func TestProjectService_SweepCompletion(t *testing.T) {
	env := setupTaskTestEnv(t)
	task := env.createTask(t, "Draft sketches")

	// Not all tasks approved yet: project stays ongoing.
	require.NoError(t, env.projectService.SweepCompletion())
	project, err := env.projectService.GetProject(env.project.ProjectID, commissionerID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusOngoing, project.Status)

	_, err = env.taskService.Submit(env.project.ProjectID, task.ID, freelancerID)
	require.NoError(t, err)
	_, err = env.taskService.Approve(env.project.ProjectID, task.ID, commissionerID)
	require.NoError(t, err)

	require.NoError(t, env.projectService.SweepCompletion())
	project, err = env.projectService.GetProject(env.project.ProjectID, commissionerID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusCompleted, project.Status)
}

func TestProjectService_PauseResume(t *testing.T) {
	env := setupTaskTestEnv(t)

	_, err := env.projectService.Pause(env.project.ProjectID, freelancerID)
	require.ErrorIs(t, err, ErrNotProjectCommissioner)

	paused, err := env.projectService.Pause(env.project.ProjectID, commissionerID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusPaused, paused.Status)

	_, err = env.projectService.Pause(env.project.ProjectID, commissionerID)
	require.ErrorIs(t, err, ErrProjectNotOngoing)

	resumed, err := env.projectService.Resume(env.project.ProjectID, commissionerID)
	require.NoError(t, err)
	require.Equal(t, models.ProjectStatusOngoing, resumed.Status)
}
