package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/dto"
	"github.com/yukikurage/freelance-marketplace-api/internal/repository"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
	"github.com/yukikurage/freelance-marketplace-api/internal/store"
)

type boardTestEnv struct {
	router      *gin.Engine
	taskService *services.TaskService
	projectID   string
	taskIDs     []string
}

const (
	boardCommissionerID uint64 = 1
	boardFreelancerID   uint64 = 2
)

func setupBoardTestEnv(t *testing.T) boardTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	orgRepo := repository.NewOrganizationRepository(st)
	projectRepo := repository.NewProjectRepository(st)
	taskRepo := repository.NewTaskRepository(st)

	orgService := services.NewOrganizationService(orgRepo)
	org, err := orgService.CreateOrganization("studio", boardCommissionerID)
	require.NoError(t, err)
	_, err = orgService.JoinOrganization(org.InviteCode, boardFreelancerID)
	require.NoError(t, err)

	projectService := services.NewProjectService(projectRepo, taskRepo, orgService)
	project, err := projectService.CreateProject(services.CreateProjectInput{
		Title:          "Logo redesign",
		OrganizationID: org.ID,
		CommissionerID: boardCommissionerID,
		FreelancerID:   boardFreelancerID,
		TypeTags:       []string{"Design"},
	})
	require.NoError(t, err)

	tracker := board.NewReviewTracker(nil)
	taskService := services.NewTaskService(taskRepo, projectRepo, tracker)
	boardService := services.NewBoardService(projectRepo, taskRepo, orgService, tracker, nil)

	var taskIDs []string
	for _, title := range []string{"Sketches", "Concepts", "Refinement", "Final art", "Handoff"} {
		task, err := taskService.CreateTask(services.CreateTaskInput{
			ProjectID: project.ProjectID,
			Title:     title,
			ActorID:   boardCommissionerID,
		})
		require.NoError(t, err)
		taskIDs = append(taskIDs, task.ID)
	}

	handler := NewBoardHandler(boardService)
	r := gin.New()
	// Stand-in for the session middleware: authenticate as the freelancer.
	r.GET("/api/board/:column", func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, boardFreelancerID)
	}, handler.GetColumn)

	return boardTestEnv{
		router:      r,
		taskService: taskService,
		projectID:   project.ProjectID,
		taskIDs:     taskIDs,
	}
}

func (env boardTestEnv) getColumn(t *testing.T, column string) dto.ColumnResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/board/"+column, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ColumnResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBoardHandler_TodoCappedAtThree(t *testing.T) {
	env := setupBoardTestEnv(t)

	todo := env.getColumn(t, "todo")
	require.Len(t, todo.Cards, 3)

	upcoming := env.getColumn(t, "upcoming")
	require.Len(t, upcoming.Cards, 2)
}

func TestBoardHandler_SubmittedTaskReachesReview(t *testing.T) {
	env := setupBoardTestEnv(t)

	_, err := env.taskService.Submit(env.projectID, env.taskIDs[0], boardFreelancerID)
	require.NoError(t, err)

	review := env.getColumn(t, "review")
	require.Len(t, review.Cards, 1)
	require.Equal(t, env.taskIDs[0], review.Cards[0].ID)

	// The submitted task is out of the todo/upcoming rotation.
	todo := env.getColumn(t, "todo")
	for _, card := range todo.Cards {
		require.NotEqual(t, env.taskIDs[0], card.ID)
	}
}

func TestBoardHandler_UnknownColumn(t *testing.T) {
	env := setupBoardTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/board/doing", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
