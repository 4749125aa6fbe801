package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/freelance-marketplace-api/internal/errors"
	"github.com/yukikurage/freelance-marketplace-api/internal/middleware"
	"github.com/yukikurage/freelance-marketplace-api/internal/poller"
	"github.com/yukikurage/freelance-marketplace-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers. Lifecycle
// transitions trigger an immediate board refresh so the columns update
// without waiting for the next poll tick.
type TaskHandler struct {
	taskService    *services.TaskService
	projectService *services.ProjectService
	coordinator    *poller.Coordinator
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, projectService *services.ProjectService, coordinator *poller.Coordinator) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		projectService: projectService,
		coordinator:    coordinator,
	}
}

// ListProjectTasks returns every task group visible to the current user.
func (h *TaskHandler) ListProjectTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(userID)
	if err != nil {
		respondProjectError(c, err)
		return
	}

	projectIDs := make([]string, len(projects))
	for i, p := range projects {
		projectIDs[i] = p.ProjectID
	}

	groups, err := h.taskService.ListGroups(projectIDs)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"projectTasks": groups,
	})
}

// CreateTask appends an ongoing task to the project loaded by
// RequireProjectAccess.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type CreateTaskRequest struct {
		Title   string     `json:"title" binding:"required"`
		DueDate *time.Time `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		ProjectID: project.ProjectID,
		Title:     req.Title,
		DueDate:   req.DueDate,
		ActorID:   userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusCreated, task)
}

// UpdateTask updates title and due date of a task. Lifecycle fields are
// only reachable through the transition endpoints.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	// Parse raw JSON to distinguish "due_date": null from absent.
	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput
	if title, ok := rawReq["title"]; ok {
		if titleStr, ok := title.(string); ok {
			input.Title = &titleStr
		}
	}
	if _, ok := rawReq["due_date"]; ok {
		if rawReq["due_date"] == nil {
			input.ClearDueDate = true
		} else if dueDateStr, ok := rawReq["due_date"].(string); ok {
			parsedTime, err := time.Parse(time.RFC3339, dueDateStr)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return
			}
			input.DueDate = &parsedTime
		}
	}

	task, err := h.taskService.UpdateTask(project.ProjectID, c.Param("taskId"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, task)
}

// SubmitTask moves an ongoing task into review.
func (h *TaskHandler) SubmitTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	task, err := h.taskService.Submit(project.ProjectID, c.Param("taskId"), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, task)
}

// ApproveTask accepts a task in review and marks it completed.
func (h *TaskHandler) ApproveTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	task, err := h.taskService.Approve(project.ProjectID, c.Param("taskId"), userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, task)
}

// RejectTask sends a task in review back to the freelancer. Non-empty
// feedback increments the feedback counter.
func (h *TaskHandler) RejectTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type RejectRequest struct {
		Feedback string `json:"feedback"`
	}

	// Feedback is optional; an empty or missing body is fine.
	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	task, err := h.taskService.Reject(project.ProjectID, c.Param("taskId"), userID, req.Feedback)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, task)
}

// PushBackTask delays a task to a new due date.
func (h *TaskHandler) PushBackTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	project, ok := middleware.GetProject(c)
	if !ok {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	type PushBackRequest struct {
		DueDate time.Time `json:"due_date" binding:"required"`
	}

	var req PushBackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.PushBack(project.ProjectID, c.Param("taskId"), userID, req.DueDate)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	h.refresh()
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) refresh() {
	if h.coordinator != nil {
		h.coordinator.RefreshAll()
	}
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskTitleRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNotOngoing),
		errors.Is(err, services.ErrTaskNotInReview):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrNotProjectCommissioner),
		errors.Is(err, services.ErrNotProjectFreelancer):
		apierrors.Forbidden(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
