package models

import "time"

type TaskStatus string

const (
	TaskStatusOngoing  TaskStatus = "Ongoing"
	TaskStatusInReview TaskStatus = "In review"
	TaskStatusApproved TaskStatus = "Approved"
	TaskStatusRejected TaskStatus = "Rejected"
)

type Task struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Status        TaskStatus `json:"status"`
	Completed     bool       `json:"completed"`
	DueDate       *time.Time `json:"dueDate"`
	Rejected      bool       `json:"rejected"`
	FeedbackCount int        `json:"feedbackCount"`
	PushedBack    bool       `json:"pushedBack"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ProjectTasks groups the ordered task list of one project, mirroring the
// shape of project-tasks.json.
type ProjectTasks struct {
	ProjectID string `json:"projectId"`
	Tasks     []Task `json:"tasks"`
}

// OngoingIncomplete reports whether the task is actively being worked on.
func (t Task) OngoingIncomplete() bool {
	return t.Status == TaskStatusOngoing && !t.Completed
}

// InReview reports whether the task is waiting on commissioner review.
func (t Task) InReview() bool {
	return t.Status == TaskStatusInReview && !t.Completed
}
