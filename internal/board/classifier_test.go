package board

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

func ongoingTask(id string) models.Task {
	return models.Task{ID: id, Title: "Task " + id, Status: models.TaskStatusOngoing}
}

func cardIDs(cards []Card) []string {
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.Task.ID
	}
	return ids
}

func TestClassifyAll_TodoCappedAtThree(t *testing.T) {
	group := models.ProjectTasks{ProjectID: "p1"}
	for i := 1; i <= 6; i++ {
		group.Tasks = append(group.Tasks, ongoingTask(fmt.Sprintf("t%d", i)))
	}

	in := Input{
		Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
		Groups:   []models.ProjectTasks{group},
		Now:      time.Now(),
	}

	buckets := ClassifyAll(in)
	assert.Len(t, buckets.Todo, 3)
	assert.Equal(t, []string{"t1", "t2", "t3"}, cardIDs(buckets.Todo))
	assert.Equal(t, []string{"t4", "t5", "t6"}, cardIDs(buckets.Upcoming))

	for _, card := range buckets.Todo {
		assert.Equal(t, models.TaskStatusOngoing, card.Task.Status)
		assert.False(t, card.Task.Completed)
		assert.False(t, card.ProjectPaused)
	}
}

func TestClassifyAll_UrgencyOrdering(t *testing.T) {
	normal := ongoingTask("normal")
	rejected := ongoingTask("rejected")
	rejected.Rejected = true
	delayed := ongoingTask("delayed")
	delayed.PushedBack = true
	feedback := ongoingTask("feedback")
	feedback.FeedbackCount = 2

	in := Input{
		Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
		Groups: []models.ProjectTasks{
			{ProjectID: "p1", Tasks: []models.Task{normal, feedback, delayed, rejected}},
		},
		Now: time.Now(),
	}

	buckets := ClassifyAll(in)
	assert.Equal(t, []string{"rejected", "delayed", "feedback"}, cardIDs(buckets.Todo))
	assert.Equal(t, []string{"normal"}, cardIDs(buckets.Upcoming))
}

func TestClassifyAll_StableOrderForTies(t *testing.T) {
	in := Input{
		Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
		Groups: []models.ProjectTasks{
			{ProjectID: "p1", Tasks: []models.Task{
				ongoingTask("a"), ongoingTask("b"), ongoingTask("c"), ongoingTask("d"),
			}},
		},
		Now: time.Now(),
	}

	buckets := ClassifyAll(in)
	assert.Equal(t, []string{"a", "b", "c"}, cardIDs(buckets.Todo))
	assert.Equal(t, []string{"d"}, cardIDs(buckets.Upcoming))
}

func TestClassifyAll_PausedProjectExcludedFromTodo(t *testing.T) {
	// 5 ongoing-incomplete tasks, 2 rejected, the project of one rejected
	// task is paused: todo holds the non-paused rejected task first, then
	// fills by original order; the paused task lands at the end of
	// upcoming.
	rejectedActive := ongoingTask("rejected-active")
	rejectedActive.Rejected = true
	rejectedPaused := ongoingTask("rejected-paused")
	rejectedPaused.Rejected = true

	in := Input{
		Projects: []models.Project{
			{ProjectID: "active", Status: models.ProjectStatusOngoing},
			{ProjectID: "paused", Status: models.ProjectStatusPaused},
		},
		Groups: []models.ProjectTasks{
			{ProjectID: "active", Tasks: []models.Task{
				ongoingTask("a1"), rejectedActive, ongoingTask("a2"), ongoingTask("a3"),
			}},
			{ProjectID: "paused", Tasks: []models.Task{rejectedPaused}},
		},
		Now: time.Now(),
	}

	buckets := ClassifyAll(in)
	assert.Equal(t, []string{"rejected-active", "a1", "a2"}, cardIDs(buckets.Todo))
	assert.Equal(t, []string{"a3", "rejected-paused"}, cardIDs(buckets.Upcoming))

	last := buckets.Upcoming[len(buckets.Upcoming)-1]
	assert.True(t, last.ProjectPaused)
	assert.Equal(t, "Rejected (Paused Project)", last.Tag)
}

func TestClassifyAll_ReviewColumn(t *testing.T) {
	inReview := models.Task{ID: "r1", Status: models.TaskStatusInReview}
	approved := models.Task{ID: "done", Status: models.TaskStatusApproved, Completed: true}

	in := Input{
		Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
		Groups: []models.ProjectTasks{
			{ProjectID: "p1", Tasks: []models.Task{inReview, approved, ongoingTask("t1")}},
		},
		Now: time.Now(),
	}

	buckets := ClassifyAll(in)
	assert.Equal(t, []string{"r1"}, cardIDs(buckets.Review))
	assert.Equal(t, []string{"t1"}, cardIDs(buckets.Todo))
	assert.Empty(t, buckets.Upcoming)

	// Approved+completed tasks belong to no column.
	for _, cards := range [][]Card{buckets.Todo, buckets.Upcoming, buckets.Review} {
		assert.NotContains(t, cardIDs(cards), "done")
	}
}

func TestClassifyAll_ReviewNeverOverlapsTodoOrUpcoming(t *testing.T) {
	now := time.Now()

	// A stale snapshot still shows the task as Ongoing, but it was just
	// submitted for review: the grace window keeps it out of todo and
	// upcoming.
	in := Input{
		Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
		Groups: []models.ProjectTasks{
			{ProjectID: "p1", Tasks: []models.Task{ongoingTask("stale"), ongoingTask("t2")}},
		},
		RecentlyReviewed: map[string]time.Time{"stale": now.Add(-2 * time.Second)},
		Now:              now,
	}

	buckets := ClassifyAll(in)
	assert.NotContains(t, cardIDs(buckets.Todo), "stale")
	assert.NotContains(t, cardIDs(buckets.Upcoming), "stale")
	assert.Equal(t, []string{"t2"}, cardIDs(buckets.Todo))
}

func TestClassifyAll_GraceWindowExpires(t *testing.T) {
	now := time.Now()

	in := Input{
		Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
		Groups: []models.ProjectTasks{
			{ProjectID: "p1", Tasks: []models.Task{ongoingTask("t1")}},
		},
		RecentlyReviewed: map[string]time.Time{"t1": now.Add(-GraceWindow)},
		Now:              now,
	}

	buckets := ClassifyAll(in)
	assert.Equal(t, []string{"t1"}, cardIDs(buckets.Todo))
}

func TestTagPrecedence(t *testing.T) {
	project := models.Project{ProjectID: "p1", TypeTags: []string{"Design", "Web"}}

	cases := []struct {
		name string
		task models.Task
		want string
	}{
		{"completed wins", models.Task{Completed: true, Rejected: true, FeedbackCount: 3}, TagCompleted},
		{"rejected over feedback", models.Task{Rejected: true, FeedbackCount: 3}, TagRejected},
		{"feedback over delayed", models.Task{FeedbackCount: 2, PushedBack: true}, "Feedback x2"},
		{"delayed over type tag", models.Task{PushedBack: true}, TagDelayed},
		{"first type tag", models.Task{}, "Design"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tagFor(tc.task, project), tc.name)
	}

	assert.Equal(t, TagGeneral, tagFor(models.Task{}, models.Project{}))
}

func TestReviewTracker_PrunesExpiredMarks(t *testing.T) {
	current := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	tracker := NewReviewTracker(func() time.Time { return current })

	tracker.Mark("t1")
	assert.Contains(t, tracker.Snapshot(), "t1")

	current = current.Add(GraceWindow - time.Second)
	assert.Contains(t, tracker.Snapshot(), "t1")

	current = current.Add(2 * time.Second)
	assert.NotContains(t, tracker.Snapshot(), "t1")
	// Pruned for good, not just filtered.
	current = current.Add(-5 * time.Second)
	assert.NotContains(t, tracker.Snapshot(), "t1")
}
