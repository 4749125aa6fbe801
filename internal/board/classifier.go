// Package board buckets tasks into the kanban columns shown to a
// freelancer: the capped "today" queue, the upcoming backlog, and the
// review column.
package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// Column identifies one of the board columns.
type Column string

const (
	ColumnTodo     Column = "todo"
	ColumnUpcoming Column = "upcoming"
	ColumnReview   Column = "review"
)

// ParseColumn converts a URL segment into a Column.
func ParseColumn(s string) (Column, error) {
	switch Column(s) {
	case ColumnTodo, ColumnUpcoming, ColumnReview:
		return Column(s), nil
	default:
		return "", fmt.Errorf("unknown column %q", s)
	}
}

// GraceWindow suppresses a task from todo/upcoming right after it was
// submitted for review, so a stale snapshot cannot render it in two
// columns during overlapping refresh cycles.
const GraceWindow = 10 * time.Second

// Tag labels, in precedence order.
const (
	TagCompleted = "Completed"
	TagRejected  = "Rejected"
	TagDelayed   = "Delayed"
	TagGeneral   = "General"
)

const pausedSuffix = " (Paused Project)"

// Card is the per-task view-model rendered in a column.
type Card struct {
	Task          models.Task `json:"task"`
	ProjectID     string      `json:"projectId"`
	ProjectTitle  string      `json:"projectTitle"`
	Tag           string      `json:"tag"`
	ProjectPaused bool        `json:"projectPaused"`
}

// Input is the full snapshot the classifier works from: every project and
// task list visible to the freelancer, plus the recently-submitted set for
// grace-window suppression.
type Input struct {
	Projects         []models.Project
	Groups           []models.ProjectTasks
	RecentlyReviewed map[string]time.Time
	Now              time.Time
}

// Buckets holds the ordered cards of all three columns. A task appears in
// at most one of Todo/Upcoming; Todo never exceeds the column limit.
type Buckets struct {
	Todo     []Card
	Upcoming []Card
	Review   []Card
}

// Column returns the cards of one column.
func (b Buckets) Column(column Column) []Card {
	switch column {
	case ColumnTodo:
		return b.Todo
	case ColumnUpcoming:
		return b.Upcoming
	case ColumnReview:
		return b.Review
	default:
		return nil
	}
}

// Classify produces the ordered card list for a single target column.
func Classify(in Input, column Column) []Card {
	return ClassifyAll(in).Column(column)
}

// ClassifyAll buckets every task in the snapshot.
func ClassifyAll(in Input) Buckets {
	projects := make(map[string]models.Project, len(in.Projects))
	for _, p := range in.Projects {
		projects[p.ProjectID] = p
	}

	var buckets Buckets
	var candidates []Card

	// Flatten in original order: group order, then task order.
	for _, group := range in.Groups {
		project := projects[group.ProjectID]
		for _, task := range group.Tasks {
			card := Card{
				Task:          task,
				ProjectID:     group.ProjectID,
				ProjectTitle:  project.Title,
				ProjectPaused: project.Paused(),
			}

			if task.InReview() {
				card.Tag = tagFor(task, project)
				buckets.Review = append(buckets.Review, card)
				continue
			}

			if !task.OngoingIncomplete() {
				continue
			}
			if suppressed(in, task.ID) {
				continue
			}
			candidates = append(candidates, card)
		}
	}

	// Urgency order: Rejected > Delayed > Feedback > normal. Stable, so
	// ties keep their original relative order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return urgencyRank(candidates[i].Task) < urgencyRank(candidates[j].Task)
	})

	inTodo := make(map[string]bool, constants.TodoColumnLimit)
	for _, card := range candidates {
		if len(buckets.Todo) == constants.TodoColumnLimit {
			break
		}
		if card.ProjectPaused {
			continue
		}
		card.Tag = tagFor(card.Task, projects[card.ProjectID])
		buckets.Todo = append(buckets.Todo, card)
		inTodo[card.Task.ID] = true
	}

	// Upcoming keeps the urgency order but pushes paused-project tasks to
	// the end regardless of their urgency tag.
	var upcoming []Card
	for _, card := range candidates {
		if inTodo[card.Task.ID] {
			continue
		}
		upcoming = append(upcoming, card)
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return !upcoming[i].ProjectPaused && upcoming[j].ProjectPaused
	})
	for i := range upcoming {
		upcoming[i].Tag = tagFor(upcoming[i].Task, projects[upcoming[i].ProjectID])
		if upcoming[i].ProjectPaused {
			upcoming[i].Tag += pausedSuffix
		}
	}
	buckets.Upcoming = upcoming

	return buckets
}

func suppressed(in Input, taskID string) bool {
	submitted, ok := in.RecentlyReviewed[taskID]
	if !ok {
		return false
	}
	return in.Now.Sub(submitted) < GraceWindow
}

func urgencyRank(task models.Task) int {
	switch {
	case task.Rejected:
		return 0
	case task.PushedBack:
		return 1
	case task.FeedbackCount > 0:
		return 2
	default:
		return 3
	}
}

// tagFor derives the display tag: Completed > Rejected > Feedback xN >
// Delayed > first project type tag > General.
func tagFor(task models.Task, project models.Project) string {
	switch {
	case task.Completed:
		return TagCompleted
	case task.Rejected:
		return TagRejected
	case task.FeedbackCount > 0:
		return fmt.Sprintf("Feedback x%d", task.FeedbackCount)
	case task.PushedBack:
		return TagDelayed
	case project.FirstTypeTag() != "":
		return project.FirstTypeTag()
	default:
		return TagGeneral
	}
}
