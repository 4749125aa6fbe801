package board

import (
	"sync"
	"time"
)

// ReviewTracker remembers when tasks were submitted for review so the
// classifier can suppress them from todo/upcoming during the grace
// window. The clock is injectable for deterministic tests.
type ReviewTracker struct {
	mu    sync.Mutex
	now   func() time.Time
	marks map[string]time.Time
}

// NewReviewTracker creates a tracker using the given clock. A nil clock
// falls back to time.Now.
func NewReviewTracker(now func() time.Time) *ReviewTracker {
	if now == nil {
		now = time.Now
	}
	return &ReviewTracker{
		now:   now,
		marks: make(map[string]time.Time),
	}
}

// Mark records that the task was just submitted for review.
func (t *ReviewTracker) Mark(taskID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.marks[taskID] = t.now()
}

// Snapshot returns the still-recent submission times and prunes entries
// older than the grace window.
func (t *ReviewTracker) Snapshot() map[string]time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	recent := make(map[string]time.Time, len(t.marks))
	for id, at := range t.marks {
		if now.Sub(at) >= GraceWindow {
			delete(t.marks, id)
			continue
		}
		recent[id] = at
	}
	return recent
}
