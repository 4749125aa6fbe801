package poller

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1)}
	f.tickers = append(f.tickers, t)
	return t
}

type fakeTicker struct {
	ch chan time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               {}

func snapshotWith(tasks ...models.Task) SnapshotFunc {
	return func() (board.Input, error) {
		return board.Input{
			Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
			Groups:   []models.ProjectTasks{{ProjectID: "p1", Tasks: tasks}},
		}, nil
	}
}

func TestRefresh_NotifiesOnMembershipChange(t *testing.T) {
	task := models.Task{ID: "t1", Status: models.TaskStatusOngoing}

	var notified []string
	c := New(Config{
		Clock:    newFakeClock(),
		Snapshot: snapshotWith(task),
	})
	c.Subscribe(func(column board.Column, cards []board.Card) {
		for _, card := range cards {
			notified = append(notified, card.Task.ID)
		}
	})

	assert.True(t, c.Refresh(board.ColumnTodo))
	assert.Equal(t, []string{"t1"}, notified)
	assert.Equal(t, []string{"t1"}, c.Members(board.ColumnTodo))

	// Same snapshot again: membership unchanged, no notification.
	notified = nil
	assert.False(t, c.Refresh(board.ColumnTodo))
	assert.Nil(t, notified)
}

func TestRefresh_DetectsTaskLeavingColumn(t *testing.T) {
	current := []models.Task{
		{ID: "t1", Status: models.TaskStatusOngoing},
		{ID: "t2", Status: models.TaskStatusOngoing},
	}
	var mu sync.Mutex
	c := New(Config{
		Clock: newFakeClock(),
		Snapshot: func() (board.Input, error) {
			mu.Lock()
			defer mu.Unlock()
			tasks := make([]models.Task, len(current))
			copy(tasks, current)
			return board.Input{
				Projects: []models.Project{{ProjectID: "p1", Status: models.ProjectStatusOngoing}},
				Groups:   []models.ProjectTasks{{ProjectID: "p1", Tasks: tasks}},
			}, nil
		},
	})

	assert.True(t, c.Refresh(board.ColumnTodo))
	assert.Equal(t, []string{"t1", "t2"}, c.Members(board.ColumnTodo))

	// t1 gets submitted for review.
	mu.Lock()
	current[0].Status = models.TaskStatusInReview
	mu.Unlock()

	assert.True(t, c.Refresh(board.ColumnTodo))
	assert.Equal(t, []string{"t2"}, c.Members(board.ColumnTodo))
	assert.True(t, c.Refresh(board.ColumnReview))
	assert.Equal(t, []string{"t1"}, c.Members(board.ColumnReview))
}

func TestRefresh_SingleFlightDropsConcurrentCall(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})

	c := New(Config{
		Clock: newFakeClock(),
		Snapshot: func() (board.Input, error) {
			close(started)
			<-release
			return board.Input{}, nil
		},
	})

	done := make(chan bool)
	go func() {
		done <- c.Refresh(board.ColumnTodo)
	}()

	<-started
	// Second refresh while the first is outstanding: dropped immediately.
	assert.False(t, c.Refresh(board.ColumnTodo))

	close(release)
	<-done
}

func TestRefresh_SnapshotErrorKeepsStaleMembership(t *testing.T) {
	failing := false
	var mu sync.Mutex
	c := New(Config{
		Clock: newFakeClock(),
		Snapshot: func() (board.Input, error) {
			mu.Lock()
			defer mu.Unlock()
			if failing {
				return board.Input{}, errors.New("read failed")
			}
			return snapshotWith(models.Task{ID: "t1", Status: models.TaskStatusOngoing})()
		},
	})

	assert.True(t, c.Refresh(board.ColumnTodo))
	mu.Lock()
	failing = true
	mu.Unlock()
	assert.False(t, c.Refresh(board.ColumnTodo))
	assert.Equal(t, []string{"t1"}, c.Members(board.ColumnTodo))
}

func TestRefresh_UnknownColumnIgnored(t *testing.T) {
	c := New(Config{Clock: newFakeClock(), Snapshot: snapshotWith()})
	assert.False(t, c.Refresh(board.Column("bogus")))
}

func TestCoordinator_TickDrivesRefresh(t *testing.T) {
	clock := newFakeClock()
	task := models.Task{ID: "t1", Status: models.TaskStatusOngoing}

	changed := make(chan board.Column, 3)
	c := New(Config{
		Clock:     clock,
		Snapshot:  snapshotWith(task),
		Intervals: map[board.Column]time.Duration{board.ColumnTodo: 2 * time.Second},
	})
	c.Subscribe(func(column board.Column, cards []board.Card) {
		changed <- column
	})

	c.Start()
	defer c.Stop()

	// Start launches the column loop asynchronously; wait for it to
	// create its ticker before injecting a tick.
	var ticker *fakeTicker
	for deadline := time.Now().Add(time.Second); ticker == nil; {
		clock.mu.Lock()
		if len(clock.tickers) > 0 {
			ticker = clock.tickers[0]
		}
		clock.mu.Unlock()
		if ticker == nil {
			if time.Now().After(deadline) {
				t.Fatal("ticker was never created")
			}
			time.Sleep(time.Millisecond)
		}
	}
	ticker.ch <- clock.Now()

	select {
	case column := <-changed:
		assert.Equal(t, board.ColumnTodo, column)
	case <-time.After(time.Second):
		t.Fatal("expected a membership change notification")
	}
}
