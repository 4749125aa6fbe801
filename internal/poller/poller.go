// Package poller drives auto-movement: on a fixed per-column interval it
// re-reads the current snapshot, re-runs the classifier and notifies
// subscribers when column membership changed. This replaces the legacy
// client-side setInterval polling with one coordinator owning every
// scheduled loop, so tests can inject a clock.
package poller

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/yukikurage/freelance-marketplace-api/internal/board"
	"github.com/yukikurage/freelance-marketplace-api/internal/metrics"
)

// Default per-column refresh intervals. The stagger keeps the today queue
// fresh without re-reading the whole snapshot every 2s for every column.
var DefaultIntervals = map[board.Column]time.Duration{
	board.ColumnTodo:     2 * time.Second,
	board.ColumnReview:   5 * time.Second,
	board.ColumnUpcoming: 30 * time.Second,
}

// DefaultSweepInterval spaces out the background project-status sweep.
const DefaultSweepInterval = 60 * time.Second

// SnapshotFunc supplies the current classifier input.
type SnapshotFunc func() (board.Input, error)

// SweepFunc is an optional periodic maintenance pass (project status
// derivation).
type SweepFunc func() error

// Listener receives the new ordered cards of a column whose membership
// changed.
type Listener func(column board.Column, cards []board.Card)

// Config wires a Coordinator.
type Config struct {
	Clock         Clock
	Log           *zap.Logger
	Snapshot      SnapshotFunc
	Sweep         SweepFunc
	Intervals     map[board.Column]time.Duration
	SweepInterval time.Duration
}

// Coordinator owns one refresh loop per column. Only one refresh may be
// in flight per column; a refresh requested while another is outstanding
// is dropped, not queued.
type Coordinator struct {
	clock         Clock
	log           *zap.Logger
	snapshot      SnapshotFunc
	sweep         SweepFunc
	intervals     map[board.Column]time.Duration
	sweepInterval time.Duration

	mu        sync.Mutex
	members   map[board.Column][]string
	listeners []Listener

	inFlight map[board.Column]*atomic.Bool

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a Coordinator. Zero-value config fields fall back to the
// defaults (system clock, default intervals, no-op logger).
func New(cfg Config) *Coordinator {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Intervals == nil {
		cfg.Intervals = DefaultIntervals
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}

	c := &Coordinator{
		clock:         cfg.Clock,
		log:           cfg.Log,
		snapshot:      cfg.Snapshot,
		sweep:         cfg.Sweep,
		intervals:     cfg.Intervals,
		sweepInterval: cfg.SweepInterval,
		members:       make(map[board.Column][]string),
		inFlight:      make(map[board.Column]*atomic.Bool),
		stop:          make(chan struct{}),
	}
	for column := range cfg.Intervals {
		c.inFlight[column] = &atomic.Bool{}
	}
	return c
}

// Subscribe registers a listener for membership changes.
func (c *Coordinator) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Start launches the per-column loops and the sweep loop.
func (c *Coordinator) Start() {
	for column, interval := range c.intervals {
		c.wg.Add(1)
		go c.runColumn(column, interval)
	}
	if c.sweep != nil {
		c.wg.Add(1)
		go c.runSweep()
	}
}

// Stop terminates every loop and waits for in-flight refreshes.
func (c *Coordinator) Stop() {
	close(c.stop)
	c.wg.Wait()
}

func (c *Coordinator) runColumn(column board.Column, interval time.Duration) {
	defer c.wg.Done()

	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C():
			c.wg.Add(1)
			go func() {
				defer c.wg.Done()
				c.Refresh(column)
			}()
		}
	}
}

func (c *Coordinator) runSweep() {
	defer c.wg.Done()

	ticker := c.clock.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C():
			if err := c.sweep(); err != nil {
				c.log.Warn("project sweep failed", zap.Error(err))
			}
		}
	}
}

// Refresh re-reads the snapshot and reclassifies one column. It returns
// true when the column's membership changed. A call arriving while
// another refresh of the same column is outstanding is dropped.
func (c *Coordinator) Refresh(column board.Column) bool {
	flag, ok := c.inFlight[column]
	if !ok {
		return false
	}
	if !flag.CompareAndSwap(false, true) {
		metrics.DroppedRefreshes.WithLabelValues(string(column)).Inc()
		return false
	}
	defer flag.Store(false)

	metrics.PollCycles.WithLabelValues(string(column)).Inc()

	in, err := c.snapshot()
	if err != nil {
		// No retry: the column keeps rendering its stale membership.
		c.log.Warn("snapshot fetch failed", zap.String("column", string(column)), zap.Error(err))
		return false
	}
	in.Now = c.clock.Now()

	cards := board.Classify(in, column)
	ids := make([]string, len(cards))
	for i, card := range cards {
		ids[i] = card.Task.ID
	}

	c.mu.Lock()
	changed := !equalIDs(c.members[column], ids)
	if changed {
		c.members[column] = ids
	}
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	if !changed {
		return false
	}

	metrics.BucketChanges.WithLabelValues(string(column)).Inc()
	for _, l := range listeners {
		l(column, cards)
	}
	return true
}

// RefreshAll refreshes every configured column, used after mutations.
func (c *Coordinator) RefreshAll() {
	for column := range c.inFlight {
		c.Refresh(column)
	}
}

// Members returns the last rendered membership of a column.
func (c *Coordinator) Members(column board.Column) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, len(c.members[column]))
	copy(ids, c.members[column])
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
