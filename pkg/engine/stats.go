package engine

import (
	"sync"
	"time"

	"github.com/pl728/taskengine/pkg/types"
)

// Stats is the shared run-wide aggregate, mutated by every worker after each
// task. Each Record call is atomic as a whole: no lost updates and no torn
// reads of the aggregate through Snapshot.
//
// An alternative design keeps per-worker counters and merges them at join
// time; the workers expose their own atomic counters for introspection, but
// the shared aggregate stays behind one lock so mid-run snapshots see a
// consistent whole.
type Stats struct {
	mu sync.Mutex

	completed     int64
	failed        int64
	totalDuration time.Duration
	activeWorkers int
}

// NewStats creates an empty aggregate.
func NewStats() *Stats {
	return &Stats{}
}

// Record accounts for one task outcome. The lock scope is minimal: it is
// never held across the execution function or a channel send.
func (s *Stats) Record(outcome types.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if outcome.Failed() {
		s.failed++
	} else {
		s.completed++
	}
	s.totalDuration += outcome.Duration
}

// workerActive marks one worker as executing a task.
func (s *Stats) workerActive() {
	s.mu.Lock()
	s.activeWorkers++
	s.mu.Unlock()
}

// workerIdle marks one worker as done executing.
func (s *Stats) workerIdle() {
	s.mu.Lock()
	s.activeWorkers--
	s.mu.Unlock()
}

// Snapshot returns a consistent point-in-time copy of the aggregate. The
// totals are final only once the pool has been joined; calling mid-run is
// valid for progress reporting.
func (s *Stats) Snapshot() types.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.StatsSnapshot{
		Completed:     s.completed,
		Failed:        s.failed,
		TotalDuration: s.totalDuration,
		ActiveWorkers: s.activeWorkers,
	}
}
