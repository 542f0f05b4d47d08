package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pl728/taskengine/pkg/types"
)

// TestEngine_FailingSevenths runs the reference scenario: 4 workers, 20 tasks,
// every task whose id is divisible by 7 fails. Exactly ids 7 and 14 must fail
// and all 20 outcomes must arrive before the run completes.
func TestEngine_FailingSevenths(t *testing.T) {
	exec := func(ctx context.Context, task types.Task[string]) (string, error) {
		if task.ID%7 == 0 {
			return "", fmt.Errorf("download failed")
		}
		return "downloaded " + task.Payload, nil
	}

	coord, err := NewCoordinator(&Config{Workers: 4, QueueSize: 8, ResultBuffer: 32}, exec)
	require.NoError(t, err)

	tasks := make([]types.Task[string], 0, 20)
	for i := 1; i <= 20; i++ {
		tasks = append(tasks, types.NewTask(i, fmt.Sprintf("http://example.com/%d", i)))
	}

	report, err := coord.Run(context.Background(), tasks)
	require.NoError(t, err)

	assert.Len(t, report.Outcomes, 20)
	assert.Equal(t, int64(18), report.Stats.Completed)
	assert.Equal(t, int64(2), report.Stats.Failed)

	failedIDs := make(map[int]bool)
	for _, o := range report.Failures() {
		failedIDs[o.TaskID] = true
	}
	assert.Equal(t, map[int]bool{7: true, 14: true}, failedIDs)
}

// TestEngine_HighLoad pushes a large batch through a wide pool and checks the
// exactly-once accounting survives heavy interleaving.
func TestEngine_HighLoad(t *testing.T) {
	var executed int64
	exec := func(ctx context.Context, task types.Task[int]) (string, error) {
		atomic.AddInt64(&executed, 1)
		return "ok", nil
	}

	coord, err := NewCoordinator(&Config{Workers: 32, QueueSize: 256, ResultBuffer: 256}, exec)
	require.NoError(t, err)

	numTasks := 5000
	tasks := make([]types.Task[int], 0, numTasks)
	for i := 1; i <= numTasks; i++ {
		tasks = append(tasks, types.NewTask(i, i))
	}

	report, err := coord.Run(context.Background(), tasks)
	require.NoError(t, err)

	assert.Equal(t, int64(numTasks), atomic.LoadInt64(&executed))
	assert.Len(t, report.Outcomes, numTasks)
	assert.Equal(t, int64(numTasks), report.Stats.Completed)

	seen := make(map[int]bool, numTasks)
	for _, o := range report.Outcomes {
		assert.False(t, seen[o.TaskID])
		seen[o.TaskID] = true
	}
	assert.Len(t, seen, numTasks)
}

// TestEngine_DurationsAccumulate checks the aggregate duration is the sum of
// per-task durations, not wall time: overlapping workers must each contribute.
func TestEngine_DurationsAccumulate(t *testing.T) {
	exec := func(ctx context.Context, task types.Task[int]) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "ok", nil
	}

	coord, err := NewCoordinator(&Config{Workers: 4, QueueSize: 4, ResultBuffer: 8}, exec)
	require.NoError(t, err)

	tasks := make([]types.Task[int], 0, 8)
	for i := 1; i <= 8; i++ {
		tasks = append(tasks, types.NewTask(i, i))
	}

	report, err := coord.Run(context.Background(), tasks)
	require.NoError(t, err)

	var sum time.Duration
	for _, o := range report.Outcomes {
		assert.GreaterOrEqual(t, o.Duration, 20*time.Millisecond)
		sum += o.Duration
	}
	assert.Equal(t, sum, report.Stats.TotalDuration)
	assert.GreaterOrEqual(t, report.Stats.TotalDuration, 8*20*time.Millisecond)
}

// TestEngine_PanicsDoNotStallJoin traps every task and verifies the run still
// terminates with one Failure outcome per task.
func TestEngine_PanicsDoNotStallJoin(t *testing.T) {
	exec := func(ctx context.Context, task types.Task[int]) (string, error) {
		panic(fmt.Sprintf("task %d blew up", task.ID))
	}

	coord, err := NewCoordinator(&Config{Workers: 4, QueueSize: 4, ResultBuffer: 16}, exec)
	require.NoError(t, err)

	tasks := make([]types.Task[int], 0, 12)
	for i := 1; i <= 12; i++ {
		tasks = append(tasks, types.NewTask(i, i))
	}

	done := make(chan struct{})
	var report *Report
	go func() {
		defer close(done)
		report, err = coord.Run(context.Background(), tasks)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not terminate with panicking tasks")
	}

	require.NoError(t, err)
	assert.Equal(t, int64(12), report.Stats.Failed)
	assert.Equal(t, int64(0), report.Stats.Completed)
	for _, o := range report.Outcomes {
		assert.Contains(t, o.Err.Error(), "panic")
	}
}
