package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pl728/taskengine/pkg/types"
)

func TestQueue_SendReceive(t *testing.T) {
	queue := NewQueue[string](4)
	ctx := context.Background()

	require.NoError(t, queue.Send(ctx, types.NewTask(1, "a")))
	require.NoError(t, queue.Send(ctx, types.NewTask(2, "b")))

	task, err := queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, "a", task.Payload)

	task, err = queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, task.ID)
}

func TestQueue_SingleProducerFIFO(t *testing.T) {
	queue := NewQueue[int](16)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, queue.Send(ctx, types.NewTask(i, i)))
	}

	for i := 0; i < 10; i++ {
		task, err := queue.Receive(ctx)
		require.NoError(t, err)
		assert.Equal(t, i, task.ID)
	}
}

func TestQueue_SendAfterClose(t *testing.T) {
	queue := NewQueue[int](4)
	ctx := context.Background()

	require.NoError(t, queue.Send(ctx, types.NewTask(1, 0)))
	require.NoError(t, queue.Close())

	// a late send must fail immediately, never block or silently succeed
	err := queue.Send(ctx, types.NewTask(2, 0))
	assert.ErrorIs(t, err, types.ErrQueueClosed)
}

func TestQueue_DoubleClose(t *testing.T) {
	queue := NewQueue[int](1)

	require.NoError(t, queue.Close())
	assert.ErrorIs(t, queue.Close(), types.ErrQueueClosed)
}

func TestQueue_DrainAfterClose(t *testing.T) {
	queue := NewQueue[int](4)
	ctx := context.Background()

	require.NoError(t, queue.Send(ctx, types.NewTask(1, 0)))
	require.NoError(t, queue.Send(ctx, types.NewTask(2, 0)))
	require.NoError(t, queue.Close())

	// buffered tasks stay receivable after close
	task, err := queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)

	task, err = queue.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, task.ID)

	// then end-of-stream
	_, err = queue.Receive(ctx)
	assert.ErrorIs(t, err, types.ErrQueueDrained)
}

func TestQueue_ReceiveOnEmptyClosed(t *testing.T) {
	queue := NewQueue[int](1)
	require.NoError(t, queue.Close())

	_, err := queue.Receive(context.Background())
	assert.ErrorIs(t, err, types.ErrQueueDrained)
}

func TestQueue_ReceiveContextCancelled(t *testing.T) {
	queue := NewQueue[int](1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := queue.Receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueue_SendContextCancelled(t *testing.T) {
	queue := NewQueue[int](0) // rendezvous queue, no receiver

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := queue.Send(ctx, types.NewTask(1, 0))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueue_CompetingConsumers(t *testing.T) {
	queue := NewQueue[int](64)
	ctx := context.Background()

	numTasks := 50
	for i := 1; i <= numTasks; i++ {
		require.NoError(t, queue.Send(ctx, types.NewTask(i, i)))
	}
	require.NoError(t, queue.Close())

	// several consumers drain one queue; each task is delivered exactly once
	var mu sync.Mutex
	seen := make(map[int]int)

	var wg sync.WaitGroup
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				task, err := queue.Receive(ctx)
				if err != nil {
					return
				}
				mu.Lock()
				seen[task.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, numTasks)
	for id, count := range seen {
		assert.Equal(t, 1, count, "task %d delivered %d times", id, count)
	}
}

func TestQueue_LenCap(t *testing.T) {
	queue := NewQueue[int](8)
	ctx := context.Background()

	assert.Equal(t, 0, queue.Len())
	assert.Equal(t, 8, queue.Cap())

	require.NoError(t, queue.Send(ctx, types.NewTask(1, 0)))
	assert.Equal(t, 1, queue.Len())
	assert.False(t, queue.IsClosed())

	require.NoError(t, queue.Close())
	assert.True(t, queue.IsClosed())
}

func BenchmarkQueue_SendReceive(b *testing.B) {
	queue := NewQueue[int](1024)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, err := queue.Receive(ctx); err != nil {
				return
			}
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = queue.Send(ctx, types.NewTask(i, i))
	}
	b.StopTimer()

	_ = queue.Close()
	<-done
}
