package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct {
	EntityID string
	From     string
	To       string
}

func TestQueue(t *testing.T) {
	config := DefaultConfig()
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[transition](config)

	ctx := context.Background()
	payload := transition{EntityID: "NCAR_000001_202310", From: "Open", To: "Action Plan Submitted"}

	require.NoError(t, queue.Publish(ctx, &payload))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, payload, *message.T())

	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
}

func TestQueueRetries(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = 10 * time.Millisecond
	queue := NewQueue[transition](config)

	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &transition{EntityID: "retry"}))

	for attempt := 0; attempt < 3; attempt++ {
		consumeCtx, cancel := context.WithTimeout(ctx, time.Second)
		message, err := queue.Consume(consumeCtx)
		cancel()
		require.NoError(t, err, "attempt %d", attempt)
		assert.NoError(t, message.Nack(nil))
	}

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.DLQSize())
}

func TestQueueDoesNotBlockWhenFull(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 2
	queue := NewQueue[transition](config)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Publish(ctx, &transition{EntityID: fmt.Sprintf("n%d", i)}))
	}
	assert.Equal(t, 2, queue.Size())
	assert.Equal(t, 3, queue.Dropped())
}

func TestQueueDiscardsOverflow(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 4
	queue := NewQueue[transition](config)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		require.NoError(t, queue.Publish(ctx, &transition{EntityID: fmt.Sprintf("n%d", i)}))
	}
	assert.Equal(t, 4, queue.Size())
	assert.Equal(t, 9996, queue.Dropped())

	for i := 0; i < 4; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("n%d", i), message.T().EntityID)
		assert.NoError(t, message.Ack())
	}
	assert.Equal(t, 0, queue.Size())

	consumeCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(consumeCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueConcurrency(t *testing.T) {
	config := DefaultConfig()
	config.QueueBuffer = 1000
	queue := NewQueue[transition](config)

	ctx := context.Background()
	concurrency := 10
	messagesPerProducer := 10

	var wg sync.WaitGroup
	wg.Add(concurrency * 2)

	var consumedCount int
	var consumedMu sync.Mutex

	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				message, err := queue.Consume(ctx)
				if err != nil {
					t.Errorf("Error consuming: %v", err)
					return
				}
				assert.NoError(t, message.Ack())
				consumedMu.Lock()
				consumedCount++
				consumedMu.Unlock()
			}
		}()
	}

	for i := 0; i < concurrency; i++ {
		go func(producerID int) {
			defer wg.Done()
			for j := 0; j < messagesPerProducer; j++ {
				payload := transition{EntityID: fmt.Sprintf("p%d-m%d", producerID, j)}
				if err := queue.Publish(ctx, &payload); err != nil {
					t.Errorf("Error publishing: %v", err)
				}
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Test timed out")
	}

	assert.Equal(t, concurrency*messagesPerProducer, consumedCount)
	assert.Equal(t, 0, queue.Size())
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[transition](DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &transition{EntityID: "test"}))

	ctxWithTimeout, cancelTimeout := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(ctxWithTimeout)
	assert.Error(t, err)

	require.NoError(t, queue.Publish(context.Background(), &transition{EntityID: "test"}))
	message, err := queue.Consume(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, message)
}
