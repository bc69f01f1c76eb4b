package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_EnqueueThenDequeue(t *testing.T) {
	q := New[string]()
	require.NoError(t, q.Enqueue("x"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestQueue_FIFO(t *testing.T) {
	q := New[int]()
	for i := 1; i <= 5; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	for i := 1; i <= 5; i++ {
		got, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
}

func TestQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := New[string]()

	done := make(chan string, 1)
	go func() {
		got, err := q.Dequeue(context.Background())
		if err == nil {
			done <- got
		}
	}()

	select {
	case <-done:
		t.Fatal("dequeue returned before anything was enqueued")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, q.Enqueue("late"))

	select {
	case got := <-done:
		assert.Equal(t, "late", got)
	case <-time.After(time.Second):
		t.Fatal("dequeue never observed the enqueue")
	}
}

func TestQueue_CancelledDequeueDoesNotLoseItems(t *testing.T) {
	q := New[string]()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	require.ErrorIs(t, <-errCh, context.Canceled)

	// The item enqueued after cancellation is still consumable.
	require.NoError(t, q.Enqueue("survivor"))
	got, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "survivor", got)
}

func TestQueue_CloseFailsFast(t *testing.T) {
	q := New[int]()
	require.NoError(t, q.Enqueue(1))

	q.Close()

	assert.ErrorIs(t, q.Enqueue(2), ErrClosed)
	_, err := q.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrClosed)

	// Closing again is harmless.
	q.Close()
}

func TestQueue_CloseWakesBlockedConsumer(t *testing.T) {
	q := New[int]()

	errCh := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("blocked consumer never observed close")
	}
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := New[int]()
	const producers, perProducer = 4, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = q.Enqueue(i)
			}
		}()
	}

	got := make(chan int, producers*perProducer)
	var consumers sync.WaitGroup
	for c := 0; c < 3; c++ {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for {
				item, err := q.Dequeue(context.Background())
				if err != nil {
					return
				}
				got <- item
			}
		}()
	}

	wg.Wait()
	for len(got) < producers*perProducer {
		time.Sleep(5 * time.Millisecond)
	}
	q.Close()
	consumers.Wait()

	assert.Len(t, got, producers*perProducer)
}
