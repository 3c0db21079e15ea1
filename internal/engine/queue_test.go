package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/layerdeck/internal/ir"
)

func TestEventQueue_EnqueueDequeue(t *testing.T) {
	q := newEventQueue()

	ok := q.Enqueue(Select("item-1"))
	require.True(t, ok, "enqueue should succeed")

	got, ok := q.TryDequeue()
	require.True(t, ok, "dequeue should succeed")
	assert.Equal(t, EventSelect, got.Type)
	assert.Equal(t, ir.ItemID("item-1"), got.ID)
}

func TestEventQueue_FIFO(t *testing.T) {
	q := newEventQueue()

	for _, id := range []ir.ItemID{"A", "B", "C"} {
		q.Enqueue(Select(id))
	}

	for _, want := range []ir.ItemID{"A", "B", "C"} {
		got, ok := q.TryDequeue()
		require.True(t, ok)
		assert.Equal(t, want, got.ID)
	}
}

func TestEventQueue_TryDequeue_Empty(t *testing.T) {
	q := newEventQueue()

	_, ok := q.TryDequeue()
	assert.False(t, ok, "dequeue from empty queue should return false")
}

func TestEventQueue_Close(t *testing.T) {
	q := newEventQueue()
	q.Enqueue(Toggle())
	q.Close()

	assert.False(t, q.Enqueue(Toggle()), "enqueue after close should fail")

	// Pending events survive close.
	_, ok := q.TryDequeue()
	assert.True(t, ok)

	// The signal from the first enqueue is still buffered.
	select {
	case _, open := <-q.Wait():
		assert.True(t, open, "pending signal delivered first")
	default:
		t.Fatal("pending signal should be readable")
	}

	select {
	case _, open := <-q.Wait():
		assert.False(t, open, "wait channel should be closed")
	default:
		t.Fatal("wait channel should be readable after close")
	}

	q.Close()
}

func TestEventQueue_SignalCoalesces(t *testing.T) {
	q := newEventQueue()
	q.Enqueue(Toggle())
	q.Enqueue(Toggle())

	<-q.Wait()
	select {
	case <-q.Wait():
		t.Fatal("second signal should have been coalesced")
	default:
	}
	assert.Equal(t, 2, q.Len())
}

func TestEventQueue_ConcurrentEnqueue(t *testing.T) {
	q := newEventQueue()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Enqueue(Tick(1))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1000, q.Len())
}
