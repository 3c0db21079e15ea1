package playhead

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSource_TicksUntilStopped(t *testing.T) {
	var n atomic.Int64
	stop := IntervalSource{}.Start(context.Background(), 5*time.Millisecond, func() { n.Add(1) })

	assert.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)

	stop()
	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, n.Load(), "no ticks after stop returns")

	stop() // idempotent
}

func TestIntervalSource_ContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int64
	stop := IntervalSource{}.Start(ctx, 5*time.Millisecond, func() { n.Add(1) })
	defer stop()

	assert.Eventually(t, func() bool { return n.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()
	stop()

	after := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}
