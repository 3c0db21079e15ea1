package playhead

import (
	"context"
	"sync"
	"time"
)

// TickSource schedules a repeating callback.
//
// Start returns a stop func. After stop returns, fn is never called again.
// Stop is idempotent. Cancelling ctx has the same effect as calling stop.
type TickSource interface {
	Start(ctx context.Context, interval time.Duration, fn func()) (stop func())
}

// IntervalSource is the wall-clock TickSource backed by time.Ticker.
type IntervalSource struct{}

// Start launches one goroutine that calls fn every interval until stopped.
func (IntervalSource) Start(ctx context.Context, interval time.Duration, fn func()) func() {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				// Re-check so a tick racing with stop is dropped.
				if ctx.Err() != nil {
					return
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
