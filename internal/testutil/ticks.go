package testutil

import (
	"context"
	"sync"
	"time"
)

// ManualSource is a tick source driven by the test instead of a timer.
//
// It satisfies playhead.TickSource. Only the most recently started callback
// is live; Fire calls it synchronously. Once stop has been called (or a newer
// Start replaced it) Fire does nothing, mirroring the guarantee that no tick
// is delivered after stop returns.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualSource struct {
	mu       sync.Mutex
	fn       func()
	token    int
	started  int
	stopped  int
	interval time.Duration
}

// NewManualSource creates an idle source.
func NewManualSource() *ManualSource {
	return &ManualSource{}
}

// Start records fn as the live callback and returns its stop func.
func (m *ManualSource) Start(ctx context.Context, interval time.Duration, fn func()) func() {
	m.mu.Lock()
	m.started++
	m.token = m.started
	m.fn = fn
	m.interval = interval
	token := m.token
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.stopped++
			if m.token == token {
				m.fn = nil
			}
		})
	}
}

// Fire delivers one tick. Returns false if no callback is live.
func (m *ManualSource) Fire() bool {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()

	if fn == nil {
		return false
	}
	fn()
	return true
}

// FireN delivers up to n ticks and returns how many were delivered.
func (m *ManualSource) FireN(n int) int {
	fired := 0
	for i := 0; i < n; i++ {
		if !m.Fire() {
			break
		}
		fired++
	}
	return fired
}

// Active reports whether a callback is live.
func (m *ManualSource) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}

// Started returns how many times Start has been called.
func (m *ManualSource) Started() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Stopped returns how many distinct stop funcs have been called.
func (m *ManualSource) Stopped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// Interval returns the interval passed to the latest Start.
func (m *ManualSource) Interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interval
}
