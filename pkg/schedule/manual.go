package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Manual is a Scheduler driven by a fake clock. Callbacks only run from
// Advance, synchronously and in deadline order, which makes scenario replays
// deterministic.
type Manual struct {
	mu      sync.Mutex
	clock   *clockwork.FakeClock
	seq     uint64
	pending []*manualEntry
}

type manualEntry struct {
	owner *Manual
	at    time.Time
	seq   uint64
	fn    func()
	done  bool
}

// NewManual returns a Manual scheduler reading time from clock. A nil clock
// starts a fresh fake clock.
func NewManual(clock *clockwork.FakeClock) *Manual {
	if clock == nil {
		clock = clockwork.NewFakeClock()
	}
	return &Manual{clock: clock}
}

// Clock exposes the fake clock so callers can share it with the code under test.
func (m *Manual) Clock() *clockwork.FakeClock { return m.clock }

// Schedule implements Scheduler.
func (m *Manual) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	e := &manualEntry{owner: m, at: m.clock.Now().Add(d), seq: m.seq, fn: fn}
	m.pending = append(m.pending, e)
	return e
}

// Pending returns the number of callbacks still waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback that comes due
// at its own deadline. Callbacks scheduled while advancing run too if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)
	for {
		e := m.popDue(target)
		if e == nil {
			break
		}
		if now := m.clock.Now(); e.at.After(now) {
			m.clock.Advance(e.at.Sub(now))
		}
		e.fn()
	}
	if now := m.clock.Now(); target.After(now) {
		m.clock.Advance(target.Sub(now))
	}
}

func (m *Manual) popDue(target time.Time) *manualEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := -1
	for i, e := range m.pending {
		if e.at.After(target) {
			continue
		}
		if idx < 0 || e.at.Before(m.pending[idx].at) ||
			(e.at.Equal(m.pending[idx].at) && e.seq < m.pending[idx].seq) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	e := m.pending[idx]
	m.pending = append(m.pending[:idx], m.pending[idx+1:]...)
	e.done = true
	return e
}

func (e *manualEntry) Cancel() bool {
	m := e.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.done {
		return false
	}
	e.done = true
	for i, p := range m.pending {
		if p == e {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			break
		}
	}
	return true
}
