// Package schedule provides cancellable one-shot callbacks. Every caller keeps
// the Handle of its previous callback and cancels it before scheduling again.
package schedule

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Handle cancels a scheduled callback. Cancel reports whether the callback was
// still pending.
type Handle interface {
	Cancel() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) Handle
}

// Clock schedules callbacks on a clockwork clock. Callbacks run on their own
// goroutine, so fn must hand its work to a serialized owner.
type Clock struct {
	clock clockwork.Clock
}

// NewClock returns a Scheduler backed by c. A nil clock uses the real clock.
func NewClock(c clockwork.Clock) *Clock {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	return &Clock{clock: c}
}

// Schedule implements Scheduler.
func (s *Clock) Schedule(d time.Duration, fn func()) Handle {
	return timerHandle{t: s.clock.AfterFunc(d, fn)}
}

type timerHandle struct {
	t clockwork.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}
