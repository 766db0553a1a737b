// Package room implements the escape room interaction controller: the
// countdown timer, the hint keypad and the staff gate, driven headlessly
// through a DisplayPort and a stream of input events.
package room

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"tableflip.dev/roomtimer/pkg/schedule"
)

// DisplayPort receives rendered views. Implementations must not call back
// into the controller.
type DisplayPort interface {
	RenderTimer(TimerView)
	RenderCode(CodeView)
	RenderGate(GateView)
	Notify(Notice)
}

// InputPort supplies user input events until ctx ends or the stream closes.
type InputPort interface {
	Events(ctx context.Context) <-chan Event
}

// Recorder stores finished sessions.
type Recorder interface {
	Record(Session) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the time source. Defaults to the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithScheduler sets the scheduler for timed work. Defaults to one backed by
// the controller clock.
func WithScheduler(s schedule.Scheduler) Option {
	return func(ctl *Controller) { ctl.sched = s }
}

// WithDisplay sets the display surface.
func WithDisplay(d DisplayPort) Option {
	return func(ctl *Controller) { ctl.display = d }
}

// WithRecorder sets where finished sessions are written.
func WithRecorder(r Recorder) Option {
	return func(ctl *Controller) { ctl.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(ctl *Controller) { ctl.log = l }
}

// WithSink routes scheduled callbacks. By default they are dispatched
// directly; a UI event loop can instead queue them onto its own goroutine.
func WithSink(sink func(Event)) Option {
	return func(ctl *Controller) { ctl.sink = sink }
}

// Controller owns the room state and serializes every transition.
type Controller struct {
	mu       sync.Mutex
	settings Settings
	table    Lookup
	state    State
	clock    clockwork.Clock
	sched    schedule.Scheduler
	handles  [slotCount]schedule.Handle
	display  DisplayPort
	recorder Recorder
	sink     func(Event)
	log      zerolog.Logger
}

// New returns a controller in the boot state. Call Boot to start the clock
// refresh and draw the first frame.
func New(settings Settings, table Lookup, opts ...Option) *Controller {
	settings = settings.withDefaults()
	c := &Controller{
		settings: settings,
		table:    table,
		state:    NewState(settings),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = clockwork.NewRealClock()
	}
	if c.sched == nil {
		c.sched = schedule.NewClock(c.clock)
	}
	if c.sink == nil {
		c.sink = c.Dispatch
	}
	return c
}

// Boot arms the clock refresh and renders the initial views.
func (c *Controller) Boot() {
	c.Dispatch(Booted{})
}

// Settings returns the controller configuration.
func (c *Controller) Settings() Settings { return c.settings }

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch applies one event. Transitions never interleave.
func (c *Controller) Dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	prev := c.state
	next, effects := Step(c.settings, c.table, prev, now, ev)
	c.state = next

	if f, ok := ev.(Fired); !ok || f.Slot != SlotTick {
		c.log.Debug().
			Str("event", Describe(ev)).
			Stringer("status", next.Timer.Status).
			Stringer("gate", next.Gate.Stage).
			Int("digits", len(next.Code.Digits)).
			Msg("dispatch")
	}
	if prev.Timer.Status != next.Timer.Status {
		c.log.Info().
			Stringer("from", prev.Timer.Status).
			Stringer("to", next.Timer.Status).
			Dur("time_left", next.Timer.TimeLeft).
			Msg("timer status changed")
	}

	for _, fx := range effects {
		c.apply(fx)
	}
	c.render(now)
}

// Run dispatches events from in until the stream closes or ctx is done.
func (c *Controller) Run(ctx context.Context, in InputPort) error {
	events := in.Events(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.Dispatch(ev)
		}
	}
}

func (c *Controller) apply(fx Effect) {
	switch v := fx.(type) {
	case Cancel:
		if h := c.handles[v.Slot]; h != nil {
			h.Cancel()
			c.handles[v.Slot] = nil
		}
	case Schedule:
		if h := c.handles[v.Slot]; h != nil {
			h.Cancel()
		}
		fired := Fired{Slot: v.Slot, Token: v.Token}
		sink := c.sink
		c.handles[v.Slot] = c.sched.Schedule(v.After, func() { sink(fired) })
	case Notify:
		switch v.Notice.Kind {
		case NoticeAuthFailure:
			c.log.Warn().Msg("admin password rejected")
		default:
			c.log.Info().Stringer("notice", v.Notice.Kind).Msg("notice")
		}
		if c.display != nil {
			c.display.Notify(v.Notice)
		}
	case SessionEnded:
		sess := v.Session
		sess.ID = uuid.NewString()
		c.log.Info().
			Str("session_id", sess.ID).
			Str("outcome", string(sess.Outcome)).
			Int("hints_used", sess.HintsUsed).
			Dur("time_left", sess.TimeLeft).
			Msg("session ended")
		if c.recorder == nil {
			return
		}
		if err := c.recorder.Record(sess); err != nil {
			c.log.Error().Err(err).Str("session_id", sess.ID).Msg("failed to record session")
		}
	}
}

func (c *Controller) render(now time.Time) {
	if c.display == nil {
		return
	}
	c.display.RenderTimer(TimerViewOf(c.settings, c.state, now))
	c.display.RenderCode(CodeViewOf(c.settings, c.state))
	c.display.RenderGate(GateViewOf(c.state))
}
