package room

import "time"

// Status is the timer phase.
type Status int

const (
	StatusStopped Status = iota
	StatusReset
	StatusQueuedStart
	StatusRunning
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusReset:
		return "reset"
	case StatusQueuedStart:
		return "queued-start"
	case StatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Stage is the admin gate phase.
type Stage int

const (
	StageHidden Stage = iota
	StagePasswordPrompt
	StageControls
)

func (s Stage) String() string {
	switch s {
	case StageHidden:
		return "hidden"
	case StagePasswordPrompt:
		return "password"
	case StageControls:
		return "controls"
	default:
		return "unknown"
	}
}

// Action is an admin command waiting for the gate to close. Only start queues.
type Action int

const (
	ActionNone Action = iota
	ActionStart
)

// Slot names a piece of scheduled work. Each slot holds at most one pending
// callback.
type Slot int

const (
	SlotTick Slot = iota
	SlotClock
	SlotOpenGesture
	SlotCloseGesture
	SlotInvalidFlash
	slotCount
)

func (s Slot) String() string {
	switch s {
	case SlotTick:
		return "tick"
	case SlotClock:
		return "clock"
	case SlotOpenGesture:
		return "open-gesture"
	case SlotCloseGesture:
		return "close-gesture"
	case SlotInvalidFlash:
		return "invalid-flash"
	default:
		return "unknown"
	}
}

// TimerState tracks the countdown. StartEpoch is set only while Running.
type TimerState struct {
	Status     Status
	TimeLeft   time.Duration
	StartEpoch time.Time

	queuedFrom Status
}

// Popup is the overlay shown over the keypad.
type Popup struct {
	Shown    bool
	Text     string
	TimeOver bool
}

// CodeState tracks keypad entry.
type CodeState struct {
	Digits   string
	Invalid  bool
	Disabled bool
	Popup    Popup
}

// GateState tracks the admin panel. Prompts counts how many times the
// password field had to be cleared.
type GateState struct {
	Stage   Stage
	Queued  Action
	Prompts int
}

// Visible reports whether any part of the gate is on screen.
func (g GateState) Visible() bool { return g.Stage != StageHidden }

// Authenticated reports whether the controls are unlocked.
func (g GateState) Authenticated() bool { return g.Stage == StageControls }

// GestureState holds the tap counters for opening and closing the gate.
type GestureState struct {
	Open  int
	Close int
}

// State is every piece of mutable controller state. It is a plain value so a
// transition can be replayed from any snapshot.
type State struct {
	Timer     TimerState
	Code      CodeState
	Gate      GateState
	Gestures  GestureState
	HintsUsed int

	// SessionStart is the first Running transition since boot or the last
	// ended session; zero when no session is in progress.
	SessionStart time.Time

	gens [slotCount]uint64
}

// NewState returns the boot state: stopped with the full duration remaining.
func NewState(settings Settings) State {
	settings = settings.withDefaults()
	return State{
		Timer: TimerState{
			Status:   StatusStopped,
			TimeLeft: settings.TotalDuration,
		},
	}
}

// Token returns the generation of the callback currently expected in slot.
func (s State) Token(slot Slot) uint64 {
	return s.gens[slot]
}
