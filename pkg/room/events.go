package room

import (
	"fmt"
	"time"
)

// Event is an input to the controller: a user action or a scheduled callback.
type Event interface {
	isEvent()
}

// Booted arms the periodic work that runs for the life of the controller.
type Booted struct{}

// DigitPressed is a keypad press. Digit is a single character '0'-'9'.
type DigitPressed struct{ Digit string }

// TitleTapped counts toward the gesture that opens the admin gate.
type TitleTapped struct{}

// BackgroundTapped counts toward the gesture that closes the admin gate. Only
// taps on the gate background, not its content, should be reported.
type BackgroundTapped struct{}

// StartPressed is the start button.
type StartPressed struct{}

// StopPressed is the stop button.
type StopPressed struct{}

// ResetPressed is the reset button.
type ResetPressed struct{}

// PasswordSubmitted carries the staff password attempt.
type PasswordSubmitted struct{ Input string }

// HintDismissed is the popup close button.
type HintDismissed struct{}

// CancelPressed is the cancel (escape) key.
type CancelPressed struct{}

// Fired is delivered when the callback scheduled in Slot comes due. Fires
// whose Token no longer matches the state are stale and ignored.
type Fired struct {
	Slot  Slot
	Token uint64
}

func (Booted) isEvent()            {}
func (DigitPressed) isEvent()      {}
func (TitleTapped) isEvent()       {}
func (BackgroundTapped) isEvent()  {}
func (StartPressed) isEvent()      {}
func (StopPressed) isEvent()       {}
func (ResetPressed) isEvent()      {}
func (PasswordSubmitted) isEvent() {}
func (HintDismissed) isEvent()     {}
func (CancelPressed) isEvent()     {}
func (Fired) isEvent()             {}

// Describe renders an event for logs. Password input is never included.
func Describe(ev Event) string {
	switch v := ev.(type) {
	case Booted:
		return "booted"
	case DigitPressed:
		return fmt.Sprintf("digit:%q", v.Digit)
	case TitleTapped:
		return "title-tap"
	case BackgroundTapped:
		return "background-tap"
	case StartPressed:
		return "start"
	case StopPressed:
		return "stop"
	case ResetPressed:
		return "reset"
	case PasswordSubmitted:
		return "password"
	case HintDismissed:
		return "dismiss"
	case CancelPressed:
		return "cancel"
	case Fired:
		return fmt.Sprintf("fired:%s#%d", v.Slot, v.Token)
	default:
		return fmt.Sprintf("%T", ev)
	}
}

// Effect is work a transition asks the controller to carry out.
type Effect interface {
	isEffect()
}

// Schedule asks for a Fired{Slot, Token} event after After. Any callback still
// pending in the slot must be cancelled first.
type Schedule struct {
	Slot  Slot
	After time.Duration
	Token uint64
}

// Cancel drops the pending callback in Slot.
type Cancel struct{ Slot Slot }

// Notify surfaces a one-off notice to the display.
type Notify struct{ Notice Notice }

// SessionEnded reports a finished game for the history journal.
type SessionEnded struct{ Session Session }

func (Schedule) isEffect()     {}
func (Cancel) isEffect()       {}
func (Notify) isEffect()       {}
func (SessionEnded) isEffect() {}

// NoticeKind classifies notices.
type NoticeKind int

const (
	NoticeTimeOver NoticeKind = iota
	NoticeAuthFailure
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeTimeOver:
		return "time-over"
	case NoticeAuthFailure:
		return "auth-failure"
	default:
		return "unknown"
	}
}

// Notice is a one-off message such as the time-over alert.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Outcome is how a session ended.
type Outcome string

const (
	OutcomeTimeOver Outcome = "time_over"
	OutcomeReset    Outcome = "reset"
)

// Session summarizes one game from its first start to time over or reset.
type Session struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Outcome   Outcome       `json:"outcome"`
	HintsUsed int           `json:"hints_used"`
	TimeLeft  time.Duration `json:"time_left"`
}
