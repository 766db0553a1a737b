package room

import (
	"fmt"
	"time"

	"tableflip.dev/roomtimer/pkg/timeutil"
)

// TimerView is the countdown as the display should draw it.
type TimerView struct {
	Remaining   string
	Progress    float64
	RingOffset  float64
	Status      Status
	StatusText  string
	Buttons     Buttons
	HintCounter string
	WallClock   string
}

// CodeView is the keypad entry as the display should draw it.
type CodeView struct {
	Boxes    []string
	Filled   int
	Invalid  bool
	Disabled bool
	Popup    Popup
}

// GateView is the admin panel as the display should draw it. The password
// field must be cleared and focused whenever InputRevision changes.
type GateView struct {
	Stage         Stage
	Queued        bool
	Buttons       Buttons
	InputRevision int
}

// TimerViewOf renders the timer portion of s.
func TimerViewOf(settings Settings, s State, now time.Time) TimerView {
	settings = settings.withDefaults()
	progress := float64(s.Timer.TimeLeft) / float64(settings.TotalDuration)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	used := s.HintsUsed
	if used > settings.HintCap {
		used = settings.HintCap
	}
	return TimerView{
		Remaining:   timeutil.FormatClock(s.Timer.TimeLeft),
		Progress:    progress,
		RingOffset:  settings.RingCircumference * (1 - progress),
		Status:      s.Timer.Status,
		StatusText:  StatusText(settings.Labels, s.Timer.Status),
		Buttons:     ButtonsFor(s.Timer.Status),
		HintCounter: fmt.Sprintf("%d/%d", used, settings.HintCap),
		WallClock:   now.Format("15:04"),
	}
}

// CodeViewOf renders the keypad portion of s.
func CodeViewOf(settings Settings, s State) CodeView {
	settings = settings.withDefaults()
	boxes := make([]string, settings.MaxCodeLength)
	for i := 0; i < len(s.Code.Digits) && i < len(boxes); i++ {
		boxes[i] = s.Code.Digits[i : i+1]
	}
	return CodeView{
		Boxes:    boxes,
		Filled:   len(s.Code.Digits),
		Invalid:  s.Code.Invalid,
		Disabled: s.Code.Disabled,
		Popup:    s.Code.Popup,
	}
}

// GateViewOf renders the admin portion of s.
func GateViewOf(s State) GateView {
	return GateView{
		Stage:         s.Gate.Stage,
		Queued:        s.Gate.Queued == ActionStart,
		Buttons:       ButtonsFor(s.Timer.Status),
		InputRevision: s.Gate.Prompts,
	}
}

// StatusText maps a status to its display string.
func StatusText(l Labels, status Status) string {
	switch status {
	case StatusRunning:
		return l.Running
	case StatusQueuedStart:
		return l.Queued
	case StatusReset:
		return l.Reset
	default:
		return l.Stopped
	}
}
