package room

import (
	"crypto/subtle"
	"time"
)

// Lookup resolves a complete keypad code to hint text.
type Lookup interface {
	Lookup(code string) (string, bool)
}

// Buttons is the enablement of the admin controls.
type Buttons struct {
	Start bool
	Stop  bool
	Reset bool
}

// ButtonsFor derives the admin control enablement from the timer status.
func ButtonsFor(status Status) Buttons {
	switch status {
	case StatusRunning:
		return Buttons{Start: false, Stop: true, Reset: true}
	case StatusQueuedStart:
		return Buttons{Start: true, Stop: false, Reset: false}
	case StatusReset:
		return Buttons{Start: true, Stop: false, Reset: false}
	default:
		return Buttons{Start: true, Stop: true, Reset: true}
	}
}

// Step applies ev to s at time now and returns the next state along with the
// effects the caller must carry out. Step has no side effects.
func Step(settings Settings, table Lookup, s State, now time.Time, ev Event) (State, []Effect) {
	m := &machine{settings: settings.withDefaults(), table: table, s: s, now: now}
	m.handle(ev)
	return m.s, m.fx
}

type machine struct {
	settings Settings
	table    Lookup
	s        State
	now      time.Time
	fx       []Effect
}

func (m *machine) handle(ev Event) {
	switch v := ev.(type) {
	case Booted:
		m.schedule(SlotClock, m.settings.ClockInterval)
	case Fired:
		m.fired(v)
	case DigitPressed:
		m.appendDigit(v.Digit)
	case TitleTapped:
		m.titleTap()
	case BackgroundTapped:
		m.backgroundTap()
	case StartPressed:
		if m.control(func(b Buttons) bool { return b.Start }) {
			m.startPressed()
		}
	case StopPressed:
		if m.control(func(b Buttons) bool { return b.Stop }) {
			m.stop()
		}
	case ResetPressed:
		if m.control(func(b Buttons) bool { return b.Reset }) {
			m.reset()
		}
	case PasswordSubmitted:
		m.submitPassword(v.Input)
	case HintDismissed, CancelPressed:
		m.dismiss()
	}
}

func (m *machine) schedule(slot Slot, after time.Duration) {
	m.s.gens[slot]++
	m.fx = append(m.fx, Cancel{Slot: slot}, Schedule{Slot: slot, After: after, Token: m.s.gens[slot]})
}

func (m *machine) cancel(slot Slot) {
	m.s.gens[slot]++
	m.fx = append(m.fx, Cancel{Slot: slot})
}

func (m *machine) fired(f Fired) {
	if f.Slot < 0 || f.Slot >= slotCount || f.Token != m.s.gens[f.Slot] {
		return
	}
	switch f.Slot {
	case SlotTick:
		m.tick()
	case SlotClock:
		m.schedule(SlotClock, m.settings.ClockInterval)
	case SlotOpenGesture:
		m.s.Gestures.Open = 0
	case SlotCloseGesture:
		m.s.Gestures.Close = 0
	case SlotInvalidFlash:
		m.s.Code.Invalid = false
		m.s.Code.Digits = ""
	}
}

// control reports whether an admin button press should act. While the gate
// is on screen the controls must be unlocked; the button policy always applies.
func (m *machine) control(enabled func(Buttons) bool) bool {
	if m.s.Gate.Visible() && !m.s.Gate.Authenticated() {
		return false
	}
	return enabled(ButtonsFor(m.s.Timer.Status))
}

// Timer.

func (m *machine) startPressed() {
	t := &m.s.Timer
	if !m.s.Gate.Visible() {
		m.run()
		return
	}
	if m.s.Gate.Queued == ActionStart {
		m.s.Gate.Queued = ActionNone
		t.Status = t.queuedFrom
		return
	}
	t.queuedFrom = t.Status
	t.Status = StatusQueuedStart
	m.s.Gate.Queued = ActionStart
	m.clearCode()
}

func (m *machine) run() {
	t := &m.s.Timer
	if t.Status == StatusRunning {
		return
	}
	t.Status = StatusRunning
	t.StartEpoch = m.now
	m.s.Gate.Queued = ActionNone
	m.clearCode()
	if m.s.SessionStart.IsZero() {
		m.s.SessionStart = m.now
	}
	m.schedule(SlotTick, m.settings.TickInterval)
}

func (m *machine) stop() {
	t := &m.s.Timer
	t.Status = StatusStopped
	t.StartEpoch = time.Time{}
	m.s.Gate.Queued = ActionNone
	m.cancel(SlotTick)
}

func (m *machine) reset() {
	m.cancel(SlotTick)
	m.endSession(OutcomeReset)
	m.s.Timer = TimerState{Status: StatusReset, TimeLeft: m.settings.TotalDuration}
	m.s.Gate.Queued = ActionNone
	m.s.HintsUsed = 0
	m.s.Code.Disabled = false
}

func (m *machine) tick() {
	t := &m.s.Timer
	if t.Status != StatusRunning {
		return
	}
	left := m.settings.TotalDuration - m.now.Sub(t.StartEpoch)
	if left > m.settings.TotalDuration {
		left = m.settings.TotalDuration
	}
	if left > 0 {
		t.TimeLeft = left
		m.schedule(SlotTick, m.settings.TickInterval)
		return
	}
	t.TimeLeft = 0
	m.stop()
	m.s.Code.Popup = Popup{Shown: true, Text: m.settings.Labels.TimeOver, TimeOver: true}
	m.s.Code.Disabled = true
	m.fx = append(m.fx, Notify{Notice: Notice{Kind: NoticeTimeOver, Text: m.settings.Labels.TimeOver}})
	m.endSession(OutcomeTimeOver)
}

func (m *machine) endSession(outcome Outcome) {
	if m.s.SessionStart.IsZero() {
		return
	}
	m.fx = append(m.fx, SessionEnded{Session: Session{
		StartedAt: m.s.SessionStart,
		EndedAt:   m.now,
		Outcome:   outcome,
		HintsUsed: m.s.HintsUsed,
		TimeLeft:  m.s.Timer.TimeLeft,
	}})
	m.s.SessionStart = time.Time{}
}

// Code entry.

func (m *machine) appendDigit(d string) {
	c := &m.s.Code
	if len(d) != 1 || d[0] < '0' || d[0] > '9' {
		return
	}
	if c.Disabled || c.Popup.Shown || c.Invalid || len(c.Digits) >= m.settings.MaxCodeLength {
		return
	}
	c.Digits += d
	if len(c.Digits) == m.settings.MaxCodeLength {
		m.resolve()
	}
}

func (m *machine) resolve() {
	c := &m.s.Code
	var text string
	var ok bool
	if m.table != nil {
		text, ok = m.table.Lookup(c.Digits)
	}
	if !ok {
		c.Invalid = true
		m.schedule(SlotInvalidFlash, m.settings.InvalidFlash)
		return
	}
	c.Popup = Popup{Shown: true, Text: text}
	m.s.HintsUsed++
}

func (m *machine) dismiss() {
	if !m.s.Code.Popup.Shown {
		return
	}
	m.s.Code.Popup = Popup{}
	m.clearCode()
}

func (m *machine) clearCode() {
	c := &m.s.Code
	c.Digits = ""
	if c.Invalid {
		c.Invalid = false
		m.cancel(SlotInvalidFlash)
	}
}

// Admin gate.

func (m *machine) titleTap() {
	if m.s.Gate.Visible() {
		return
	}
	m.s.Gestures.Open++
	if m.s.Gestures.Open >= m.settings.GestureTaps {
		m.s.Gestures.Open = 0
		m.s.Gate.Stage = StagePasswordPrompt
		m.s.Gate.Prompts++
	}
	m.schedule(SlotOpenGesture, m.settings.GestureWindow)
}

func (m *machine) backgroundTap() {
	if !m.s.Gate.Visible() {
		return
	}
	m.s.Gestures.Close++
	if m.s.Gestures.Close >= m.settings.GestureTaps {
		m.s.Gestures.Close = 0
		m.closeGate()
	}
	m.schedule(SlotCloseGesture, m.settings.GestureWindow)
}

func (m *machine) closeGate() {
	m.s.Gate.Stage = StageHidden
	m.clearCode()
	if m.s.Gate.Queued == ActionStart {
		m.s.Gate.Queued = ActionNone
		m.s.Timer.Status = m.s.Timer.queuedFrom
		m.run()
	}
}

func (m *machine) submitPassword(input string) {
	if m.s.Gate.Stage != StagePasswordPrompt {
		return
	}
	if subtle.ConstantTimeCompare([]byte(input), []byte(m.settings.Secret)) == 1 {
		m.s.Gate.Stage = StageControls
		return
	}
	m.s.Gate.Prompts++
	m.fx = append(m.fx, Notify{Notice: Notice{Kind: NoticeAuthFailure, Text: m.settings.Labels.AuthFailure}})
}
