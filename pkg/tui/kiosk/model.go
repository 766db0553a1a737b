// Package kiosk is the full-screen terminal surface for the room timer. The
// Model doubles as the controller's display and turns key presses into room
// events.
package kiosk

import (
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/tui/theme"
)

// GestureKey is tapped three times quickly to open or close the staff panel.
const GestureKey = "`"

type bootMsg struct{}

// eventMsg carries a scheduled callback onto the program goroutine.
type eventMsg struct{ ev room.Event }

// Model renders the room and forwards input to the controller.
type Model struct {
	dispatch func(room.Event)
	theme    theme.Theme

	width  int
	height int

	timer room.TimerView
	code  room.CodeView
	gate  room.GateView

	input    textinput.Model
	revision int
	alert    string
	pending  []tea.Cmd
}

// New returns a model. Attach a dispatcher before the program starts.
func New(th theme.Theme) *Model {
	ti := textinput.New()
	ti.Placeholder = "password"
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.VirtualCursor = true
	return &Model{
		theme: th,
		input: ti,
	}
}

// Attach sets where input events are sent.
func (m *Model) Attach(dispatch func(room.Event)) {
	m.dispatch = dispatch
}

// RenderTimer implements room.DisplayPort.
func (m *Model) RenderTimer(v room.TimerView) { m.timer = v }

// RenderCode implements room.DisplayPort.
func (m *Model) RenderCode(v room.CodeView) { m.code = v }

// RenderGate implements room.DisplayPort.
func (m *Model) RenderGate(v room.GateView) {
	if v.InputRevision != m.revision {
		m.revision = v.InputRevision
		m.input.Reset()
		if v.Stage == room.StagePasswordPrompt {
			m.pending = append(m.pending, m.input.Focus())
		}
	}
	if v.Stage != room.StagePasswordPrompt {
		m.input.Blur()
	}
	if v.Stage == room.StageHidden {
		m.alert = ""
	}
	m.gate = v
}

// Notify implements room.DisplayPort.
func (m *Model) Notify(n room.Notice) {
	if n.Kind == room.NoticeAuthFailure {
		m.alert = n.Text
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return func() tea.Msg { return bootMsg{} }
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
	case bootMsg:
		m.send(room.Booted{})
	case eventMsg:
		m.send(v.ev)
	case tea.KeyPressMsg:
		if v.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if cmd := m.handleKey(v); cmd != nil {
			cmds = append(cmds, cmd)
		}
	default:
		if m.gate.Stage == room.StagePasswordPrompt {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, m.pending...)
	m.pending = nil
	return m, tea.Batch(cmds...)
}

func (m *Model) send(ev room.Event) {
	if m.dispatch != nil {
		m.dispatch(ev)
	}
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	switch m.gate.Stage {
	case room.StagePasswordPrompt:
		switch key {
		case GestureKey:
			m.send(room.BackgroundTapped{})
		case "enter":
			m.alert = ""
			m.send(room.PasswordSubmitted{Input: m.input.Value()})
		case "esc":
			m.input.Reset()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return cmd
		}
	case room.StageControls:
		switch key {
		case GestureKey:
			m.send(room.BackgroundTapped{})
		case "s":
			m.send(room.StartPressed{})
		case "x":
			m.send(room.StopPressed{})
		case "r":
			m.send(room.ResetPressed{})
		}
	default:
		switch key {
		case GestureKey:
			m.send(room.TitleTapped{})
		case "enter", "space", " ":
			m.send(room.HintDismissed{})
		case "esc":
			m.send(room.CancelPressed{})
		case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
			m.send(room.DigitPressed{Digit: key})
		}
	}
	return nil
}
