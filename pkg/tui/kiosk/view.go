package kiosk

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/roomtimer/pkg/room"
)

const (
	ringWidth    = 40
	popupWidth   = 44
	minViewWidth = 20
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.gate.Stage {
	case room.StagePasswordPrompt:
		body = m.passwordView()
	case room.StageControls:
		body = m.controlsView()
	default:
		body = m.roomView()
	}
	if m.width <= 0 || m.height <= 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) roomView() string {
	sections := []string{m.timerView()}
	if m.code.Popup.Shown {
		sections = append(sections, m.popupView())
	} else {
		sections = append(sections, m.keypadView())
	}
	sections = append(sections, m.theme.Help.Render("digits enter code · enter dismiss"))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m *Model) timerView() string {
	th := m.theme.Timer
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		th.Status.Render(m.timer.StatusText),
		"   ",
		th.Wall.Render(m.timer.WallClock),
	)
	lines := []string{
		header,
		"",
		th.Clock.Render(m.timer.Remaining),
		m.theme.Ring(m.timer.Progress, ringWidth),
		"",
		th.Counter.Render("hints " + m.timer.HintCounter),
	}
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) keypadView() string {
	th := m.theme.Keypad
	boxes := make([]string, 0, len(m.code.Boxes))
	for _, digit := range m.code.Boxes {
		style := th.Box
		switch {
		case m.code.Disabled:
			style = th.Disabled
		case m.code.Invalid:
			style = th.Invalid
		case digit != "":
			style = th.Filled
		}
		if digit == "" {
			digit = " "
		}
		boxes = append(boxes, style.Render(digit))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m *Model) popupView() string {
	th := m.theme.Popup
	width := popupWidth
	if m.width > 0 && m.width-8 < width {
		width = max(m.width-8, minViewWidth)
	}
	text := th.Text.Render(wordwrap.String(m.code.Popup.Text, width))
	if m.code.Popup.TimeOver {
		return th.TimeOver.Render(text)
	}
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left,
		text,
		"",
		th.Hint.Render("enter ok · esc cancel"),
	))
}

func (m *Model) passwordView() string {
	th := m.theme.Gate
	lines := []string{
		th.Title.Render("Staff access"),
		"",
		m.input.View(),
	}
	if m.alert != "" {
		lines = append(lines, "", th.Alert.Render(m.alert))
	}
	lines = append(lines, "", m.theme.Help.Render("enter submit · esc clear"))
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) controlsView() string {
	th := m.theme.Gate
	start := "Start"
	if m.gate.Queued {
		start = "Start (queued)"
	}
	button := func(key, label string, enabled, active bool) string {
		style := th.Button
		switch {
		case active:
			style = th.Queued
		case !enabled:
			style = th.Inactive
		}
		return style.Render(fmt.Sprintf("[%s] %s", key, label))
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		button("s", start, m.gate.Buttons.Start, m.gate.Queued),
		" ",
		button("x", "Stop", m.gate.Buttons.Stop, false),
		" ",
		button("r", "Reset", m.gate.Buttons.Reset, false),
	)
	status := strings.Join([]string{m.timer.StatusText, m.timer.Remaining}, " · ")
	return th.Frame.Render(lipgloss.JoinVertical(lipgloss.Left,
		th.Title.Render("Staff controls"),
		m.theme.Timer.Status.Render(status),
		"",
		buttons,
		"",
		m.theme.Help.Render("tap "+GestureKey+" three times to close"),
	))
}
