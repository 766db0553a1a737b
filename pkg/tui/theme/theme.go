package theme

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Theme centralizes Lip Gloss styles for the kiosk.
type Theme struct {
	Timer  TimerTheme
	Keypad KeypadTheme
	Popup  PopupTheme
	Gate   GateTheme
	Help   lipgloss.Style
}

// TimerTheme styles the countdown panel.
type TimerTheme struct {
	Frame   lipgloss.Style
	Clock   lipgloss.Style
	Status  lipgloss.Style
	Counter lipgloss.Style
	Wall    lipgloss.Style
	Track   lipgloss.Style

	// RingFull and RingEmpty are blended by remaining progress.
	RingFull  colorful.Color
	RingEmpty colorful.Color
}

// KeypadTheme styles the code boxes.
type KeypadTheme struct {
	Box      lipgloss.Style
	Filled   lipgloss.Style
	Invalid  lipgloss.Style
	Disabled lipgloss.Style
}

// PopupTheme styles the hint and time-over overlays.
type PopupTheme struct {
	Frame    lipgloss.Style
	TimeOver lipgloss.Style
	Text     lipgloss.Style
	Hint     lipgloss.Style
}

// GateTheme styles the staff panel.
type GateTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Button   lipgloss.Style
	Inactive lipgloss.Style
	Queued   lipgloss.Style
	Alert    lipgloss.Style
}

const (
	ringFilled = "█"
	ringTrack  = "░"
)

// Detect picks the palette matching the terminal background.
func Detect() Theme {
	if termenv.HasDarkBackground() {
		return Default()
	}
	return Light()
}

// Default returns the dark-background theme.
func Default() Theme {
	return build(palette{
		text:    lipgloss.Color("252"),
		muted:   lipgloss.Color("244"),
		accent:  lipgloss.Color("212"),
		warn:    lipgloss.Color("203"),
		track:   lipgloss.Color("238"),
		full:    colorful.Color{R: 0.18, G: 0.80, B: 0.44},
		empty:   colorful.Color{R: 0.91, G: 0.30, B: 0.24},
		popupBg: lipgloss.Color("236"),
	})
}

// Light returns the light-background theme.
func Light() Theme {
	return build(palette{
		text:    lipgloss.Color("235"),
		muted:   lipgloss.Color("242"),
		accent:  lipgloss.Color("125"),
		warn:    lipgloss.Color("160"),
		track:   lipgloss.Color("251"),
		full:    colorful.Color{R: 0.10, G: 0.55, B: 0.30},
		empty:   colorful.Color{R: 0.75, G: 0.15, B: 0.12},
		popupBg: lipgloss.Color("255"),
	})
}

type palette struct {
	text, muted, accent, warn, track, popupBg color.Color
	full, empty                               colorful.Color
}

func build(p palette) Theme {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.muted).
		Width(3).
		Align(lipgloss.Center)
	button := lipgloss.NewStyle().
		Foreground(p.text).
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)

	return Theme{
		Timer: TimerTheme{
			Frame:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 4),
			Clock:     lipgloss.NewStyle().Foreground(p.text).Bold(true),
			Status:    lipgloss.NewStyle().Foreground(p.accent),
			Counter:   lipgloss.NewStyle().Foreground(p.muted),
			Wall:      lipgloss.NewStyle().Foreground(p.muted),
			Track:     lipgloss.NewStyle().Foreground(p.track),
			RingFull:  p.full,
			RingEmpty: p.empty,
		},
		Keypad: KeypadTheme{
			Box:      box,
			Filled:   box.BorderForeground(p.accent).Foreground(p.text).Bold(true),
			Invalid:  box.BorderForeground(p.warn).Foreground(p.warn),
			Disabled: box.BorderForeground(p.track).Foreground(p.track),
		},
		Popup: PopupTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.DoubleBorder()).
				BorderForeground(p.accent).
				Background(p.popupBg).
				Padding(1, 3),
			TimeOver: lipgloss.NewStyle().
				Border(lipgloss.ThickBorder()).
				BorderForeground(p.warn).
				Padding(1, 3),
			Text: lipgloss.NewStyle().Foreground(p.text).Bold(true),
			Hint: lipgloss.NewStyle().Foreground(p.muted).Italic(true),
		},
		Gate: GateTheme{
			Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.accent).Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true),
			Button:   button,
			Inactive: button.Foreground(p.track).BorderForeground(p.track),
			Queued:   button.Foreground(p.accent).BorderForeground(p.accent).Bold(true),
			Alert:    lipgloss.NewStyle().Foreground(p.warn),
		},
		Help: lipgloss.NewStyle().Foreground(p.muted),
	}
}

// RingColor blends from the empty colour to the full colour as progress
// moves from 0 to 1.
func (t Theme) RingColor(progress float64) colorful.Color {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return t.Timer.RingEmpty.BlendLab(t.Timer.RingFull, progress).Clamped()
}

// Ring draws the remaining-time bar of the given width.
func (t Theme) Ring(progress float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(progress*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	fill := lipgloss.NewStyle().Foreground(t.RingColor(progress))
	return fill.Render(strings.Repeat(ringFilled, filled)) +
		t.Timer.Track.Render(strings.Repeat(ringTrack, width-filled))
}
