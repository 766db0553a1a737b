package kiosk

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/tui/theme"
)

// Options configures Run.
type Options struct {
	Settings room.Settings
	Table    room.Lookup
	Theme    theme.Theme

	// Decorate wraps the kiosk display, for example to ring an alarm.
	Decorate func(room.DisplayPort) room.DisplayPort

	// Controller options applied after the kiosk's own display and sink.
	Controller []room.Option
}

// Run launches the kiosk and blocks until the program exits.
func Run(ctx context.Context, o Options) error {
	m := New(o.Theme)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	var display room.DisplayPort = m
	if o.Decorate != nil {
		display = o.Decorate(m)
	}
	opts := append([]room.Option{
		room.WithDisplay(display),
		room.WithSink(func(ev room.Event) { p.Send(eventMsg{ev: ev}) }),
	}, o.Controller...)
	ctl := room.New(o.Settings, o.Table, opts...)
	m.Attach(ctl.Dispatch)

	_, err := p.Run()
	return err
}
