// Package printers renders hint tables, session history and replay frames for
// the command line.
package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/roomtimer/pkg/hints"
	"tableflip.dev/roomtimer/pkg/replay"
	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/timeutil"
)

// PrettyPrint writes colourised tables to Out, color.Output when nil.
type PrettyPrint struct {
	Out   io.Writer
	Width uint
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) table() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	if pp.Width > 0 {
		tbl.MaxColWidth = pp.Width
		tbl.Wrap = true
	}
	return tbl
}

// Title prints a bold section heading.
func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// Codes prints the hint table.
func (pp *PrettyPrint) Codes(entries []hints.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no codes\n\n")
		return
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint, color.Italic)
	code := color.New(color.FgHiYellow)

	tbl := pp.table()
	tbl.AddRow(bold.Sprint("Code"), bold.Sprint("ID"), bold.Sprint("Hint"))
	for _, e := range entries {
		text := e.Text
		if !e.HasText {
			text = faint.Sprint(e.Text)
		}
		tbl.AddRow(code.Sprint(e.Code), string(e.ID), text)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Sessions prints finished sessions, oldest first.
func (pp *PrettyPrint) Sessions(sessions []room.Session) {
	if len(sessions) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no sessions\n\n")
		return
	}
	bold := color.New(color.Bold)
	over := color.New(color.FgRed)
	reset := color.New(color.FgCyan)

	tbl := pp.table()
	tbl.AddRow(bold.Sprint("Started"), bold.Sprint("Played"), bold.Sprint("Outcome"),
		bold.Sprint("Hints"), bold.Sprint("Left"), bold.Sprint("ID"))
	for _, s := range sessions {
		outcome := reset.Sprint(s.Outcome)
		if s.Outcome == room.OutcomeTimeOver {
			outcome = over.Sprint(s.Outcome)
		}
		tbl.AddRow(
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			timeutil.FormatDuration(s.EndedAt.Sub(s.StartedAt).Round(time.Second)),
			outcome,
			s.HintsUsed,
			timeutil.FormatClock(s.TimeLeft),
			s.ID,
		)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Frames prints one line per replay step.
func (pp *PrettyPrint) Frames(frames []replay.Frame) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	warn := color.New(color.FgRed, color.Bold)

	tbl := pp.table()
	tbl.AddRow(bold.Sprint("At"), bold.Sprint("Step"), bold.Sprint("Clock"),
		bold.Sprint("Status"), bold.Sprint("Code"), bold.Sprint("Gate"), bold.Sprint("Notes"))
	for _, f := range frames {
		tbl.AddRow(
			faint.Sprint(timeutil.FormatClock(f.At)),
			f.Step,
			f.Timer.Remaining,
			f.Timer.StatusText,
			codeCell(f.Code),
			gateCell(f.Gate),
			warn.Sprint(noteCell(f)),
		)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Problems prints validation findings.
func (pp *PrettyPrint) Problems(problems []string) {
	if len(problems) == 0 {
		ok := color.New(color.FgGreen)
		_, _ = ok.Fprintln(pp.out(), "ok")
		return
	}
	warn := color.New(color.FgYellow)
	for _, p := range problems {
		_, _ = warn.Fprintf(pp.out(), "- %s\n", p)
	}
}

func codeCell(c room.CodeView) string {
	var b strings.Builder
	for _, d := range c.Boxes {
		if d == "" {
			d = "_"
		}
		b.WriteString(d)
	}
	switch {
	case c.Disabled:
		b.WriteString(" (locked)")
	case c.Invalid:
		b.WriteString(" (invalid)")
	}
	return b.String()
}

func gateCell(g room.GateView) string {
	if g.Queued {
		return g.Stage.String() + " +start"
	}
	return g.Stage.String()
}

func noteCell(f replay.Frame) string {
	notes := make([]string, 0, len(f.Notices)+1)
	for _, n := range f.Notices {
		notes = append(notes, n.Text)
	}
	if f.Code.Popup.Shown && !f.Code.Popup.TimeOver {
		notes = append(notes, "hint: "+f.Code.Popup.Text)
	}
	return strings.Join(notes, "; ")
}
