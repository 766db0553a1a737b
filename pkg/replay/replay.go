// Package replay drives a controller from a YAML script on a fake clock and
// captures every frame it draws. It is used to rehearse a room without a
// terminal and to pin behaviour in tests.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/yaml.v3"

	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/schedule"
	"tableflip.dev/roomtimer/pkg/timeutil"
)

// Epoch is the wall-clock time a replay starts at.
var Epoch = time.Date(2025, time.January, 1, 19, 0, 0, 0, time.UTC)

var errNoSteps = errors.New("replay: script has no steps")

// Script is a timed sequence of room inputs.
type Script struct {
	Duration string `yaml:"duration,omitempty"`
	Secret   string `yaml:"secret,omitempty"`
	Locale   string `yaml:"locale,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// Step advances the clock by After and then sends Event.
type Step struct {
	After string `yaml:"after,omitempty"`
	Event string `yaml:"event"`
	Value string `yaml:"value,omitempty"`
}

// Frame is what the display showed after a step.
type Frame struct {
	At      time.Duration
	Step    string
	Timer   room.TimerView
	Code    room.CodeView
	Gate    room.GateView
	Notices []room.Notice
}

// Result is the outcome of a replay.
type Result struct {
	Frames   []Frame
	Sessions []room.Session
	Final    room.State
	Renders  int
}

// Parse decodes a script. Unknown fields are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("replay: decode: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errNoSteps
	}
	for i, st := range s.Steps {
		if _, err := st.wait(); err != nil {
			return nil, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
		if _, err := st.events(); err != nil {
			return nil, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay: read %s: %w", path, err)
	}
	return Parse(data)
}

// Settings applies the script's overrides to base.
func (s *Script) Settings(base room.Settings) (room.Settings, error) {
	if s.Duration != "" {
		d, _, err := timeutil.ParseDuration(s.Duration)
		if err != nil {
			return base, fmt.Errorf("replay: duration: %w", err)
		}
		base.TotalDuration = d
	}
	if s.Secret != "" {
		base.Secret = s.Secret
	}
	if s.Locale != "" {
		base.Labels = room.LabelsFor(s.Locale)
	}
	return base, nil
}

// Run plays the script against a fresh controller.
func Run(s *Script, settings room.Settings, table room.Lookup) (*Result, error) {
	settings, err := s.Settings(settings)
	if err != nil {
		return nil, err
	}

	clock := clockwork.NewFakeClockAt(Epoch)
	sched := schedule.NewManual(clock)
	disp := &capture{}
	rec := &sessions{}
	ctl := room.New(settings, table,
		room.WithClock(clock),
		room.WithScheduler(sched),
		room.WithDisplay(disp),
		room.WithRecorder(rec),
	)
	ctl.Boot()

	res := &Result{}
	for i, st := range s.Steps {
		wait, err := st.wait()
		if err != nil {
			return nil, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
		events, err := st.events()
		if err != nil {
			return nil, fmt.Errorf("replay: step %d: %w", i+1, err)
		}
		sched.Advance(wait)
		for _, ev := range events {
			ctl.Dispatch(ev)
		}
		res.Frames = append(res.Frames, disp.frame(clock.Since(Epoch), st.label()))
	}
	res.Sessions = rec.list
	res.Final = ctl.State()
	res.Renders = disp.renders
	return res, nil
}

func (st Step) wait() (time.Duration, error) {
	if strings.TrimSpace(st.After) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(st.After)
	if err != nil {
		return 0, fmt.Errorf("after: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("after: negative wait %s", d)
	}
	return d, nil
}

func (st Step) label() string {
	switch st.Event {
	case "password":
		return "password"
	case "", "wait":
		return "wait"
	}
	if st.Value == "" {
		return st.Event
	}
	return st.Event + " " + st.Value
}

func (st Step) events() ([]room.Event, error) {
	switch st.Event {
	case "", "wait":
		return nil, nil
	case "digit":
		if len(st.Value) != 1 || st.Value[0] < '0' || st.Value[0] > '9' {
			return nil, fmt.Errorf("digit: want a single digit, got %q", st.Value)
		}
		return []room.Event{room.DigitPressed{Digit: st.Value}}, nil
	case "code":
		if st.Value == "" {
			return nil, fmt.Errorf("code: want digits, got an empty value")
		}
		var evs []room.Event
		for _, r := range st.Value {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("code: want only digits, got %q", st.Value)
			}
			evs = append(evs, room.DigitPressed{Digit: string(r)})
		}
		return evs, nil
	case "title":
		return []room.Event{room.TitleTapped{}}, nil
	case "background":
		return []room.Event{room.BackgroundTapped{}}, nil
	case "open":
		return []room.Event{room.TitleTapped{}, room.TitleTapped{}, room.TitleTapped{}}, nil
	case "close":
		return []room.Event{room.BackgroundTapped{}, room.BackgroundTapped{}, room.BackgroundTapped{}}, nil
	case "start":
		return []room.Event{room.StartPressed{}}, nil
	case "stop":
		return []room.Event{room.StopPressed{}}, nil
	case "reset":
		return []room.Event{room.ResetPressed{}}, nil
	case "password":
		return []room.Event{room.PasswordSubmitted{Input: st.Value}}, nil
	case "dismiss":
		return []room.Event{room.HintDismissed{}}, nil
	case "cancel":
		return []room.Event{room.CancelPressed{}}, nil
	default:
		return nil, fmt.Errorf("unknown event %q", st.Event)
	}
}

type capture struct {
	timer   room.TimerView
	code    room.CodeView
	gate    room.GateView
	notices []room.Notice
	renders int
}

func (c *capture) RenderTimer(v room.TimerView) { c.timer = v; c.renders++ }
func (c *capture) RenderCode(v room.CodeView)   { c.code = v }
func (c *capture) RenderGate(v room.GateView)   { c.gate = v }
func (c *capture) Notify(n room.Notice)         { c.notices = append(c.notices, n) }

func (c *capture) frame(at time.Duration, step string) Frame {
	f := Frame{
		At:      at,
		Step:    step,
		Timer:   c.timer,
		Code:    c.code,
		Gate:    c.gate,
		Notices: c.notices,
	}
	f.Code.Boxes = append([]string(nil), c.code.Boxes...)
	c.notices = nil
	return f
}

type sessions struct {
	list []room.Session
}

func (s *sessions) Record(sess room.Session) error {
	s.list = append(s.list, sess)
	return nil
}
