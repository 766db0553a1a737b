// Package alarm plays the time-over chime through the system speaker.
package alarm

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"tableflip.dev/roomtimer/pkg/room"
)

const sampleRate = beep.SampleRate(44100)

// Alarm makes a noise.
type Alarm interface {
	Ring()
}

// Nop is a silent Alarm, used when no speaker is available.
type Nop struct{}

func (Nop) Ring() {}

// Chime rings a short descending three-note bell.
type Chime struct {
	mu          sync.Mutex
	initialized bool
	log         zerolog.Logger
}

// NewChime opens the speaker. When the audio device cannot be opened the
// error is logged and a silent Alarm is returned instead.
func NewChime(log zerolog.Logger) Alarm {
	c := &Chime{log: log}
	if err := c.init(); err != nil {
		log.Warn().Err(err).Msg("speaker unavailable, alarm disabled")
		return Nop{}
	}
	return c
}

func (c *Chime) init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}
	c.initialized = true
	return nil
}

// Ring implements Alarm.
func (c *Chime) Ring() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	speaker.Play(Bell(sampleRate))
}

// Bell builds the chime: three decaying tones separated by short rests.
func Bell(rate beep.SampleRate) beep.Streamer {
	rest := rate.N(120 * time.Millisecond)
	return beep.Seq(
		NewTone(880, 400*time.Millisecond, rate),
		beep.Silence(rest),
		NewTone(660, 400*time.Millisecond, rate),
		beep.Silence(rest),
		NewTone(440, 900*time.Millisecond, rate),
	)
}

type tone struct {
	freq     float64
	phase    float64
	total    int
	position int
	rate     beep.SampleRate
}

// NewTone returns a sine tone with an exponential decay envelope.
func NewTone(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, total: rate.N(d), rate: rate}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}
		progress := float64(t.position) / float64(t.total)
		val := 0.4 * math.Exp(-4*progress) * math.Sin(2*math.Pi*t.phase)
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// Display forwards everything to the wrapped DisplayPort and rings the alarm
// when time runs out.
type Display struct {
	room.DisplayPort
	Alarm Alarm
}

// Notify implements room.DisplayPort.
func (d Display) Notify(n room.Notice) {
	if n.Kind == room.NoticeTimeOver && d.Alarm != nil {
		d.Alarm.Ring()
	}
	if d.DisplayPort != nil {
		d.DisplayPort.Notify(n)
	}
}
