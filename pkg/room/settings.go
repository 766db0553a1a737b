package room

import "time"

// Defaults mirror the installation the timer was built for.
const (
	DefaultTotalDuration     = 90 * time.Minute
	DefaultTickInterval      = 100 * time.Millisecond
	DefaultClockInterval     = 60 * time.Second
	DefaultMaxCodeLength     = 4
	DefaultGestureWindow     = 800 * time.Millisecond
	DefaultGestureTaps       = 3
	DefaultInvalidFlash      = time.Second
	DefaultSecret            = "sh2025"
	DefaultHintCap           = 999
	DefaultRingCircumference = 283.0
)

// Labels are the fixed strings shown to players and staff.
type Labels struct {
	Reset       string
	Stopped     string
	Queued      string
	Running     string
	TimeOver    string
	AuthFailure string
}

// EnglishLabels is the default label set.
func EnglishLabels() Labels {
	return Labels{
		Reset:       "Reset",
		Stopped:     "Stopped",
		Queued:      "Started",
		Running:     "Running",
		TimeOver:    "Time over!",
		AuthFailure: "Incorrect password",
	}
}

// KoreanLabels is the Korean label set.
func KoreanLabels() Labels {
	return Labels{
		Reset:       "리셋됨",
		Stopped:     "중지됨",
		Queued:      "시작됨",
		Running:     "실행 중",
		TimeOver:    "시간 종료!",
		AuthFailure: "잘못된 비밀번호입니다",
	}
}

// LabelsFor returns the label set for a locale tag. Unknown tags fall back to
// English.
func LabelsFor(locale string) Labels {
	switch locale {
	case "ko", "ko-KR", "ko_KR":
		return KoreanLabels()
	default:
		return EnglishLabels()
	}
}

// Settings is the immutable configuration of a controller.
type Settings struct {
	TotalDuration     time.Duration
	TickInterval      time.Duration
	ClockInterval     time.Duration
	MaxCodeLength     int
	GestureWindow     time.Duration
	GestureTaps       int
	InvalidFlash      time.Duration
	Secret            string
	HintCap           int
	RingCircumference float64
	Labels            Labels
}

// DefaultSettings returns the stock room configuration.
func DefaultSettings() Settings {
	return Settings{
		TotalDuration:     DefaultTotalDuration,
		TickInterval:      DefaultTickInterval,
		ClockInterval:     DefaultClockInterval,
		MaxCodeLength:     DefaultMaxCodeLength,
		GestureWindow:     DefaultGestureWindow,
		GestureTaps:       DefaultGestureTaps,
		InvalidFlash:      DefaultInvalidFlash,
		Secret:            DefaultSecret,
		HintCap:           DefaultHintCap,
		RingCircumference: DefaultRingCircumference,
		Labels:            EnglishLabels(),
	}
}

// withDefaults fills zero fields from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.TotalDuration <= 0 {
		s.TotalDuration = d.TotalDuration
	}
	if s.TickInterval <= 0 {
		s.TickInterval = d.TickInterval
	}
	if s.ClockInterval <= 0 {
		s.ClockInterval = d.ClockInterval
	}
	if s.MaxCodeLength <= 0 {
		s.MaxCodeLength = d.MaxCodeLength
	}
	if s.GestureWindow <= 0 {
		s.GestureWindow = d.GestureWindow
	}
	if s.GestureTaps <= 0 {
		s.GestureTaps = d.GestureTaps
	}
	if s.InvalidFlash <= 0 {
		s.InvalidFlash = d.InvalidFlash
	}
	if s.Secret == "" {
		s.Secret = d.Secret
	}
	if s.HintCap <= 0 {
		s.HintCap = d.HintCap
	}
	if s.RingCircumference <= 0 {
		s.RingCircumference = d.RingCircumference
	}
	if s.Labels == (Labels{}) {
		s.Labels = d.Labels
	}
	return s
}
