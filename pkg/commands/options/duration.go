package options

import (
	"time"

	"github.com/spf13/pflag"

	"tableflip.dev/roomtimer/pkg/timeutil"
)

// Duration is a pflag.Value accepting "90m", "1h 15m" or "90 min".
type Duration struct {
	D   time.Duration
	Changed bool
}

var _ pflag.Value = (*Duration)(nil)

func (d *Duration) String() string {
	if !d.Changed {
		return ""
	}
	return timeutil.FormatDuration(d.D)
}

func (d *Duration) Set(s string) error {
	parsed, _, err := timeutil.ParseDuration(s)
	if err != nil {
		return err
	}
	d.D = parsed
	d.Changed = true
	return nil
}

func (d *Duration) Type() string { return "duration" }
