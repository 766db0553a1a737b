package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/roomtimer/pkg/config"
)

// RunOptions
type RunOptions struct {
	Duration Duration
	Hints    string
	Locale   string
	Alarm    bool
	Light    bool
}

func AddRunArgs(cmd *cobra.Command, o *RunOptions) {
	cmd.Flags().VarP(&o.Duration, "duration", "d",
		"Room length, for example 90m or \"1h 15m\".")
	cmd.Flags().StringVar(&o.Hints, "hints", "",
		"Hint table file (JSON or YAML).")
	cmd.Flags().StringVar(&o.Locale, "locale", "",
		"Label language, en or ko.")
	cmd.Flags().BoolVar(&o.Alarm, "alarm", false,
		"Ring a bell when time runs out.")
	cmd.Flags().BoolVar(&o.Light, "light", false,
		"Use the light theme regardless of the terminal background.")
}

// Apply overrides cfg with any flags that were set.
func (o *RunOptions) Apply(cfg *config.Config) {
	if o.Duration.Changed {
		cfg.Duration = o.Duration.D
	}
	if o.Hints != "" {
		cfg.HintsPath = o.Hints
	}
	if o.Locale != "" {
		cfg.Locale = o.Locale
	}
	if o.Alarm {
		cfg.Alarm = true
	}
}
