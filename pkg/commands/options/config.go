package options

import (
	"github.com/spf13/cobra"
)

// ConfigOptions
type ConfigOptions struct {
	Path string
}

func AddConfigArg(cmd *cobra.Command, o *ConfigOptions) {
	cmd.PersistentFlags().StringVar(&o.Path, "config", "",
		"Config file (default is .roomtimer.yaml in $ROOMTIMER_CONFIG_PATH, the working directory or $HOME).")
}
