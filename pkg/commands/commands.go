package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/roomtimer/pkg/commands/options"
)

var (
	co     = &options.ConfigOptions{}
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "roomtimer",
		Short: base.Wrap80("Escape room countdown timer with a hint keypad and a hidden staff panel."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	options.AddConfigArg(cmd, co)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addRun(topLevel)
	addCodes(topLevel)
	addCheck(topLevel)
	addReplay(topLevel)
	addHistory(topLevel)
	addVersion(topLevel)
}
