package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/roomtimer/pkg/commands/options"
	"tableflip.dev/roomtimer/pkg/hints"
	"tableflip.dev/roomtimer/pkg/printers"
)

func addCodes(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "codes [file]",
		Short: "Print the hint codes and what each one shows",
		Example: `
roomtimer codes
roomtimer codes hints.yaml --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			path := e.cfg.HintsPath
			if len(args) == 1 {
				path = args[0]
			}
			table, err := hints.Read(path)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.WriteJSON(table.Entries())
			}
			pp := &printers.PrettyPrint{Width: 60}
			pp.Title(path)
			pp.Codes(table.Entries())
			return nil
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
