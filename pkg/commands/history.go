package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/roomtimer/pkg/commands/options"
	"tableflip.dev/roomtimer/pkg/history"
	"tableflip.dev/roomtimer/pkg/printers"
)

func addHistory(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List finished sessions",
		Example: `
roomtimer history
roomtimer history --json
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			journal, err := history.Open(e.cfg.HistoryPath)
			if err != nil {
				return output.HandleError(err)
			}
			sessions, err := journal.List(cmd.Context())
			if err != nil && len(sessions) == 0 {
				return output.HandleError(err)
			}
			if err != nil {
				e.log.Warn().Err(err).Msg("skipped unreadable sessions")
			}
			if output.JSON {
				return output.WriteJSON(sessions)
			}
			(&printers.PrettyPrint{}).Sessions(sessions)
			return nil
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
