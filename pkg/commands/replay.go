package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/roomtimer/pkg/commands/options"
	"tableflip.dev/roomtimer/pkg/hints"
	"tableflip.dev/roomtimer/pkg/printers"
	"tableflip.dev/roomtimer/pkg/replay"
)

func addReplay(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Play a scripted session on a simulated clock and print every frame",
		Example: `
roomtimer replay rehearsal.yaml
roomtimer replay rehearsal.yaml --json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return output.HandleError(err)
			}
			script, err := replay.Load(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			table := hints.Load(e.cfg.HintsPath, e.log)
			res, err := replay.Run(script, e.cfg.Room(), table)
			if err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return output.WriteJSON(res)
			}
			pp := &printers.PrettyPrint{}
			pp.Frames(res.Frames)
			if len(res.Sessions) > 0 {
				pp.Title("Sessions")
				pp.Sessions(res.Sessions)
			}
			return nil
		},
	}
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
