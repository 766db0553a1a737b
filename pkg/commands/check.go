package commands

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/roomtimer/pkg/hints"
	"tableflip.dev/roomtimer/pkg/printers"
	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/timeutil"
)

var errCheckFailed = errors.New("check: problems found")

func addCheck(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and hint table before opening the room",
		Example: `
roomtimer check
roomtimer check --config ./rooms/library.yaml
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := loadEnv(false)
			if err != nil {
				return err
			}
			settings := e.cfg.Room()
			pp := &printers.PrettyPrint{}

			source := e.cfg.Source
			if source == "" {
				source = "(defaults)"
			}
			_, _ = fmt.Fprintf(color.Output, "config    %s\n", source)
			_, _ = fmt.Fprintf(color.Output, "duration  %s\n", timeutil.FormatDuration(settings.TotalDuration))
			_, _ = fmt.Fprintf(color.Output, "hints     %s\n\n", e.cfg.HintsPath)

			var problems []string
			if settings.Secret == room.DefaultSecret {
				problems = append(problems, "staff password is the factory default")
			}
			if e.cfg.HintsPath == "" {
				problems = append(problems, "no hint table configured")
			} else {
				table, err := hints.Read(e.cfg.HintsPath)
				var perr *hints.ParseError
				switch {
				case errors.As(err, &perr):
					problems = append(problems, fmt.Sprintf("%s: %v", perr.Path, perr.Err))
				case err != nil:
					problems = append(problems, err.Error())
				default:
					problems = append(problems, table.Validate(settings.MaxCodeLength)...)
				}
			}

			pp.Problems(problems)
			if len(problems) > 0 {
				return errCheckFailed
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
