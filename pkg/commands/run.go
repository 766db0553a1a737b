package commands

import (
	"errors"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/roomtimer/pkg/alarm"
	"tableflip.dev/roomtimer/pkg/commands/options"
	"tableflip.dev/roomtimer/pkg/hints"
	"tableflip.dev/roomtimer/pkg/history"
	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/tui/kiosk"
	"tableflip.dev/roomtimer/pkg/tui/theme"
)

var errNoTerminal = errors.New("run: stdout is not a terminal, use `roomtimer replay` for headless runs")

func addRun(topLevel *cobra.Command) {
	ro := &options.RunOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the full-screen room timer",
		Example: `
roomtimer run
roomtimer run --duration 60m --hints hints.yaml --alarm
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			fd := os.Stdout.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return errNoTerminal
			}

			e, err := loadEnv(true)
			if err != nil {
				return err
			}
			defer e.Close()
			ro.Apply(e.cfg)

			table := hints.Load(e.cfg.HintsPath, e.log)
			opts := []room.Option{room.WithLogger(e.log)}
			if journal, err := history.Open(e.cfg.HistoryPath); err != nil {
				e.log.Warn().Err(err).Msg("session history disabled")
			} else {
				opts = append(opts, room.WithRecorder(journal))
			}

			th := theme.Detect()
			if ro.Light {
				th = theme.Light()
			}

			var decorate func(room.DisplayPort) room.DisplayPort
			if e.cfg.Alarm {
				bell := alarm.NewChime(e.log)
				decorate = func(d room.DisplayPort) room.DisplayPort {
					return alarm.Display{DisplayPort: d, Alarm: bell}
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			e.log.Info().
				Dur("duration", e.cfg.Duration).
				Str("locale", e.cfg.Locale).
				Int("codes", table.Len()).
				Msg("starting kiosk")
			return kiosk.Run(ctx, kiosk.Options{
				Settings:   e.cfg.Room(),
				Table:      table,
				Theme:      th,
				Decorate:   decorate,
				Controller: opts,
			})
		},
	}
	options.AddRunArgs(cmd, ro)

	topLevel.AddCommand(cmd)
}
