package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"tableflip.dev/roomtimer/pkg/config"
	"tableflip.dev/roomtimer/pkg/logging"
)

// env is what every subcommand needs: the resolved config and a logger.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	closer io.Closer
}

func (e *env) Close() {
	if e.closer != nil {
		_ = e.closer.Close()
	}
}

// loadEnv resolves configuration. When toFile is set the log goes to the
// configured file so it does not fight the kiosk for the terminal.
func loadEnv(toFile bool) (*env, error) {
	cfg, err := config.Load(co.Path)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg}
	if !toFile || cfg.LogFile == "" {
		e.log = logging.New(os.Stderr, cfg.LogLevel, true)
		return e, nil
	}
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "unable to open log file: %v\n", err)
		e.log = zerolog.Nop()
		return e, nil
	}
	e.closer = f
	e.log = logging.New(f, cfg.LogLevel, false)
	return e, nil
}
