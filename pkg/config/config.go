// Package config resolves roomtimer settings from a .roomtimer config file,
// ROOMTIMER_* environment variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/roomtimer/pkg/room"
	"tableflip.dev/roomtimer/pkg/timeutil"
)

// Config is the resolved application configuration.
type Config struct {
	Duration    time.Duration
	Secret      string
	HintsPath   string
	Locale      string
	Alarm       bool
	HistoryPath string
	LogFile     string
	LogLevel    string

	// Source is the config file that was read, empty when none was found.
	Source string
}

// Load resolves the configuration. When path is empty the .roomtimer file is
// searched for in $ROOMTIMER_CONFIG_PATH, the working directory and the home
// directory; a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("duration", timeutil.DefaultGame)
	v.SetDefault("secret", room.DefaultSecret)
	v.SetDefault("hints", "")
	v.SetDefault("locale", "en")
	v.SetDefault("alarm", false)
	v.SetDefault("history", "~/.roomtimer/history")
	v.SetDefault("log.file", "~/.roomtimer/roomtimer.log")
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("ROOMTIMER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".roomtimer") // .yaml is implicit
		v.SetConfigType("yaml")
		if override := os.Getenv("ROOMTIMER_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath("./")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	dur, _, err := timeutil.ParseDuration(v.GetString("duration"))
	if err != nil {
		return nil, fmt.Errorf("config: duration: %w", err)
	}

	cfg := &Config{
		Duration: dur,
		Secret:   v.GetString("secret"),
		Locale:   v.GetString("locale"),
		Alarm:    v.GetBool("alarm"),
		LogLevel: v.GetString("log.level"),
		Source:   v.ConfigFileUsed(),
	}
	if cfg.HintsPath, err = cfg.resolve(v.GetString("hints")); err != nil {
		return nil, err
	}
	if cfg.HistoryPath, err = cfg.resolve(v.GetString("history")); err != nil {
		return nil, err
	}
	if cfg.LogFile, err = cfg.resolve(v.GetString("log.file")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve expands "~" and makes relative paths relative to the config file.
func (c *Config) resolve(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("config: expand %s: %w", p, err)
	}
	if !filepath.IsAbs(expanded) && c.Source != "" {
		expanded = filepath.Join(filepath.Dir(c.Source), expanded)
	}
	return expanded, nil
}

// Room builds the controller settings.
func (c *Config) Room() room.Settings {
	s := room.DefaultSettings()
	s.TotalDuration = c.Duration
	s.Secret = c.Secret
	s.Labels = room.LabelsFor(c.Locale)
	return s
}
