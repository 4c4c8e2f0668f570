package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	ModeWeb      = "web"
	ModeTerminal = "terminal"
)

var (
	ErrUnknownMode     = errors.New("unknown mode")
	ErrUnknownLogLevel = errors.New("unknown log level")
	ErrNonPositive     = errors.New("duration must be positive")
)

type Config struct {
	LogLevel string  `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Mode     string  `yaml:"mode" env:"MODE" env-default:"web"`
	HTTP     HTTP    `yaml:"http"`
	Session  Session `yaml:"session"`
	NoColor  bool    `yaml:"no-color" env:"TICTACTOE_NO_COLOR"`
}

type HTTP struct {
	Addr      string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	Heartbeat time.Duration `yaml:"heartbeat" env:"SSE_HEARTBEAT" env-default:"15s"`
}

type Session struct {
	TTL           time.Duration `yaml:"ttl" env:"SESSION_TTL" env-default:"2h"`
	SweepInterval time.Duration `yaml:"sweep-interval" env:"SWEEP_INTERVAL" env-default:"5m"`
}

// MustLoad - load configuration from the yaml file at path, falling back to the environment when it is missing.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		err = cleanenv.ReadConfig(path, config)
	} else {
		err = cleanenv.ReadEnv(config)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Mode {
	case ModeWeb, ModeTerminal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, that.Mode)
	}

	if _, err := that.SlogLevel(); err != nil {
		return err
	}

	if that.Session.TTL <= 0 {
		return fmt.Errorf("%w: session ttl %s", ErrNonPositive, that.Session.TTL)
	}
	if that.Session.SweepInterval <= 0 {
		return fmt.Errorf("%w: session sweep-interval %s", ErrNonPositive, that.Session.SweepInterval)
	}

	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (that *Config) SlogLevel() (slog.Level, error) {
	switch that.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
	}
}
