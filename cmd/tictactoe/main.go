package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jaminalder/tictactoe-timetravel/internal/application"
	"github.com/jaminalder/tictactoe-timetravel/internal/config"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "config.yml", "path to the yaml config file")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	logger := initLogger(conf)

	if err := application.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize logger. Logs go to stderr so the terminal game owns stdout.
func initLogger(conf *config.Config) *slog.Logger {
	// MustLoad has already validated the level.
	level, err := conf.SlogLevel()
	if err != nil {
		panic(fmt.Errorf("invalid log level: %w", err))
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
