// Command rostertool manages the student store outside the dashboard: it checks
// store files, loads them into PostgreSQL, and can stand in for the upstream
// roster service during development.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/Clark-Hu/gradeboard/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "rostertool: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	var logLevel, logFormat string

	return &cli.Command{
		Name:  "rostertool",
		Usage: "Validate, import and serve student store documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Category:    "Logging",
				Value:       "info",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (console, json, auto)",
				Category:    "Logging",
				Value:       "auto",
				Sources:     cli.EnvVars("LOG_FORMAT"),
				Destination: &logFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			format, err := logging.ParseFormat(logFormat)
			if err != nil {
				return nil, err
			}
			slog.SetDefault(logging.New(logging.ParseLevel(logLevel), os.Stderr, format))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdValidate(),
			cmdImport(),
			cmdServe(),
		},
	}
}

func fileFlag(dest *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "Path to the store JSON document",
		Value:       "data/users.json",
		Sources:     cli.EnvVars("DATA_PATH"),
		Destination: dest,
	}
}
