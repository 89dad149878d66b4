package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/Clark-Hu/gradeboard/internal/repository"
	"github.com/Clark-Hu/gradeboard/internal/roster"
	"github.com/Clark-Hu/gradeboard/internal/store"
)

func cmdImport() *cli.Command {
	var (
		path       string
		dbURL      string
		migrations string
	)

	return &cli.Command{
		Name:  "import",
		Usage: "Replace the PostgreSQL roster with the contents of a store file",
		Flags: []cli.Flag{
			fileFlag(&path),
			&cli.StringFlag{
				Name:        "db-url",
				Usage:       "PostgreSQL connection string",
				Sources:     cli.EnvVars("DB_URL"),
				Required:    true,
				Destination: &dbURL,
			},
			&cli.StringFlag{
				Name:        "migrations",
				Usage:       "Directory of *.up.sql files applied before importing; empty skips migrations",
				Value:       "db/migrations",
				Destination: &migrations,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := slog.Default()

			doc, err := roster.NewFileSource(path).Load(ctx)
			if err != nil {
				return err
			}

			st, err := store.New(ctx, dbURL, store.Options{
				MaxConns:    2,
				ConnTimeout: 10 * time.Second,
				Logger:      logger,
			})
			if err != nil {
				return err
			}
			defer st.Close()

			if migrations != "" {
				if err := st.Migrate(ctx, migrations); err != nil {
					return err
				}
			}

			n, err := repository.New(st).Students.ReplaceAll(ctx, doc.Students)
			if err != nil {
				return err
			}
			logger.Info("roster imported", slog.String("file", path), slog.Int("students", n))
			return nil
		},
	}
}
