package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/Clark-Hu/gradeboard/internal/roster"
)

func cmdServe() *cli.Command {
	var (
		path   string
		addr   string
		apiKey string
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a store file as the upstream roster endpoint",
		Flags: []cli.Flag{
			fileFlag(&path),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "Listen address",
				Value:       ":9099",
				Destination: &addr,
			},
			&cli.StringFlag{
				Name:        "api-key",
				Usage:       "Required X-API-Key value; empty disables the check",
				Sources:     cli.EnvVars("ROSTER_API_KEY"),
				Destination: &apiKey,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := slog.Default()
			srv := &http.Server{
				Addr:              addr,
				Handler:           upstreamHandler(roster.NewFileSource(path), apiKey, logger),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("roster upstream listening", slog.String("addr", addr), slog.String("file", path))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}
}

// upstreamHandler answers roster.RosterPath with the current file contents,
// re-encoded so malformed files surface as 500 rather than reaching clients.
func upstreamHandler(source roster.Source, apiKey string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get(roster.RosterPath, func(w http.ResponseWriter, req *http.Request) {
		if apiKey != "" && req.Header.Get("X-API-Key") != apiKey {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}
		doc, err := source.Load(req.Context())
		if err != nil {
			logger.Error("load store file failed", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(doc); err != nil {
			logger.Error("encode roster failed", slog.Any("error", err))
		}
	})
	return r
}
