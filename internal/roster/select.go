package roster

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Clark-Hu/gradeboard/internal/config"
)

// New picks the Source for cfg.StoreBackend. students is only used by the
// postgres backend and may be nil otherwise.
func New(cfg config.Config, students StudentLister, logger *slog.Logger) (Source, error) {
	switch cfg.StoreBackend {
	case config.BackendFile:
		return NewFileSource(cfg.DataPath), nil
	case config.BackendHTTP:
		return NewHTTPSource(cfg.RosterURL, cfg.RosterAPIKey, time.Duration(cfg.RosterTimeoutSecs)*time.Second, logger)
	case config.BackendPostgres:
		if students == nil {
			return nil, fmt.Errorf("roster: postgres backend needs a student repository")
		}
		return &RepositorySource{Students: students}, nil
	}
	return nil, fmt.Errorf("roster: unknown backend %q", cfg.StoreBackend)
}
