package roster

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Clark-Hu/gradeboard/internal/domain"
)

// RosterPath is the upstream endpoint serving the store document.
const RosterPath = "/roster"

// HTTPSource fetches the store document from an upstream service.
type HTTPSource struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPSource constructs an HTTP-backed roster source.
func NewHTTPSource(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) (*HTTPSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse roster url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse roster url: %q is not absolute", baseURL)
	}
	return &HTTPSource{
		baseURL: parsed,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
		logger: logger,
	}, nil
}

// Load implements Source.
func (s *HTTPSource) Load(ctx context.Context) (domain.Roster, error) {
	endpoint := s.baseURL.JoinPath(RosterPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return domain.Roster{}, loadErr(err)
	}
	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return domain.Roster{}, loadErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("roster: unexpected upstream status",
			slog.Int("status", resp.StatusCode),
			slog.String("url", endpoint.String()),
		)
		return domain.Roster{}, loadErr(fmt.Errorf("upstream returned %d", resp.StatusCode))
	}

	doc, err := Decode(resp.Body)
	if err != nil {
		return domain.Roster{}, loadErr(err)
	}
	return doc, nil
}
