package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// RateFetcher fetches the full quote map for one base currency.
type RateFetcher interface {
	Latest(ctx context.Context, base string) (map[string]float64, error)
}

// RemoteClient talks to an exchangerate-api style HTTP endpoint:
// GET <baseURL>/<BASE> returning {"rates": {"EUR": 0.91, ...}}.
type RemoteClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewRemoteClient(baseURL string, timeout time.Duration, logger *slog.Logger) *RemoteClient {
	if baseURL == "" {
		baseURL = "https://api.exchangerate-api.com/v4/latest"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Latest fetches the quote map for base. Non-2xx statuses and undecodable
// bodies are errors; the resolver decides what a failure means.
func (c *RemoteClient) Latest(ctx context.Context, base string) (map[string]float64, error) {
	url := c.baseURL + "/" + strings.ToUpper(base)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.logger.Info("fx.remote.request", "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("fx.remote.send_error", "url", url, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("fx.remote.response_body_close_error", "error", err)
		}
	}(resp.Body)

	c.logger.Info("fx.remote.response",
		"url", url,
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode rates: %w", err)
	}
	if payload.Rates == nil {
		payload.Rates = map[string]float64{}
	}
	return payload.Rates, nil
}
