package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-coach/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-coach/internal/platform/httpx"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
)

// Client posts JSON payloads to a single incoming-webhook URL (Slack, Teams, a
// case-management system).
type Client struct {
	log        *logger.Logger
	url        string
	secret     string
	httpClient *http.Client
	maxRetries int
}

type Config struct {
	URL        string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, fmt.Errorf("webhook url required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Client{
		log:        log.With("client", "WebhookClient"),
		url:        u,
		secret:     strings.TrimSpace(cfg.Secret),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
	}, nil
}

func (c *Client) Post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	policy := httpx.RetryPolicy{
		MaxRetries: c.maxRetries,
		Backoff:    500 * time.Millisecond,
		MaxBackoff: 5 * time.Second,
		OnRetry: func(attempt int, sleep time.Duration, err error) {
			c.log.Warn("webhook post retrying", "attempt", attempt, "sleep", sleep.String(), "error", err.Error())
		},
	}
	return httpx.Do(ctxutil.Default(ctx), policy, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.secret != "" {
			req.Header.Set("Authorization", "Bearer "+c.secret)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resp, &httpx.StatusError{Service: "webhook", StatusCode: resp.StatusCode, Body: string(raw)}
		}
		return resp, nil
	})
}
