package alert

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// SlackAlerter posts drift warnings to a Slack incoming webhook.
// Delivery is best-effort: transient failures are retried with backoff, a
// final failure is logged and swallowed, and a process-local rate limiter
// drops excess alerts rather than flooding the channel. A dropped or failed
// alert never blocks validation or fingerprint persistence.
type SlackAlerter struct {
	webhookURL string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// SlackConfig holds configuration for the Slack sink.
type SlackConfig struct {
	// WebhookURL is the incoming-webhook URL. Falls back to the
	// DFDRIFT_SLACK_WEBHOOK_URL environment variable.
	WebhookURL string

	// RatePerMinute caps delivered alerts per minute (default 10).
	RatePerMinute int

	// Timeout bounds a single webhook request (default 10s).
	Timeout time.Duration
}

// NewSlackAlerter creates a Slack webhook sink.
func NewSlackAlerter(cfg SlackConfig) (*SlackAlerter, error) {
	url := cfg.WebhookURL
	if url == "" {
		url = os.Getenv("DFDRIFT_SLACK_WEBHOOK_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("slack webhook URL must be provided or set via DFDRIFT_SLACK_WEBHOOK_URL")
	}

	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &SlackAlerter{
		webhookURL: url,
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
		maxRetries: 3,
	}, nil
}

// Alert posts the warning to the webhook.
func (a *SlackAlerter) Alert(message, locationKey string, old *types.Fingerprint, new types.Fingerprint) {
	if !a.limiter.Allow() {
		log.Printf("dfdrift: slack alert rate limit exceeded, dropping alert for %s", locationKey)
		return
	}

	payload, err := json.Marshal(map[string]string{
		"text": fmt.Sprintf("WARNING: %s\nLocation: %s", message, locationKey),
	})
	if err != nil {
		log.Printf("dfdrift: failed to encode slack payload: %v", err)
		return
	}

	if err := a.post(context.Background(), payload); err != nil {
		log.Printf("dfdrift: failed to deliver slack alert for %s: %v", locationKey, err)
	}
}

// post sends the payload, retrying transient failures with exponential
// backoff.
func (a *SlackAlerter) post(ctx context.Context, payload []byte) error {
	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 200 * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.webhookURL, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := a.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		resp.Body.Close()

		if resp.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("webhook returned status %d", resp.StatusCode)

		// Client errors are not transient
		if resp.StatusCode < 500 {
			return lastErr
		}
	}
	return lastErr
}
