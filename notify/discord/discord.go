package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/caasmo/accountlink/notify"
)

// Options configures the Notifier.
type Options struct {
	WebhookURL   string
	APIRateLimit rate.Limit
	APIBurst     int
	SendTimeout  time.Duration
}

type payload struct {
	Content string `json:"content"`
}

// discordMaxMessageLength is the maximum character limit for a Discord message.
// Messages longer than this will be truncated.
const discordMaxMessageLength = 2000

// Notifier implements the notify.Notifier interface for sending account
// lifecycle events to a Discord webhook.
// It is safe for concurrent use as its fields are either immutable after
// creation or are concurrency-safe types (like *slog.Logger, *http.Client,
// *rate.Limiter). The Send method is non-blocking and launches a goroutine
// for the actual HTTP dispatch.
type Notifier struct {
	opts           Options
	logger         *slog.Logger
	httpClient     *http.Client
	apiRateLimiter *rate.Limiter
}

// New creates a new Notifier.
func New(opts Options, logger *slog.Logger) (*Notifier, error) {
	if opts.WebhookURL == "" {
		return nil, fmt.Errorf("discord: WebhookURL is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("discord: logger is required")
	}

	if opts.APIRateLimit == 0 {
		opts.APIRateLimit = rate.Every(2 * time.Second)
	}
	if opts.APIBurst <= 0 {
		opts.APIBurst = 5
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}

	return &Notifier{
		opts:           opts,
		logger:         logger,
		apiRateLimiter: rate.NewLimiter(opts.APIRateLimit, opts.APIBurst),
		httpClient:     &http.Client{},
	}, nil
}

func (dn *Notifier) formatMessage(e notify.Event) string {
	content := fmt.Sprintf("[%s] account `%s`\n> login: `%s`\n> email: `%s`\n> display name: `%s`\n",
		e.Type.String(),
		e.AccountID,
		e.Login,
		e.Email,
		e.DisplayName)

	if len(content) > discordMaxMessageLength {
		return content[:discordMaxMessageLength-3] + "..."
	}
	return content
}

// Send implements the notify.Notifier interface.
// It is non-blocking. It attempts to acquire a rate limit token and, if
// successful, launches a goroutine to deliver the event to Discord. Errors
// during the actual HTTP send are logged, not returned.
func (dn *Notifier) Send(_ context.Context, e notify.Event) error {
	if !dn.apiRateLimiter.Allow() {
		dn.logger.Warn("discord: API rate limit reached or burst active, dropping notification",
			"type", e.Type.String(), "account_id", e.AccountID)
		return nil // dropped as per rate limit policy, not a failure
	}

	// The original context from Send() is not used in the goroutine to
	// avoid cancellation if the calling request finishes before the
	// notification is sent.
	go func(ev notify.Event) {
		sendCtx, cancel := context.WithTimeout(context.Background(), dn.opts.SendTimeout)
		defer cancel()

		jsonBody, err := json.Marshal(payload{Content: dn.formatMessage(ev)})
		if err != nil {
			dn.logger.Error("discord: goroutine failed to marshal payload",
				"type", ev.Type.String(), "account_id", ev.AccountID, "error", err)
			return
		}

		req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, dn.opts.WebhookURL, bytes.NewBuffer(jsonBody))
		if err != nil {
			dn.logger.Error("discord: goroutine failed to create request",
				"type", ev.Type.String(), "account_id", ev.AccountID, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := dn.httpClient.Do(req)
		if err != nil {
			dn.logger.Error("discord: goroutine failed to send to discord",
				"type", ev.Type.String(), "account_id", ev.AccountID, "error", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			dn.logger.Error("discord: goroutine received non-2xx status from Discord",
				"status_code", resp.StatusCode, "type", ev.Type.String(), "account_id", ev.AccountID)
			if resp.StatusCode == http.StatusTooManyRequests {
				dn.logger.Warn("discord: goroutine received 429 Too Many Requests. Rate limit settings may need adjustment.")
			}
			return
		}

		dn.logger.Log(sendCtx, slog.LevelDebug, "discord: delivered lifecycle event",
			"type", ev.Type.String(), "account_id", ev.AccountID)
	}(e)

	return nil
}
