package accountlink

import (
	"log/slog"
	"os"
	"time"

	phuslog "github.com/phuslu/log"
	"golang.org/x/time/rate"

	"github.com/caasmo/accountlink/cache/ristretto"
	"github.com/caasmo/accountlink/config"
	"github.com/caasmo/accountlink/core"
	"github.com/caasmo/accountlink/notify"
	"github.com/caasmo/accountlink/notify/discord"
	"github.com/caasmo/accountlink/notify/mailer"
)

// DefaultLoggerOptions provides default settings for slog handlers.
// Level: Debug, removes the time attribute from output.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelDebug,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{} // Return empty Attr to remove
		}
		return a
	},
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}

// WithCacheRistretto configures the linkage lookup cache.
func WithCacheRistretto() core.Option {
	c, err := ristretto.New[string]()
	if err != nil {
		panic("failed to initialize ristretto cache: " + err.Error())
	}
	return core.WithCache(c)
}

// WithNotifiersFromConfig wires the notification sinks the config enables:
// a Discord webhook, an admin mail on account creation, or both. With
// neither configured, no notifier is set.
func WithNotifiersFromConfig(cfg *config.Config, logger *slog.Logger) core.Option {
	var sinks notify.Multi

	if cfg.Notify.DiscordWebhookURL != "" {
		dn, err := discord.New(discord.Options{
			WebhookURL:   cfg.Notify.DiscordWebhookURL,
			APIRateLimit: rate.Every(2 * time.Second),
		}, logger)
		if err != nil {
			panic("failed to initialize discord notifier: " + err.Error())
		}
		sinks = append(sinks, dn)
	}

	if cfg.Notify.MailTo != "" {
		mn, err := mailer.New(mailer.Options{
			Host:     cfg.Smtp.Host,
			Port:     cfg.Smtp.Port,
			Username: cfg.Smtp.Username,
			Password: cfg.Smtp.Password,
			From:     cfg.Smtp.From,
			To:       cfg.Notify.MailTo,
		}, logger)
		if err != nil {
			panic("failed to initialize mail notifier: " + err.Error())
		}
		sinks = append(sinks, mn)
	}

	if len(sinks) == 0 {
		return func(*core.App) {}
	}
	return core.WithNotifier(sinks)
}
