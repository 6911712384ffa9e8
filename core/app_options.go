package core

import (
	"log/slog"

	"github.com/caasmo/accountlink/cache"
	"github.com/caasmo/accountlink/config"
	"github.com/caasmo/accountlink/db"
	"github.com/caasmo/accountlink/notify"
)

type Option func(*App)

// WithDbAccount sets the account store implementation.
func WithDbAccount(d db.DbAccount) Option {
	return func(a *App) {
		a.dbAccount = d
	}
}

// WithDbMeta sets the per-account metadata store implementation.
func WithDbMeta(d db.DbMeta) Option {
	return func(a *App) {
		a.dbMeta = d
	}
}

// WithDbApp sets a combined store implementation for both roles.
func WithDbApp(d db.DbApp) Option {
	return func(a *App) {
		a.dbAccount = d
		a.dbMeta = d
	}
}

// WithCache sets the linkage lookup cache implementation.
func WithCache(c cache.Cache[string, string]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithConfig sets the application's configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.cfg = cfg
	}
}

// WithLogger sets the logger implementation
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithNotifier sets the lifecycle notification sink.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}

// WithValidator overrides the email validator.
func WithValidator(v Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}

// WithCreateHook sets the pre-creation veto hook.
func WithCreateHook(h CreateHook) Option {
	return func(a *App) {
		a.createHook = h
	}
}
