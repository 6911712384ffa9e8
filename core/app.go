package core

import (
	"fmt"
	"log/slog"

	"github.com/caasmo/accountlink/cache"
	"github.com/caasmo/accountlink/config"
	"github.com/caasmo/accountlink/db"
	"github.com/caasmo/accountlink/notify"
)

// CreateHook is the extension point invoked before an account is created.
// It receives the canonical fields about to be written (password already set)
// and may veto the creation by returning false. A veto is a policy decision,
// not an error: the store is left untouched and no notification fires.
type CreateHook func(fields db.AccountFields) bool

// App is the account reconciler. It holds the injected host capabilities:
// the account store, the per-account metadata store, an optional linkage
// lookup cache and an optional lifecycle notification sink.
//
// All methods are request-scoped and synchronous; there is no background
// work beyond the fire-and-forget notification sinks.
type App struct {
	dbAccount  db.DbAccount
	dbMeta     db.DbMeta
	cache      cache.Cache[string, string]
	cfg        *config.Config
	logger     *slog.Logger
	notifier   notify.Notifier
	validator  Validator
	createHook CreateHook
}

// NewApp builds an App from options. The account store, metadata store and
// config are required; logger defaults to slog.Default, the validator to
// DefaultValidator. Cache, notifier and create hook are optional.
func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.dbAccount == nil {
		return nil, fmt.Errorf("account store is required but was not provided (use WithDbAccount)")
	}
	if a.dbMeta == nil {
		return nil, fmt.Errorf("metadata store is required but was not provided (use WithDbMeta)")
	}
	if a.cfg == nil {
		return nil, fmt.Errorf("config is required but was not provided (use WithConfig)")
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.validator == nil {
		a.validator = &DefaultValidator{}
	}

	return a, nil
}

// DbAccount returns the application's account store.
func (a *App) DbAccount() db.DbAccount {
	return a.dbAccount
}

// DbMeta returns the application's metadata store.
func (a *App) DbMeta() db.DbMeta {
	return a.dbMeta
}

// Config returns the application's configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Validator returns the email validator in use.
func (a *App) Validator() Validator {
	return a.validator
}

// linkageKey is the fixed metadata key the external sub is stored under.
func (a *App) linkageKey() string {
	return a.cfg.Policy.MetaPrefix + "id"
}

// extendedKey is the fixed metadata key the extended attributes blob is
// stored under.
func (a *App) extendedKey() string {
	return a.cfg.Policy.MetaPrefix + "obj"
}
