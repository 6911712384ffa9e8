package core

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/caasmo/accountlink/crypto"
	"github.com/caasmo/accountlink/db"
	"github.com/caasmo/accountlink/notify"
	"github.com/caasmo/accountlink/userinfo"
)

// CreateAccount creates a local account from a provider userinfo record and
// links the provider subject to it.
//
// It fails with ErrEmailRequired when policy demands an email and the record
// has none, and with ErrCreateRejected when the create hook vetoes the
// account; in both cases the store is untouched. Store failures are returned
// as-is. On success the account id is returned and an AccountCreated
// notification is fired.
func (a *App) CreateAccount(ctx context.Context, ui userinfo.UserInfo) (string, error) {
	if a.cfg.Policy.RequireEmail && strings.TrimSpace(ui.Email) == "" {
		return "", ErrEmailRequired
	}

	fields := userinfo.AccountFields(ui, a.validator)

	// A record with no username-bearing claims and no usable email leaves
	// the login candidate empty. Generate one here; the store would only
	// reject the insert later with an opaque constraint error.
	if fields.Login == "" {
		fields.Login = "user" + crypto.RandomString(8, crypto.AlphanumericAlphabet)
		fields.Nickname = fields.Login
	}

	// The store insists every account has a password. Generate one with
	// high entropy and store only its hash; authentication is fully
	// delegated to the provider, so nobody ever sees it.
	hash, err := crypto.GenerateHash(crypto.GeneratePassword(a.cfg.Policy.PasswordLength))
	if err != nil {
		return "", err
	}
	fields.Password = hash

	login, err := a.resolveLoginCollision(fields.Login)
	if err != nil {
		return "", err
	}
	fields.Login = login

	if a.createHook != nil && !a.createHook(fields) {
		a.logger.Info("account creation vetoed by hook", "login", fields.Login, "sub", ui.Sub)
		return "", ErrCreateRejected
	}

	account, err := a.dbAccount.CreateAccount(fields)
	if err != nil {
		return "", err
	}

	// Linkage and extended attributes are a metadata side channel. A
	// failure here must not undo the sign-in: the account exists and can
	// be found by email on the next attempt, which re-links it.
	if err := a.SetLinkage(account.ID, ui.Sub); err != nil {
		a.logger.Warn("failed to link provider subject to new account",
			"account_id", account.ID, "sub", ui.Sub, "error", err)
	}

	if ext := userinfo.Extended(ui); !ext.IsZero() {
		if err := a.SetExtended(account.ID, ext); err != nil {
			a.logger.Warn("failed to persist extended attributes",
				"account_id", account.ID, "error", err)
		}
	}

	a.sendEvent(ctx, notify.AccountCreated, account.ID, fields)

	a.logger.Info("account created from provider sign-in",
		"account_id", account.ID, "login", fields.Login)

	return account.ID, nil
}

// resolveLoginCollision returns a login no existing account uses.
//
// It probes the store candidate by candidate, appending a random integer in
// [1,99] on each collision, matching what deployed installations generate.
// The check-then-act sequence races with concurrent creates by design; the
// store's UNIQUE constraint on login is the backstop. The loop is capped: at
// the cap a random alphanumeric suffix is appended without further probing,
// so a pathological store cannot make this spin forever.
func (a *App) resolveLoginCollision(login string) (string, error) {
	candidate := login
	for i := 0; i < a.cfg.Policy.LoginSuffixAttempts; i++ {
		exists, err := a.dbAccount.AccountExistsWithLogin(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate += strconv.Itoa(rand.Intn(99) + 1)
	}

	a.logger.Warn("login collision cap reached, falling back to random suffix", "login", login)
	return login + crypto.RandomString(8, crypto.AlphanumericAlphabet), nil
}

// sendEvent delivers a lifecycle event to the configured notifier.
// Fire-and-forget: delivery failures are logged, never surfaced to the
// sign-in flow.
func (a *App) sendEvent(ctx context.Context, t notify.Type, accountID string, fields db.AccountFields) {
	if a.notifier == nil {
		return
	}

	e := notify.Event{
		Timestamp:   time.Now().UTC(),
		Type:        t,
		AccountID:   accountID,
		Login:       fields.Login,
		Email:       fields.Email,
		DisplayName: fields.DisplayName,
	}
	if err := a.notifier.Send(ctx, e); err != nil {
		a.logger.Warn("failed to deliver lifecycle notification",
			"type", t.String(), "account_id", accountID, "error", err)
	}
}
