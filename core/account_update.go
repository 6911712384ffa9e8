package core

import (
	"context"

	"github.com/caasmo/accountlink/db"
	"github.com/caasmo/accountlink/notify"
	"github.com/caasmo/accountlink/userinfo"
)

// UpdateAccount refreshes an existing account from a provider userinfo
// record.
//
// The target account must be pre-resolved by the caller (by email or by
// linkage); a nil target fails with ErrNoAccountTarget before any store
// mutation. The canonical fields are written against the target's id, so the
// store updates in place even when login or email changed at the provider.
// Linkage is re-performed (idempotent, last write wins) and extended
// attributes are persisted when non-empty. Store failures are returned
// as-is. On success an AccountUpdated notification is fired.
func (a *App) UpdateAccount(ctx context.Context, account *db.Account, ui userinfo.UserInfo) (string, error) {
	if account == nil {
		return "", ErrNoAccountTarget
	}

	fields := userinfo.AccountFields(ui, a.validator)
	fields.ID = account.ID

	updated, err := a.dbAccount.UpdateAccount(fields)
	if err != nil {
		return "", err
	}

	if err := a.SetLinkage(updated.ID, ui.Sub); err != nil {
		a.logger.Warn("failed to refresh provider linkage",
			"account_id", updated.ID, "sub", ui.Sub, "error", err)
	}

	if ext := userinfo.Extended(ui); !ext.IsZero() {
		if err := a.SetExtended(updated.ID, ext); err != nil {
			a.logger.Warn("failed to persist extended attributes",
				"account_id", updated.ID, "error", err)
		}
	}

	a.sendEvent(ctx, notify.AccountUpdated, updated.ID, fields)

	a.logger.Info("account updated from provider sign-in",
		"account_id", updated.ID, "login", fields.Login)

	return updated.ID, nil
}
