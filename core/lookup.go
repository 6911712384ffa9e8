package core

import (
	"encoding/json"
	"fmt"

	"github.com/caasmo/accountlink/db"
)

// linkageCacheCost is the cache cost of one sub -> account id entry.
const linkageCacheCost = 1

// FindByEmail returns the account with the given email, or nil on empty
// input, store error, or no match. The nil-on-error behavior is the
// documented "not found" convention of the lookup helpers, not a swallowed
// failure; store errors are logged.
func (a *App) FindByEmail(email string) *db.Account {
	if email == "" {
		return nil
	}

	account, err := a.dbAccount.GetAccountByEmail(email)
	if err != nil {
		a.logger.Debug("account lookup by email failed", "error", err)
		return nil
	}
	return account
}

// FindByLinkage returns the account linked to the given provider subject, or
// nil on empty input, store error, or no match. Linkage is meant to be
// unique per account; if the store ever reports several matches the first
// one wins.
//
// Successful lookups are cached (sub -> account id) to spare the metadata
// scan on repeated sign-ins.
func (a *App) FindByLinkage(sub string) *db.Account {
	if sub == "" {
		return nil
	}

	if a.cache != nil {
		if id, ok := a.cache.Get(linkageCacheKey(sub)); ok {
			account, err := a.dbAccount.GetAccountByID(id)
			if err == nil && account != nil {
				return account
			}
			// Stale entry: the account is gone or the store failed.
			a.cache.Del(linkageCacheKey(sub))
		}
	}

	accounts, err := a.dbAccount.FindAccountsByMeta(a.linkageKey(), sub, 1)
	if err != nil {
		a.logger.Debug("account lookup by linkage failed", "sub", sub, "error", err)
		return nil
	}
	if len(accounts) == 0 {
		return nil
	}

	account := accounts[0]
	a.cacheLinkage(sub, account.ID)
	return account
}

// HasLinkage reports whether the account has a provider subject recorded.
func (a *App) HasLinkage(accountID string) bool {
	sub, err := a.Linkage(accountID)
	return err == nil && sub != ""
}

// Linkage returns the provider subject recorded for the account, "" when
// none is set.
func (a *App) Linkage(accountID string) (string, error) {
	return a.dbMeta.GetMeta(accountID, a.linkageKey())
}

// SetLinkage records the provider subject for the account. Last write wins;
// at most one subject is recorded per account.
func (a *App) SetLinkage(accountID, sub string) error {
	// A re-link replaces the previous subject; its cache entry must go
	// too, or lookups by the old subject keep resolving to this account.
	if a.cache != nil {
		if old, err := a.Linkage(accountID); err == nil && old != "" && old != sub {
			a.cache.Del(linkageCacheKey(old))
		}
	}

	if err := a.dbMeta.SetMeta(accountID, a.linkageKey(), sub); err != nil {
		return fmt.Errorf("failed to set linkage: %w", err)
	}
	a.cacheLinkage(sub, accountID)
	return nil
}

// ClearLinkage removes the provider subject from the account.
func (a *App) ClearLinkage(accountID string) error {
	// Read the subject first so the cache entry can be dropped too.
	sub, err := a.Linkage(accountID)
	if err != nil {
		return fmt.Errorf("failed to read linkage before clearing: %w", err)
	}

	if err := a.dbMeta.DeleteMeta(accountID, a.linkageKey()); err != nil {
		return fmt.Errorf("failed to clear linkage: %w", err)
	}

	if a.cache != nil && sub != "" {
		a.cache.Del(linkageCacheKey(sub))
	}
	return nil
}

// Extended returns the extended attributes stored for the account, nil when
// none are recorded.
func (a *App) Extended(accountID string) (*db.ExtendedAttributes, error) {
	raw, err := a.dbMeta.GetMeta(accountID, a.extendedKey())
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var ext db.ExtendedAttributes
	if err := json.Unmarshal([]byte(raw), &ext); err != nil {
		return nil, fmt.Errorf("failed to decode extended attributes: %w", err)
	}
	return &ext, nil
}

// SetExtended stores the extended attributes blob for the account,
// overwriting any previous value.
func (a *App) SetExtended(accountID string, ext db.ExtendedAttributes) error {
	raw, err := json.Marshal(ext)
	if err != nil {
		return fmt.Errorf("failed to encode extended attributes: %w", err)
	}
	return a.dbMeta.SetMeta(accountID, a.extendedKey(), string(raw))
}

// ClearExtended removes the extended attributes from the account.
func (a *App) ClearExtended(accountID string) error {
	return a.dbMeta.DeleteMeta(accountID, a.extendedKey())
}

func linkageCacheKey(sub string) string {
	return "linkage:" + sub
}

func (a *App) cacheLinkage(sub, accountID string) {
	if a.cache == nil || sub == "" {
		return
	}
	if ttl := a.cfg.Policy.LinkageCacheTTL.Duration; ttl > 0 {
		a.cache.SetWithTTL(linkageCacheKey(sub), accountID, linkageCacheCost, ttl)
		return
	}
	a.cache.Set(linkageCacheKey(sub), accountID, linkageCacheCost)
}
