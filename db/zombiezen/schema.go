package zombiezen

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"
)

// schema holds the tables this module needs. Logins are unique at the store
// level as the backstop for the reconciler's check-then-act collision loop;
// emails are unique only when set, since accounts without email are allowed
// under a relaxed policy.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL DEFAULT '',
	login TEXT NOT NULL UNIQUE CHECK (login != ''),
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL DEFAULT '',
	nickname TEXT NOT NULL DEFAULT '',
	password TEXT NOT NULL,
	created TEXT NOT NULL,
	updated TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_idx ON accounts(email) WHERE email != '';

CREATE TABLE IF NOT EXISTS account_meta (
	account_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (account_id, key)
);

CREATE INDEX IF NOT EXISTS account_meta_kv_idx ON account_meta(key, value);
`

// Schema creates the accounts and account_meta tables if they do not exist.
func Schema(pool *sqlitex.Pool) error {
	conn, err := pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer pool.Put(conn)

	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
