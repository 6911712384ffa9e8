package zombiezen

import (
	"context"
	"fmt"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// GetMeta returns the value stored under key for the account, "" when no
// entry exists.
func (d *Db) GetMeta(accountID, key string) (string, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return "", err
	}
	defer d.pool.Put(conn)

	var value string
	err = sqlitex.Execute(conn,
		`SELECT value FROM account_meta WHERE account_id = ? AND key = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value = stmt.GetText("value")
				return nil
			},
			Args: []interface{}{accountID, key},
		})

	if err != nil {
		return "", err
	}

	return value, nil
}

// SetMeta stores value under key for the account, overwriting any previous
// value.
func (d *Db) SetMeta(accountID, key, value string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO account_meta (account_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(account_id, key) DO UPDATE SET value = excluded.value`,
		&sqlitex.ExecOptions{
			Args: []interface{}{accountID, key, value},
		})
	if err != nil {
		return fmt.Errorf("failed to set meta: %w", err)
	}
	return nil
}

// DeleteMeta removes the entry under key for the account. Deleting a missing
// entry is not an error.
func (d *Db) DeleteMeta(accountID, key string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM account_meta WHERE account_id = ? AND key = ?`,
		&sqlitex.ExecOptions{
			Args: []interface{}{accountID, key},
		})
	if err != nil {
		return fmt.Errorf("failed to delete meta: %w", err)
	}
	return nil
}
