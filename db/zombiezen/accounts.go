package zombiezen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/caasmo/accountlink/db"
)

const accountColumns = `id, email, login, first_name, last_name, display_name, nickname, created, updated`

// newAccountFromStmt creates an Account struct from a SQLite statement
func newAccountFromStmt(stmt *sqlite.Stmt) (*db.Account, error) {
	created, err := db.TimeParse(stmt.GetText("created"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created time: %w", err)
	}

	updated, err := db.TimeParse(stmt.GetText("updated"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated time: %w", err)
	}

	return &db.Account{
		ID:          stmt.GetText("id"),
		Email:       stmt.GetText("email"),
		Login:       stmt.GetText("login"),
		FirstName:   stmt.GetText("first_name"),
		LastName:    stmt.GetText("last_name"),
		DisplayName: stmt.GetText("display_name"),
		Nickname:    stmt.GetText("nickname"),
		Created:     created,
		Updated:     updated,
	}, nil
}

// GetAccountByEmail retrieves an account by email address.
// Returns:
// - *db.Account: the record if found, nil if no matching record exists
// - error: only returned for database errors, nil on successful query
// Note: a nil account with nil error indicates no matching record was found
func (d *Db) GetAccountByEmail(email string) (*db.Account, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var account *db.Account // Will remain nil if no rows found
	err = sqlitex.Execute(conn,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				account, err = newAccountFromStmt(stmt)
				return err
			},
			Args: []interface{}{email},
		})

	if err != nil {
		return nil, err
	}

	return account, nil
}

func (d *Db) GetAccountByID(id string) (*db.Account, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var account *db.Account
	err = sqlitex.Execute(conn,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				account, err = newAccountFromStmt(stmt)
				return err
			},
			Args: []interface{}{id},
		})

	if err != nil {
		return nil, err
	}

	return account, nil
}

// AccountExistsWithLogin reports whether any account already uses the login.
func (d *Db) AccountExistsWithLogin(login string) (bool, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return false, err
	}
	defer d.pool.Put(conn)

	var exists bool
	err = sqlitex.Execute(conn,
		`SELECT 1 FROM accounts WHERE login = ? LIMIT 1`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				exists = true
				return nil
			},
			Args: []interface{}{login},
		})

	if err != nil {
		return false, err
	}

	return exists, nil
}

// CreateAccount inserts a new account with RFC3339 formatted UTC timestamps.
func (d *Db) CreateAccount(fields db.AccountFields) (*db.Account, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var created db.Account
	err = sqlitex.Execute(conn,
		`INSERT INTO accounts (id, email, login, first_name, last_name, display_name, nickname, password, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?,
			(strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			(strftime('%Y-%m-%dT%H:%M:%SZ', 'now')))
		RETURNING `+accountColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				tempAccount, err := newAccountFromStmt(stmt)
				if err == nil && tempAccount != nil {
					created = *tempAccount
				}
				return err
			},
			Args: []interface{}{
				uuid.NewString(),   // 1. id
				fields.Email,       // 2. email
				fields.Login,       // 3. login
				fields.FirstName,   // 4. first_name
				fields.LastName,    // 5. last_name
				fields.DisplayName, // 6. display_name
				fields.Nickname,    // 7. nickname
				fields.Password,    // 8. password
			},
		})

	if err != nil {
		return nil, err
	}

	return &created, nil
}

// UpdateAccount updates the account identified by fields.ID in place.
// The password column is left untouched; only creation sets it.
func (d *Db) UpdateAccount(fields db.AccountFields) (*db.Account, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	var updated *db.Account
	err = sqlitex.Execute(conn,
		`UPDATE accounts
		SET email = ?,
			login = ?,
			first_name = ?,
			last_name = ?,
			display_name = ?,
			nickname = ?,
			updated = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?
		RETURNING `+accountColumns,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				var err error
				updated, err = newAccountFromStmt(stmt)
				return err
			},
			Args: []interface{}{
				fields.Email,       // 1. email
				fields.Login,       // 2. login
				fields.FirstName,   // 3. first_name
				fields.LastName,    // 4. last_name
				fields.DisplayName, // 5. display_name
				fields.Nickname,    // 6. nickname
				fields.ID,          // 7. id
			},
		})

	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, db.ErrAccountNotFound
	}

	return updated, nil
}

// FindAccountsByMeta returns up to limit accounts whose metadata entry under
// key equals value.
func (d *Db) FindAccountsByMeta(key, value string, limit int) ([]*db.Account, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	if limit <= 0 {
		limit = 1
	}

	var accounts []*db.Account
	err = sqlitex.Execute(conn,
		`SELECT a.id, a.email, a.login, a.first_name, a.last_name, a.display_name, a.nickname, a.created, a.updated
		FROM accounts a
		JOIN account_meta m ON m.account_id = a.id
		WHERE m.key = ? AND m.value = ?
		LIMIT ?`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				account, err := newAccountFromStmt(stmt)
				if err != nil {
					return err
				}
				accounts = append(accounts, account)
				return nil
			},
			Args: []interface{}{key, value, limit},
		})

	if err != nil {
		return nil, err
	}

	return accounts, nil
}
