package mock

import (
	"github.com/caasmo/accountlink/db"
)

// Compile-time check to ensure Db implements the DbApp interface
var _ db.DbApp = (*Db)(nil)

// Db implements db.DbApp for testing purposes.
// Use function fields to allow overriding behavior in specific tests.
type Db struct {
	// --- Mock DbAccount Methods ---
	GetAccountByEmailFunc      func(email string) (*db.Account, error)
	GetAccountByIDFunc         func(id string) (*db.Account, error)
	AccountExistsWithLoginFunc func(login string) (bool, error)
	CreateAccountFunc          func(fields db.AccountFields) (*db.Account, error)
	UpdateAccountFunc          func(fields db.AccountFields) (*db.Account, error)
	FindAccountsByMetaFunc     func(key, value string, limit int) ([]*db.Account, error)

	// --- Mock DbMeta Methods ---
	GetMetaFunc    func(accountID, key string) (string, error)
	SetMetaFunc    func(accountID, key, value string) error
	DeleteMetaFunc func(accountID, key string) error
}

// --- Implement DbAccount ---
func (m *Db) GetAccountByEmail(email string) (*db.Account, error) {
	if m.GetAccountByEmailFunc != nil {
		return m.GetAccountByEmailFunc(email)
	}
	return nil, nil // Default: Not found
}

func (m *Db) GetAccountByID(id string) (*db.Account, error) {
	if m.GetAccountByIDFunc != nil {
		return m.GetAccountByIDFunc(id)
	}
	return nil, nil // Default: Not found
}

func (m *Db) AccountExistsWithLogin(login string) (bool, error) {
	if m.AccountExistsWithLoginFunc != nil {
		return m.AccountExistsWithLoginFunc(login)
	}
	return false, nil // Default: Free login
}

func (m *Db) CreateAccount(fields db.AccountFields) (*db.Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(fields)
	}
	// Default: Return an account derived from the fields, assuming success
	return &db.Account{
		ID:          "mock-account-id",
		Email:       fields.Email,
		Login:       fields.Login,
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		DisplayName: fields.DisplayName,
		Nickname:    fields.Nickname,
	}, nil
}

func (m *Db) UpdateAccount(fields db.AccountFields) (*db.Account, error) {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(fields)
	}
	// Default: Return an account derived from the fields, assuming success
	return &db.Account{
		ID:          fields.ID,
		Email:       fields.Email,
		Login:       fields.Login,
		FirstName:   fields.FirstName,
		LastName:    fields.LastName,
		DisplayName: fields.DisplayName,
		Nickname:    fields.Nickname,
	}, nil
}

func (m *Db) FindAccountsByMeta(key, value string, limit int) ([]*db.Account, error) {
	if m.FindAccountsByMetaFunc != nil {
		return m.FindAccountsByMetaFunc(key, value, limit)
	}
	return nil, nil // Default: No matches
}

// --- Implement DbMeta ---
func (m *Db) GetMeta(accountID, key string) (string, error) {
	if m.GetMetaFunc != nil {
		return m.GetMetaFunc(accountID, key)
	}
	return "", nil // Default: No entry
}

func (m *Db) SetMeta(accountID, key, value string) error {
	if m.SetMetaFunc != nil {
		return m.SetMetaFunc(accountID, key, value)
	}
	return nil // Default: Success
}

func (m *Db) DeleteMeta(accountID, key string) error {
	if m.DeleteMetaFunc != nil {
		return m.DeleteMetaFunc(accountID, key)
	}
	return nil // Default: Success
}
