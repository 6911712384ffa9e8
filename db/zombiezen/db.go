package zombiezen

import (
	"fmt"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/caasmo/accountlink/db"
)

type Db struct {
	pool *sqlitex.Pool
}

// Verify interface implementations
var _ db.DbAccount = (*Db)(nil)
var _ db.DbMeta = (*Db)(nil)
var _ db.DbApp = (*Db)(nil)

// New creates a new Db instance using an existing pool provided by the user.
// The lifecycle of the provided pool is managed externally; this Db type
// does not close it.
func New(pool *sqlitex.Pool) (*Db, error) {
	if pool == nil {
		return nil, fmt.Errorf("provided pool cannot be nil")
	}
	return &Db{pool: pool}, nil
}
