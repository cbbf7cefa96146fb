package dialect

import (
	"context"
	"database/sql"
)

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Querier runs read-only catalog queries. The caller closes the rows.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Driver is a Querier bound to one database and dialect.
type Driver interface {
	Querier
	// Close closes the underlying connection pool.
	Close() error
	// Dialect returns one of the dialect names above.
	Dialect() string
}

// Supported reports whether name is a known dialect.
func Supported(name string) bool {
	switch name {
	case MySQL, SQLite, Postgres:
		return true
	}
	return false
}
