package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/syssam/modelgen/dialect"
)

// Driver reads catalogs through a *sql.DB of one dialect.
type Driver struct {
	db      *sql.DB
	dialect string
}

var _ dialect.Driver = (*Driver)(nil)

// Open opens a connection pool for a supported dialect. The dialect name
// doubles as the database/sql driver name.
func Open(name, source string) (*Driver, error) {
	if !dialect.Supported(name) {
		return nil, fmt.Errorf("dialect/sql: unsupported dialect %q", name)
	}
	db, err := sql.Open(name, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", name, err)
	}
	return OpenDB(name, db), nil
}

// OpenDB returns a Driver reading through an already opened db.
func OpenDB(name string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: name}
}

// DB returns the wrapped connection pool.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name the driver was opened with.
func (d *Driver) Dialect() string { return d.dialect }

// Query runs a read-only query.
func (d *Driver) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return rows, nil
}

// Ping checks that the database is reachable.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("dialect/sql: ping %s: %w", d.dialect, err)
	}
	return nil
}

// Close closes the connection pool.
func (d *Driver) Close() error { return d.db.Close() }
