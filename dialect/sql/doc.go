// Package sql wraps database/sql for reading table catalogs.
//
// Driver adapts a *sql.DB to the read-only dialect.Driver interface.
// StatsDriver wraps any dialect.Driver with query counters and slow query
// logging:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db?mode=ro")
//	if err != nil {
//	    return err
//	}
//	stats := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
//
// Importing the package registers the lib/pq, go-sql-driver/mysql and
// modernc.org/sqlite drivers under the dialect names.
package sql
