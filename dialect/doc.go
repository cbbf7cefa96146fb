// Package dialect names the supported databases and the read-only driver
// interface the catalog inspector runs on.
//
// The dialect names double as database/sql driver names, registered by
// dialect/sql:
//
//   - postgres: PostgreSQL (github.com/lib/pq)
//   - mysql: MySQL and MariaDB (github.com/go-sql-driver/mysql)
//   - sqlite: SQLite (modernc.org/sqlite)
//
// A Driver only queries. Statements that change a database, such as test
// fixtures, go through the underlying *sql.DB:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//	tables, err := schema.NewInspector(drv).Tables(ctx, "public")
package dialect
