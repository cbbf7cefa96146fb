package sql

import (
	// database/sql drivers, registered as "mysql", "postgres" and "sqlite".
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)
