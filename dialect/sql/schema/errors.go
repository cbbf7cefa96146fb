package schema

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes for catalog access failures.
const (
	pgInsufficientPrivilege = "42501"
	pgInvalidCatalogName    = "3D000"
	pgInvalidPassword       = "28P01"
	pgInvalidAuthorization  = "28000"
)

// MySQL error numbers for catalog access failures.
const (
	mysqlDBAccessDenied    = 1044
	mysqlAccessDenied      = 1045
	mysqlTableAccessDenied = 1142
	mysqlUnknownDatabase   = 1049
)

// sqlStateError is implemented by drivers that expose SQLSTATE codes.
type sqlStateError interface {
	SQLState() string
}

// IsAccessDenied reports whether the error resulted from missing
// credentials or privileges on the catalog.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	switch code := pgCode(err); code {
	case pgInsufficientPrivilege, pgInvalidPassword, pgInvalidAuthorization:
		return true
	}
	if e, ok := asError[*mysql.MySQLError](err); ok {
		switch e.Number {
		case mysqlDBAccessDenied, mysqlAccessDenied, mysqlTableAccessDenied:
			return true
		}
	}
	// Fallback to string matching for drivers that don't expose codes.
	return containsAny(err.Error(),
		"Error 1044", // MySQL
		"Error 1045", // MySQL
		"permission denied",
		"password authentication failed",
	)
}

// IsUnknownDatabase reports whether the error resulted from connecting to a
// database that does not exist.
func IsUnknownDatabase(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgInvalidCatalogName {
		return true
	}
	if e, ok := asError[*mysql.MySQLError](err); ok && e.Number == mysqlUnknownDatabase {
		return true
	}
	return containsAny(err.Error(),
		"Error 1049", // MySQL
		"does not exist",
		"unable to open database file", // SQLite
	)
}

func pgCode(err error) string {
	if e, ok := asError[*pq.Error](err); ok {
		return string(e.Code)
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState()
	}
	return ""
}

// asError attempts to extract an error of type T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
