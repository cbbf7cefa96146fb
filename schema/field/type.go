package field

import (
	"regexp"
	"slices"
	"strings"
)

// typeRe matches a bare type name with an optional trailing parameter list.
var typeRe = regexp.MustCompile(`^(\w+)(\(.*\)$)?`)

// TypeInfo holds the parts of a parsed type expression.
type TypeInfo struct {
	Name   string // bare type name, e.g. "Unicode"
	Params string // parameter list including parentheses, e.g. "(20)"
}

// ParseType splits a type expression into its bare name and parameters.
// Expressions that do not start with a word character yield an empty
// TypeInfo. Text after the name that is not a trailing parenthesized
// list is dropped.
func ParseType(expr string) TypeInfo {
	m := typeRe.FindStringSubmatch(expr)
	if m == nil {
		return TypeInfo{}
	}
	return TypeInfo{Name: m[1], Params: m[2]}
}

// String returns the type expression in its canonical form.
func (t TypeInfo) String() string {
	return t.Name + t.Params
}

// Valid reports whether the expression had a bare name.
func (t TypeInfo) Valid() bool {
	return t.Name != ""
}

// HasParams reports whether a parameter list was given.
func (t TypeInfo) HasParams() bool {
	return t.Params != ""
}

// Element returns the item type of an ARRAY expression, the first
// argument of its parameter list. It reports false for other types.
func (t TypeInfo) Element() (TypeInfo, bool) {
	if t.Name != "ARRAY" || len(t.Params) < 2 {
		return TypeInfo{}, false
	}
	arg, depth := t.Params[1:len(t.Params)-1], 0
	end := strings.IndexFunc(arg, func(r rune) bool {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			return depth == 0
		}
		return false
	})
	if end >= 0 {
		arg = arg[:end]
	}
	e := ParseType(strings.TrimSpace(arg))
	return e, e.Valid()
}

// PostgresTypes lists the types imported from the PostgreSQL dialect module.
var PostgresTypes = []string{
	"ARRAY",
	"BIGINT",
	"BIT",
	"BOOLEAN",
	"BYTEA",
	"CHAR",
	"CIDR",
	"DATE",
	"DOUBLE_PRECISION",
	"ENUM",
	"FLOAT",
	"HSTORE",
	"INET",
	"INTEGER",
	"INTERVAL",
	"JSON",
	"JSONB",
	"MACADDR",
	"NUMERIC",
	"OID",
	"REAL",
	"SMALLINT",
	"TEXT",
	"TIME",
	"TIMESTAMP",
	"UUID",
	"VARCHAR",
	"INT4RANGE",
	"INT8RANGE",
	"NUMRANGE",
	"DATERANGE",
	"TSRANGE",
	"TSTZRANGE",
	"TSVECTOR",
}

// MutableTypes lists the dictionary-like types that need change tracking.
var MutableTypes = []string{
	"HSTORE",
	"JSON",
	"JSONB",
}

// NoParamsTypes lists the types whose constructor takes no parameters.
var NoParamsTypes = []string{
	"Integer",
	"BigInteger",
	"Float",
	"Decimal",
	"Numeric",
	"JSONB",
	"JSON",
	"HSTORE",
}

// IsBackendSpecific reports whether name is imported from the dialect module.
func IsBackendSpecific(name string) bool {
	return slices.Contains(PostgresTypes, name)
}

// IsMutableContainer reports whether name needs the mutable adapter.
func IsMutableContainer(name string) bool {
	return slices.Contains(MutableTypes, name)
}

// TakesNoParams reports whether name rejects constructor parameters.
func TakesNoParams(name string) bool {
	return slices.Contains(NoParamsTypes, name)
}
