package field

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlTypes maps lower-cased catalog type names to bare type names.
// Sized and numeric types are handled in FromSQL.
var sqlTypes = map[string]string{
	"integer":                     "Integer",
	"int":                         "Integer",
	"int4":                        "Integer",
	"mediumint":                   "Integer",
	"serial":                      "Integer",
	"serial4":                     "Integer",
	"bigint":                      "BigInteger",
	"int8":                        "BigInteger",
	"bigserial":                   "BigInteger",
	"serial8":                     "BigInteger",
	"smallint":                    "SmallInteger",
	"int2":                        "SmallInteger",
	"tinyint":                     "SmallInteger",
	"smallserial":                 "SmallInteger",
	"text":                        "UnicodeText",
	"tinytext":                    "UnicodeText",
	"mediumtext":                  "UnicodeText",
	"longtext":                    "UnicodeText",
	"clob":                        "UnicodeText",
	"boolean":                     "Boolean",
	"bool":                        "Boolean",
	"real":                        "Float",
	"float":                       "Float",
	"float4":                      "Float",
	"float8":                      "Float",
	"double":                      "Float",
	"double precision":            "Float",
	"date":                        "Date",
	"time":                        "Time",
	"time without time zone":      "Time",
	"time with time zone":         "Time",
	"timetz":                      "Time",
	"timestamp":                   "DateTime",
	"timestamp without time zone": "DateTime",
	"timestamp with time zone":    "DateTime",
	"timestamptz":                 "DateTime",
	"datetime":                    "DateTime",
	"json":                        "JSON",
	"jsonb":                       "JSONB",
	"uuid":                        "UUID",
	"hstore":                      "HSTORE",
	"inet":                        "INET",
	"cidr":                        "CIDR",
	"macaddr":                     "MACADDR",
	"interval":                    "INTERVAL",
	"tsvector":                    "TSVECTOR",
	"bytea":                       "LargeBinary",
	"blob":                        "LargeBinary",
	"longblob":                    "LargeBinary",
	"binary":                      "LargeBinary",
	"varbinary":                   "LargeBinary",
}

// FromSQL returns the type expression for a catalog type. Size applies to
// character types and precision/scale to exact numerics; zero means unset.
// Array types are written with a trailing "[]" after the element type and
// map to ARRAY of the element. Other names are upper-cased with spaces
// replaced by underscores when that names a dialect type (e.g. "int4range"
// -> "INT4RANGE"), and fall back to Unicode otherwise.
func FromSQL(dataType string, size, precision, scale int) string {
	t := strings.ToLower(strings.TrimSpace(dataType))
	if elem, ok := strings.CutSuffix(t, "[]"); ok {
		return "ARRAY(" + FromSQL(elem, 0, 0, 0) + ")"
	}
	switch t {
	case "character varying", "varchar", "nvarchar", "character", "char", "nchar", "bpchar":
		if size > 0 {
			return fmt.Sprintf("Unicode(%d)", size)
		}
		return "Unicode"
	case "numeric", "decimal":
		switch {
		case precision > 0 && scale > 0:
			return fmt.Sprintf("Numeric(%d, %d)", precision, scale)
		case precision > 0:
			return fmt.Sprintf("Numeric(%d)", precision)
		}
		return "Numeric"
	}
	if name, ok := sqlTypes[t]; ok {
		return name
	}
	if name := strings.ToUpper(strings.ReplaceAll(t, " ", "_")); IsBackendSpecific(name) {
		return name
	}
	return "Unicode"
}

// SplitSQL splits a declared column type such as "VARCHAR(20)" or
// "DECIMAL(10,2)" into its name and numeric arguments, as reported by
// SQLite's table_info pragma. Non-numeric arguments are ignored.
func SplitSQL(decl string) (name string, args []int) {
	decl = strings.TrimSpace(decl)
	open := strings.IndexByte(decl, '(')
	if open < 0 || !strings.HasSuffix(decl, ")") {
		return decl, nil
	}
	for _, p := range strings.Split(decl[open+1:len(decl)-1], ",") {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			args = append(args, n)
		}
	}
	return strings.TrimSpace(decl[:open]), args
}
