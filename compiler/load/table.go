package load

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table is a catalog-level table description. The Atlas HCL source and
// live database introspection both produce tables, which FromTables turns
// into entity descriptions.
type Table struct {
	Name        string
	Columns     []*TableColumn
	ForeignKeys []*TableForeignKey
}

// TableColumn describes one column of a Table. Type is a type expression
// (see field.FromSQL).
type TableColumn struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Unique     bool
}

// TableForeignKey describes a single-column foreign key.
type TableForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// Pluralize returns the table name of a class name: the lower-cased name
// with "y" turned into "ies", "es" added after "s", and "s" added otherwise.
func Pluralize(name string) string {
	s := cases.Lower(language.Und).String(name)
	switch {
	case strings.HasSuffix(s, "y"):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(s, "s"):
		return s + "es"
	default:
		return s + "s"
	}
}

// EntityName returns a class name whose table name, as derived by
// Pluralize, is table. The English singular is preferred, so
// "user_accounts" becomes "User_account". It reports false when no name
// maps back to table, as for "people" or "days".
func EntityName(table string) (string, bool) {
	for _, name := range singulars(table) {
		if name != "" && Pluralize(name) == table {
			r, size := utf8.DecodeRuneInString(name)
			return string(unicode.ToUpper(r)) + name[size:], true
		}
	}
	return "", false
}

// singulars lists the candidate singular forms of table.
func singulars(table string) []string {
	names := []string{inflect.Singularize(table)}
	switch {
	case strings.HasSuffix(table, "ies"):
		names = append(names, strings.TrimSuffix(table, "ies")+"y")
	case strings.HasSuffix(table, "ses"):
		names = append(names, strings.TrimSuffix(table, "es"))
	}
	if name, ok := strings.CutSuffix(table, "s"); ok {
		names = append(names, name)
	}
	return names
}

// FromTables converts tables into entity descriptions. Columns that carry a
// foreign key become foreign keys, and each foreign key to a table with a
// model also yields a relationship to it. Tables without an entity name
// (see EntityName) are returned in skipped.
func FromTables(tables []*Table) (schemas []*Schema, skipped []*Table) {
	schemas = make([]*Schema, 0, len(tables))
	for _, t := range tables {
		name, ok := EntityName(t.Name)
		if !ok {
			skipped = append(skipped, t)
			continue
		}
		schemas = append(schemas, fromTable(name, t))
	}
	return schemas, skipped
}

func fromTable(name string, t *Table) *Schema {
	s := &Schema{Name: name, Pos: t.Name}
	refs := make(map[string]*TableForeignKey, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		if _, ok := refs[fk.Column]; !ok {
			refs[fk.Column] = fk
		}
	}
	taken := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		taken[c.Name] = true
	}
	for _, c := range t.Columns {
		var args Args
		switch {
		case c.PrimaryKey:
			args.Set("primary_key", "True")
		case !c.Nullable:
			args.Set("nullable", "False")
		}
		if c.Unique && !c.PrimaryKey {
			args.Set("unique", "True")
		}
		fk, ok := refs[c.Name]
		if !ok {
			s.Columns = append(s.Columns, &Column{Name: c.Name, Type: c.Type, Args: args})
			continue
		}
		s.ForeignKeys = append(s.ForeignKeys, &ForeignKey{
			Name:      c.Name,
			Type:      c.Type,
			Reference: Reference{Table: fk.RefTable, Column: fk.RefColumn},
			Args:      args,
		})
		class, ok := EntityName(fk.RefTable)
		if !ok {
			continue
		}
		rel := relationName(c.Name, fk.RefTable)
		if taken[rel] {
			continue
		}
		taken[rel] = true
		s.Relationships = append(s.Relationships, &Relationship{Name: rel, Class: class})
	}
	return s
}

// relationName names the relationship for a foreign key column: "owner_id"
// becomes "owner"; other columns fall back to the singular referenced table.
func relationName(column, refTable string) string {
	if name, ok := strings.CutSuffix(column, "_id"); ok && name != "" {
		return name
	}
	return inflect.Singularize(refTable)
}
