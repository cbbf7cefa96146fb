// Package load reads entity descriptions from definition documents and
// command-line column specs and validates them for code generation.
package load

import (
	"slices"
	"strings"

	"github.com/syssam/modelgen"
)

// Schema represents an entity description loaded from a definition document.
type Schema struct {
	Name          string          `json:"name"`
	Pos           string          `json:"-"`
	Columns       []*Column       `json:"columns,omitempty"`
	ForeignKeys   []*ForeignKey   `json:"foreign_keys,omitempty"`
	Relationships []*Relationship `json:"relationships,omitempty"`
}

// Column represents a plain mapped column.
type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Args Args   `json:"args,omitempty"`
}

// Reference is the table and column a foreign key points to.
type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// String returns the reference in "table.column" form.
func (r Reference) String() string {
	return r.Table + "." + r.Column
}

// ForeignKey represents a column that references another table.
type ForeignKey struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Reference Reference `json:"reference"`
	Args      Args      `json:"args,omitempty"`
}

// Relationship represents an ORM-level link to another mapped class.
type Relationship struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	Args  Args   `json:"args,omitempty"`
}

// Arg is a single extra keyword argument. Value holds the rendered
// Python literal or expression.
type Arg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Args holds extra keyword arguments in declaration order.
type Args []Arg

// Get returns the value of the named argument.
func (a Args) Get(name string) (string, bool) {
	i := slices.IndexFunc(a, func(arg Arg) bool { return arg.Name == name })
	if i < 0 {
		return "", false
	}
	return a[i].Value, true
}

// Set replaces the named argument or appends it.
func (a *Args) Set(name, value string) {
	if i := slices.IndexFunc(*a, func(arg Arg) bool { return arg.Name == name }); i >= 0 {
		(*a)[i].Value = value
		return
	}
	*a = append(*a, Arg{Name: name, Value: value})
}

// falsy holds the rendered literals Python evaluates as false.
var falsy = []string{"False", "None", "0", "0.0", "''", `""`, "[]", "{}", "()"}

// PrimaryKey reports whether the arguments mark a primary key: the
// primary_key argument is present and its literal is truthy in Python.
func (a Args) PrimaryKey() bool {
	v, ok := a.Get("primary_key")
	return ok && !slices.Contains(falsy, strings.TrimSpace(v))
}

// Strings returns the arguments as name=value pairs.
func (a Args) Strings() []string {
	s := make([]string, len(a))
	for i, arg := range a {
		s[i] = arg.Name + "=" + arg.Value
	}
	return s
}

// AttributeNames returns the names of all columns, foreign keys and
// relationships in declaration order.
func (s *Schema) AttributeNames() []string {
	names := make([]string, 0, len(s.Columns)+len(s.ForeignKeys)+len(s.Relationships))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	for _, fk := range s.ForeignKeys {
		names = append(names, fk.Name)
	}
	for _, r := range s.Relationships {
		names = append(names, r.Name)
	}
	return names
}

// Validate checks that every entry defines its required keys.
func (s *Schema) Validate() error {
	for i, c := range s.Columns {
		switch {
		case strings.TrimSpace(c.Name) == "":
			return modelgen.NewMissingFieldError(s.Name, "column", i, "name")
		case strings.TrimSpace(c.Type) == "":
			return modelgen.NewMissingFieldError(s.Name, "column", i, "type")
		}
	}
	for i, fk := range s.ForeignKeys {
		switch {
		case strings.TrimSpace(fk.Name) == "":
			return modelgen.NewMissingFieldError(s.Name, "foreign key", i, "name")
		case strings.TrimSpace(fk.Type) == "":
			return modelgen.NewMissingFieldError(s.Name, "foreign key", i, "type")
		case fk.Reference.Table == "":
			return modelgen.NewMissingFieldError(s.Name, "foreign key", i, "reference.table")
		case fk.Reference.Column == "":
			return modelgen.NewMissingFieldError(s.Name, "foreign key", i, "reference.column")
		}
	}
	for i, r := range s.Relationships {
		switch {
		case strings.TrimSpace(r.Name) == "":
			return modelgen.NewMissingFieldError(s.Name, "relationship", i, "name")
		case strings.TrimSpace(r.Class) == "":
			return modelgen.NewMissingFieldError(s.Name, "relationship", i, "class")
		}
	}
	return nil
}
