package gen

import (
	"slices"

	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/schema/field"
)

// AttrKind identifies how an attribute is declared on the class.
type AttrKind uint8

// Attribute kinds.
const (
	KindColumn AttrKind = iota
	KindForeignKey
	KindRelationship
)

// String returns the kind name.
func (k AttrKind) String() string {
	switch k {
	case KindForeignKey:
		return "foreign key"
	case KindRelationship:
		return "relationship"
	default:
		return "column"
	}
}

type (
	// Type holds the facts derived from a model description. It is built
	// once by NewType and read by every member compiler.
	Type struct {
		*Config
		// Name is the class name.
		Name string
		// Table is the derived table name.
		Table string
		// Attributes holds columns, then foreign keys, then relationships,
		// each in declaration order.
		Attributes []*Attribute
		// PrimaryKeys holds the names of primary-key attributes in order.
		PrimaryKeys []string
		// Types holds the distinct bare type names, sorted.
		Types []string
		// schema is the description the type was built from.
		schema *load.Schema
	}

	// Attribute is one class-level declaration.
	Attribute struct {
		Kind      AttrKind
		Name      string
		Type      field.TypeInfo
		Args      load.Args
		Reference load.Reference
		Class     string
	}
)

// NewType derives the facts of the given model.
func NewType(c *Config, s *load.Schema) (*Type, error) {
	table, err := TableName(s.Name)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Config{}
	}
	t := &Type{
		Config: c,
		Name:   s.Name,
		Table:  table,
		schema: s,
	}
	for _, col := range s.Columns {
		t.add(&Attribute{Kind: KindColumn, Name: col.Name, Type: field.ParseType(col.Type), Args: col.Args})
	}
	for _, fk := range s.ForeignKeys {
		t.add(&Attribute{Kind: KindForeignKey, Name: fk.Name, Type: field.ParseType(fk.Type), Args: fk.Args, Reference: fk.Reference})
	}
	for _, r := range s.Relationships {
		t.add(&Attribute{Kind: KindRelationship, Name: r.Name, Args: r.Args, Class: r.Class})
	}
	slices.Sort(t.Types)
	return t, nil
}

func (t *Type) add(a *Attribute) {
	t.Attributes = append(t.Attributes, a)
	if a.PrimaryKey() {
		t.PrimaryKeys = append(t.PrimaryKeys, a.Name)
	}
	// ARRAY item types are imported along with the array itself.
	for ti, ok := a.Type, a.Type.Valid(); ok; ti, ok = ti.Element() {
		if !slices.Contains(t.Types, ti.Name) {
			t.Types = append(t.Types, ti.Name)
		}
	}
}

// Schema returns the description the type was built from.
func (t *Type) Schema() *load.Schema { return t.schema }

// PrimaryKey reports whether the attribute is part of the primary key.
func (a *Attribute) PrimaryKey() bool {
	return a.Args.PrimaryKey()
}

// Updatable returns the attributes the update method accepts.
func (t *Type) Updatable() []*Attribute {
	var attrs []*Attribute
	for _, a := range t.Attributes {
		if !a.PrimaryKey() {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// StandardTypes returns the types imported from the sqlalchemy package.
func (t *Type) StandardTypes() []string {
	s := t.storage()
	var types []string
	for _, name := range t.Types {
		if !s.IsBackendType(name) {
			types = append(types, name)
		}
	}
	return types
}

// BackendTypes returns the types imported from the dialect module.
func (t *Type) BackendTypes() []string {
	s := t.storage()
	var types []string
	for _, name := range t.Types {
		if s.IsBackendType(name) {
			types = append(types, name)
		}
	}
	return types
}

// HasMutable reports whether any type needs the mutable adapter.
func (t *Type) HasMutable() bool {
	return slices.ContainsFunc(t.Types, t.storage().IsMutable)
}

// HasKind reports whether any attribute is of the given kind.
func (t *Type) HasKind(k AttrKind) bool {
	return slices.ContainsFunc(t.Attributes, func(a *Attribute) bool { return a.Kind == k })
}
