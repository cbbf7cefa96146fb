package load

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// directives declares the schema directives understood by ParseGraphQL.
const directives = `
directive @entity on OBJECT
directive @column(type: String, primaryKey: Boolean, nullable: Boolean, unique: Boolean, index: Boolean, default: String) on FIELD_DEFINITION
directive @foreignKey(type: String, table: String!, column: String!) on FIELD_DEFINITION
directive @relationship(class: String, backref: String, backPopulates: String, lazy: String) on FIELD_DEFINITION
`

// scalarTypes maps GraphQL scalars to column type expressions.
var scalarTypes = map[string]string{
	"Int":     "Integer",
	"ID":      "Integer",
	"Float":   "Float",
	"String":  "Unicode",
	"Boolean": "Boolean",
}

// directiveArgs maps directive argument names to keyword arguments.
var directiveArgs = map[string]string{
	"primaryKey":    "primary_key",
	"nullable":      "nullable",
	"unique":        "unique",
	"index":         "index",
	"default":       "default",
	"backref":       "backref",
	"backPopulates": "back_populates",
	"lazy":          "lazy",
}

// ParseGraphQL decodes a GraphQL SDL document. Every object type marked
// with @entity becomes an entity description:
//
//	type User @entity {
//	  id: Int! @column(primaryKey: true)
//	  name: String @column(type: "Unicode(20)")
//	  group_id: Int @foreignKey(table: "groups", column: "id")
//	  group: Group @relationship
//	}
//
// Scalar fields become columns, @foreignKey fields become foreign keys, and
// fields typed by another @entity become relationships.
func ParseGraphQL(data []byte, source string) ([]*Schema, error) {
	gs, err := gqlparser.LoadSchema(
		&ast.Source{Name: "directives.graphql", Input: directives, BuiltIn: true},
		&ast.Source{Name: source, Input: string(data)},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	var defs []*ast.Definition
	for _, def := range gs.Types {
		if def.Kind == ast.Object && def.Directives.ForName("entity") != nil {
			defs = append(defs, def)
		}
	}
	slices.SortFunc(defs, func(a, b *ast.Definition) int {
		return position(a) - position(b)
	})
	entities := make(map[string]bool, len(defs))
	for _, def := range defs {
		entities[def.Name] = true
	}
	schemas := make([]*Schema, 0, len(defs))
	for _, def := range defs {
		s := &Schema{Name: def.Name, Pos: fmt.Sprintf("%s:%d", source, position(def))}
		for _, f := range def.Fields {
			if err := addField(s, f, entities); err != nil {
				return nil, fmt.Errorf("%s: %s.%s: %w", s.Pos, def.Name, f.Name, err)
			}
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", s.Pos, err)
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func position(def *ast.Definition) int {
	if def.Position == nil {
		return 0
	}
	return def.Position.Line
}

func addField(s *Schema, f *ast.FieldDefinition, entities map[string]bool) error {
	named := f.Type.Name()
	if d := f.Directives.ForName("foreignKey"); d != nil {
		typ, err := columnType(f, d)
		if err != nil {
			return err
		}
		args := directiveArguments(d, "type", "table", "column")
		nullability(&args, f.Type)
		s.ForeignKeys = append(s.ForeignKeys, &ForeignKey{
			Name: f.Name,
			Type: typ,
			Reference: Reference{
				Table:  argument(d, "table"),
				Column: argument(d, "column"),
			},
			Args: args,
		})
		return nil
	}
	if d := f.Directives.ForName("relationship"); d != nil || entities[named] {
		class := named
		var args Args
		if d != nil {
			if c := argument(d, "class"); c != "" {
				class = c
			}
			args = directiveArguments(d, "class")
		}
		if f.Type.Elem != nil {
			args.Set("uselist", "True")
		}
		s.Relationships = append(s.Relationships, &Relationship{Name: f.Name, Class: class, Args: args})
		return nil
	}
	d := f.Directives.ForName("column")
	typ, err := columnType(f, d)
	if err != nil {
		return err
	}
	var args Args
	if d != nil {
		args = directiveArguments(d, "type")
	}
	if !args.PrimaryKey() {
		nullability(&args, f.Type)
	}
	s.Columns = append(s.Columns, &Column{Name: f.Name, Type: typ, Args: args})
	return nil
}

// columnType prefers an explicit type argument over the GraphQL scalar.
func columnType(f *ast.FieldDefinition, d *ast.Directive) (string, error) {
	if d != nil {
		if t := argument(d, "type"); t != "" {
			return t, nil
		}
	}
	if f.Type.Elem != nil {
		return "", fmt.Errorf("list field requires an explicit column type")
	}
	if t, ok := scalarTypes[f.Type.Name()]; ok {
		return t, nil
	}
	return "", fmt.Errorf("no column type for GraphQL type %s", f.Type.Name())
}

func nullability(args *Args, t *ast.Type) {
	if _, ok := args.Get("nullable"); !ok && t.NonNull {
		args.Set("nullable", "False")
	}
}

func argument(d *ast.Directive, name string) string {
	if a := d.Arguments.ForName(name); a != nil && a.Value != nil {
		return a.Value.Raw
	}
	return ""
}

// directiveArguments converts directive arguments into keyword arguments,
// skipping the ones consumed elsewhere.
func directiveArguments(d *ast.Directive, skip ...string) Args {
	var args Args
	for _, a := range d.Arguments {
		if slices.Contains(skip, a.Name) || a.Value == nil {
			continue
		}
		name, ok := directiveArgs[a.Name]
		if !ok {
			name = a.Name
		}
		args = append(args, Arg{Name: name, Value: graphqlLiteral(a.Value)})
	}
	return args
}

func graphqlLiteral(v *ast.Value) string {
	switch v.Kind {
	case ast.BooleanValue:
		if v.Raw == "true" {
			return "True"
		}
		return "False"
	case ast.NullValue:
		return "None"
	case ast.StringValue, ast.BlockValue:
		return Quote(v.Raw)
	default:
		return strings.TrimSpace(v.Raw)
	}
}
