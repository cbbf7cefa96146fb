package load

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/syssam/modelgen"
)

// Decoders produce an order-preserving tree made of object, []any and
// scalar values (nil, bool, string, int64, uint64, float64, []byte).
type (
	member struct {
		key   string
		value any
	}
	object []member
)

// positioned carries the source line of a decoded value.
type positioned struct {
	value any
	line  int
}

func (o object) get(key string) (any, bool) {
	for _, m := range o {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// Literal renders a decoded value as Python source. Strings are emitted
// verbatim so documents can carry expressions such as func.now().
func Literal(v any) string {
	switch v := v.(type) {
	case positioned:
		return Literal(v.value)
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		switch {
		case math.IsNaN(v):
			return "float('nan')"
		case math.IsInf(v, 1):
			return "float('inf')"
		case math.IsInf(v, -1):
			return "float('-inf')"
		}
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case []byte:
		return "b" + strconv.Quote(string(v))
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = Literal(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case object:
		items := make([]string, len(v))
		for i, m := range v {
			items[i] = fmt.Sprintf("'%s': %s", m.key, Literal(m.value))
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}

// Quote returns s as a single-quoted Python string literal.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

// build converts a decoded document into schemas. The root maps entity
// names to bodies holding "columns", "foreign_keys" and "relationships".
func build(doc any, source string) ([]*Schema, error) {
	line := 0
	if p, ok := doc.(positioned); ok {
		doc, line = p.value, p.line
	}
	root, ok := doc.(object)
	if !ok {
		if doc == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%s:%d: document root must be a mapping of model names", source, line)
	}
	schemas := make([]*Schema, 0, len(root))
	for _, m := range root {
		s, err := buildSchema(m, source)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, nil
}

func buildSchema(m member, source string) (*Schema, error) {
	s := &Schema{Name: m.key, Pos: source}
	body := m.value
	if p, ok := body.(positioned); ok {
		body = p.value
		s.Pos = fmt.Sprintf("%s:%d", source, p.line)
	}
	if body == nil {
		return s, nil
	}
	fields, ok := body.(object)
	if !ok {
		return nil, fmt.Errorf("%s: model %s must be a mapping", s.Pos, s.Name)
	}
	for _, f := range fields {
		entries, err := list(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: model %s: %q: %w", s.Pos, s.Name, f.key, err)
		}
		switch f.key {
		case "columns":
			for i, e := range entries {
				c, err := buildColumn(s.Name, i, e)
				if err != nil {
					return nil, err
				}
				s.Columns = append(s.Columns, c)
			}
		case "foreign_keys":
			for i, e := range entries {
				fk, err := buildForeignKey(s.Name, i, e)
				if err != nil {
					return nil, err
				}
				s.ForeignKeys = append(s.ForeignKeys, fk)
			}
		case "relationships":
			for i, e := range entries {
				r, err := buildRelationship(s.Name, i, e)
				if err != nil {
					return nil, err
				}
				s.Relationships = append(s.Relationships, r)
			}
		default:
			return nil, fmt.Errorf("%s: model %s: unknown key %q", s.Pos, s.Name, f.key)
		}
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.Pos, err)
	}
	return s, nil
}

func list(v any) ([]any, error) {
	if p, ok := v.(positioned); ok {
		v = p.value
	}
	switch v := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}

// entry splits a list entry into its required keys and the remaining args.
func entry(entity, kind string, i int, v any, required ...string) (map[string]any, Args, error) {
	if p, ok := v.(positioned); ok {
		v = p.value
	}
	obj, ok := v.(object)
	if !ok {
		return nil, nil, modelgen.NewMissingFieldError(entity, kind, i, required[0])
	}
	known := make(map[string]any, len(required))
	var args Args
	for _, m := range obj {
		if slices.Contains(required, m.key) {
			known[m.key] = m.value
			continue
		}
		args = append(args, Arg{Name: m.key, Value: Literal(m.value)})
	}
	return known, args, nil
}

func str(known map[string]any, key string) string {
	v, ok := known[key]
	if !ok || v == nil {
		return ""
	}
	return Literal(v)
}

func buildColumn(entity string, i int, v any) (*Column, error) {
	known, args, err := entry(entity, "column", i, v, "name", "type")
	if err != nil {
		return nil, err
	}
	return &Column{Name: str(known, "name"), Type: str(known, "type"), Args: args}, nil
}

func buildForeignKey(entity string, i int, v any) (*ForeignKey, error) {
	known, args, err := entry(entity, "foreign key", i, v, "name", "type", "reference")
	if err != nil {
		return nil, err
	}
	fk := &ForeignKey{Name: str(known, "name"), Type: str(known, "type"), Args: args}
	ref := known["reference"]
	if p, ok := ref.(positioned); ok {
		ref = p.value
	}
	switch ref := ref.(type) {
	case object:
		t, _ := ref.get("table")
		c, _ := ref.get("column")
		if t != nil {
			fk.Reference.Table = Literal(t)
		}
		if c != nil {
			fk.Reference.Column = Literal(c)
		}
	case string:
		fk.Reference.Table, fk.Reference.Column, _ = strings.Cut(ref, ".")
	}
	return fk, nil
}

func buildRelationship(entity string, i int, v any) (*Relationship, error) {
	known, args, err := entry(entity, "relationship", i, v, "name", "class")
	if err != nil {
		return nil, err
	}
	return &Relationship{Name: str(known, "name"), Class: str(known, "class"), Args: args}, nil
}
