package gen

import (
	"strings"

	"github.com/syssam/modelgen/compiler/gen/template"
	"github.com/syssam/modelgen/compiler/load"
)

// Compile renders the model module for the given description.
// It fails only when the model name is empty.
func Compile(c *Config, s *load.Schema) (string, error) {
	t, err := NewType(c, s)
	if err != nil {
		return "", err
	}
	return t.Compile()
}

// Compile renders the model module.
func (t *Type) Compile() (string, error) {
	src, err := template.Execute(template.Class, map[string]string{
		"header":        t.header(),
		"types":         t.ImportTypes(),
		"named_imports": t.NamedImports(),
		"author":        pyEscape(t.Author),
		"class_name":    t.Name,
		"table_name":    pyEscape(t.Table),
		"columns":       t.ColumnBlock(),
		"init":          t.InitFunc(),
		"add":           template.MustExecute(template.Add, nil),
		"update":        t.UpdateFunc(),
		"delete":        template.MustExecute(template.Delete, nil),
		"to_dict":       template.MustExecute(template.ToDict, nil),
		"get_proxy_cls": template.MustExecute(template.GetProxyCls, map[string]string{"class_name": t.Name}),
		"to_proxy":      template.MustExecute(template.ToProxy, nil),
		"from_proxy":    template.MustExecute(template.FromProxy, nil),
		"hash":          t.HashFunc(),
		"eq":            t.ComparatorFunc("__eq__", false),
		"ne":            t.ComparatorFunc("__ne__", true),
		"str":           t.RepresentorFunc("str"),
		"unicode":       t.RepresentorFunc("unicode"),
		"repr":          t.RepresentorFunc("repr"),
	})
	if err != nil {
		return "", NewGenerationError("compile", t.Name, "", "execute class template", err)
	}
	return src, nil
}

// ImportTypes returns the names imported from the sqlalchemy package.
func (t *Type) ImportTypes() string {
	names := []string{"Column"}
	if t.HasKind(KindForeignKey) {
		names = append(names, "ForeignKey")
	}
	names = append(names, t.StandardTypes()...)
	return strings.Join(names, ", ")
}

// NamedImports returns the import lines for relationships, dialect types
// and the mutable adapter. Each line starts with a newline.
func (t *Type) NamedImports() string {
	s := t.storage()
	var b strings.Builder
	imp := func(module, labels string) {
		b.WriteByte('\n')
		b.WriteString(template.MustExecute(template.NamedImport, map[string]string{"module": module, "labels": labels}))
	}
	if t.HasKind(KindRelationship) {
		imp("sqlalchemy.orm", "relationship")
	}
	if types := t.BackendTypes(); len(types) > 0 {
		imp(s.Dialect, strings.Join(types, ", "))
	}
	if t.HasMutable() {
		imp(s.MutableModule, s.MutableAdapter)
	}
	return b.String()
}

// ColumnBlock returns one indented statement per attribute.
func (t *Type) ColumnBlock() string {
	lines := make([]string, len(t.Attributes))
	for i, a := range t.Attributes {
		lines[i] = indent + t.statement(a)
	}
	return strings.Join(lines, "\n")
}

const indent = "    "

func (t *Type) statement(a *Attribute) string {
	args := ""
	if len(a.Args) > 0 {
		parts := make([]string, len(a.Args))
		for i, arg := range a.Args {
			parts[i] = template.MustExecute(template.Arg, map[string]string{"name": arg.Name, "value": arg.Value})
		}
		args = ", " + strings.Join(parts, ", ")
	}
	switch a.Kind {
	case KindRelationship:
		return template.MustExecute(template.Relationship, map[string]string{"name": a.Name, "class": a.Class, "args": args})
	case KindForeignKey:
		return template.MustExecute(template.ForeignKey, map[string]string{
			"name":      a.Name,
			"type":      t.columnType(a),
			"reference": a.Reference.String(),
			"args":      args,
		})
	default:
		return template.MustExecute(template.Column, map[string]string{"name": a.Name, "type": t.columnType(a), "args": args})
	}
}

// columnType renders the type expression, wrapping mutable containers.
func (t *Type) columnType(a *Attribute) string {
	s := t.storage()
	typ := a.Type.String()
	if s.IsMutable(a.Type.Name) {
		return template.MustExecute(template.MutableType, map[string]string{"adapter": s.MutableAdapter, "type": typ})
	}
	return typ
}

// InitFunc renders the constructor. Every attribute is an optional
// parameter defaulting to UNSET.
func (t *Type) InitFunc() string {
	assignments := make([]string, len(t.Attributes))
	for i, a := range t.Attributes {
		assignments[i] = template.MustExecute(template.Assignment, map[string]string{"name": a.Name})
	}
	body := "pass"
	if len(assignments) > 0 {
		body = strings.Join(assignments, "\n"+indent+indent)
	}
	return template.MustExecute(template.Init, map[string]string{
		"args":        funcArgs(t.Attributes),
		"assignments": body,
	})
}

// UpdateFunc renders the update method over the non-primary-key attributes.
func (t *Type) UpdateFunc() string {
	attrs := t.Updatable()
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(template.MustExecute(template.GuardedAssignment, map[string]string{"name": a.Name}))
	}
	if len(attrs) == 0 {
		b.WriteString("\n" + indent + indent + "pass")
	}
	return template.MustExecute(template.Update, map[string]string{
		"args":        funcArgs(attrs),
		"assignments": b.String(),
	})
}

func funcArgs(attrs []*Attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(", ")
		b.WriteString(template.MustExecute(template.FuncArg, map[string]string{"name": a.Name}))
	}
	return b.String()
}

// HashFunc renders __hash__ over the concatenated primary-key strings.
// Without primary keys every instance hashes alike.
func (t *Type) HashFunc() string {
	keys := `""`
	if len(t.PrimaryKeys) > 0 {
		parts := make([]string, len(t.PrimaryKeys))
		for i, pk := range t.PrimaryKeys {
			parts[i] = template.MustExecute(template.KeyString, map[string]string{"name": pk})
		}
		keys = strings.Join(parts, " + ")
	}
	return template.MustExecute(template.Hash, map[string]string{"keys": keys})
}

// ComparatorFunc renders an equality member comparing primary keys. Without
// primary keys all instances compare equal.
func (t *Type) ComparatorFunc(name string, negate bool) string {
	comparisons := "True"
	if len(t.PrimaryKeys) > 0 {
		parts := make([]string, len(t.PrimaryKeys))
		for i, pk := range t.PrimaryKeys {
			parts[i] = template.MustExecute(template.Comparison, map[string]string{"name": pk})
		}
		comparisons = strings.Join(parts, " and ")
	}
	negation := ""
	if negate {
		negation = "not "
	}
	return template.MustExecute(template.Comparator, map[string]string{
		"func_name":   name,
		"negation":    negation,
		"comparisons": comparisons,
	})
}

// RepresentorFunc renders __str__, __unicode__ or __repr__.
func (t *Type) RepresentorFunc(name string) string {
	evaluators := make([]string, len(t.PrimaryKeys))
	accessors := make([]string, len(t.PrimaryKeys))
	for i, pk := range t.PrimaryKeys {
		evaluators[i] = template.MustExecute(template.Evaluator, map[string]string{"name": pk})
		accessors[i] = template.MustExecute(template.Accessor, map[string]string{"name": pk})
	}
	return template.MustExecute(template.Representor, map[string]string{
		"func_name":  name,
		"class_name": t.Name,
		"evaluators": strings.Join(evaluators, ", "),
		"accessors":  strings.Join(accessors, ", "),
	})
}

// pyEscape escapes s for a single-quoted Python string.
func pyEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}
