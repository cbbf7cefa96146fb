// Package lint reports questionable model descriptions before they are
// compiled. None of its findings stop compilation.
package lint

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/load"
	"github.com/syssam/modelgen/schema/field"
)

// Severity ranks an Issue.
type Severity int

// Issue severities.
const (
	Info Severity = iota
	Warning
	Error
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Issue is a single finding on a model.
type Issue struct {
	Severity  Severity
	Entity    string
	Attribute string
	Pos       string
	Message   string
}

func (e *Issue) Error() string {
	var b strings.Builder
	if e.Pos != "" {
		b.WriteString(e.Pos)
		b.WriteString(": ")
	}
	b.WriteString(e.Entity)
	if e.Attribute != "" {
		b.WriteString(".")
		b.WriteString(e.Attribute)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// Result holds the findings of a lint run in the order they were found.
type Result struct {
	Issues []*Issue
}

// HasErrors returns true if there are any error findings.
func (r *Result) HasErrors() bool {
	return r.count(Error) > 0
}

// HasWarnings returns true if there are any warnings.
func (r *Result) HasWarnings() bool {
	return r.count(Warning) > 0
}

// Filter returns the issues at or above the given severity.
func (r *Result) Filter(min Severity) []*Issue {
	var issues []*Issue
	for _, i := range r.Issues {
		if i.Severity >= min {
			issues = append(issues, i)
		}
	}
	return issues
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// String returns a human-readable summary of the result.
func (r *Result) String() string {
	if len(r.Issues) == 0 {
		return "No issues found"
	}
	var sb strings.Builder
	for _, i := range r.Issues {
		sb.WriteString(i.Severity.String())
		sb.WriteString(": ")
		sb.WriteString(i.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Result) add(s *load.Schema, sev Severity, attr, format string, args ...any) {
	r.Issues = append(r.Issues, &Issue{
		Severity:  sev,
		Entity:    s.Name,
		Attribute: attr,
		Pos:       s.Pos,
		Message:   fmt.Sprintf(format, args...),
	})
}

// Option configures a lint run.
type Option func(*config)

type config struct {
	skipPlural bool
}

// SkipPlural disables the check comparing table names with the English
// plural of the model name.
func SkipPlural() Option {
	return func(c *config) {
		c.skipPlural = true
	}
}

// Schema lints a single model.
func Schema(s *load.Schema, opts ...Option) *Result {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	r := &Result{}
	lintSchema(r, cfg, s)
	return r
}

// Schemas lints all models and the references between them.
func Schemas(schemas []*load.Schema, opts ...Option) *Result {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	r := &Result{}
	classes := make(map[string]bool, len(schemas))
	tables := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		if classes[s.Name] {
			r.add(s, Error, "", "duplicate model name")
		}
		classes[s.Name] = true
		if table, err := gen.TableName(s.Name); err == nil {
			tables[table] = true
		}
		lintSchema(r, cfg, s)
	}
	for _, s := range schemas {
		for _, rel := range s.Relationships {
			if !classes[rel.Class] {
				r.add(s, Warning, rel.Name, "relationship references unknown model %q", rel.Class)
			}
		}
		for _, fk := range s.ForeignKeys {
			if !tables[fk.Reference.Table] {
				r.add(s, Warning, fk.Name, "foreign key references table %q that no model declares", fk.Reference.Table)
			}
		}
	}
	return r
}

func lintSchema(r *Result, cfg *config, s *load.Schema) {
	table, err := gen.TableName(s.Name)
	if err != nil {
		r.add(s, Error, "", "%v", err)
		return
	}
	pks := 0
	seen := make(map[string]bool)
	for _, name := range s.AttributeNames() {
		if seen[name] {
			r.add(s, Error, name, "duplicate attribute name")
		}
		seen[name] = true
	}
	check := func(name, expr string, args load.Args) {
		if args.PrimaryKey() {
			pks++
		}
		t := field.ParseType(expr)
		switch {
		case !t.Valid():
			r.add(s, Error, name, "type %q has no name", expr)
		case t.HasParams() && field.TakesNoParams(t.Name):
			r.add(s, Info, name, "type %s takes no parameters, %s is ignored", t.Name, t.Params)
		}
	}
	for _, c := range s.Columns {
		check(c.Name, c.Type, c.Args)
	}
	for _, fk := range s.ForeignKeys {
		check(fk.Name, fk.Type, fk.Args)
	}
	for _, rel := range s.Relationships {
		if rel.Args.PrimaryKey() {
			pks++
		}
	}
	if pks == 0 {
		r.add(s, Warning, "", "model has no primary key, all instances hash and compare alike")
	}
	if !cfg.skipPlural {
		if plural := inflect.Pluralize(strings.ToLower(s.Name)); plural != table {
			r.add(s, Info, "", "table name %q differs from the English plural %q", table, plural)
		}
	}
}
