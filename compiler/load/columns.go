package load

import (
	"fmt"
	"strings"
)

// ParseColumns builds an entity description from command-line column specs
// of the form "name:Type" or "name:Type:arg=value,arg=value".
func ParseColumns(name string, specs []string) (*Schema, error) {
	s := &Schema{Name: name, Pos: "command line"}
	for i, spec := range specs {
		c, err := ParseColumn(spec)
		if err != nil {
			return nil, fmt.Errorf("modelgen: column #%d: %w", i+1, err)
		}
		s.Columns = append(s.Columns, c)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseColumn parses a single column spec. A spec without a colon yields a
// column with an empty type, which Validate rejects.
func ParseColumn(spec string) (*Column, error) {
	name, rest, _ := strings.Cut(spec, ":")
	typ, extra := splitType(rest)
	c := &Column{Name: strings.TrimSpace(name), Type: strings.TrimSpace(typ)}
	for _, kv := range splitTopLevel(extra) {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("column %q: argument %q must be written as name=value", spec, kv)
		}
		c.Args = append(c.Args, Arg{Name: strings.TrimSpace(k), Value: cliLiteral(strings.TrimSpace(v))})
	}
	return c, nil
}

// splitType separates the type expression from the argument list at the
// first colon outside parentheses.
func splitType(s string) (typ, args string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ':':
			if depth == 0 {
				return s[:i], s[i+1:]
			}
		}
	}
	return s, ""
}

// splitTopLevel splits on commas outside parentheses and quotes.
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

func cliLiteral(v string) string {
	switch strings.ToLower(v) {
	case "true":
		return "True"
	case "false":
		return "False"
	case "null", "none":
		return "None"
	}
	return v
}
