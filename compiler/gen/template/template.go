// Package template holds the fixed text templates used to assemble model
// classes. Templates only substitute named slots; every decision about
// what goes into a slot is made by the caller.
//
// Slots are written as ${.name} and filled from a map[string]string. A slot
// missing from the data map is an execution error.
package template

import (
	"strings"
	"text/template"
)

func parse(name, text string) *template.Template {
	return template.Must(template.New(name).Delims("${", "}").Option("missingkey=error").Parse(text))
}

// Execute fills t with data.
func Execute(t *template.Template, data map[string]string) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// MustExecute is like Execute but panics on error. It is meant for
// templates whose slots are all known to be filled.
func MustExecute(t *template.Template, data map[string]string) string {
	s, err := Execute(t, data)
	if err != nil {
		panic(err)
	}
	return s
}
