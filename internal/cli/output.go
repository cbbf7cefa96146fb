package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/syssam/modelgen"
	"github.com/syssam/modelgen/compiler/gen"
	"github.com/syssam/modelgen/compiler/lint"
)

// report prints one line per written model. Failed models are printed with
// their source when it was compiled, so the output is not lost. The returned
// error aggregates the failures.
func report(w io.Writer, results []gen.Result, dryRun bool) error {
	var errs []error
	for _, r := range results {
		switch {
		case r.Err != nil:
			errs = append(errs, r.Err)
			fmt.Fprintf(w, "%s %s: %v\n", color.New(color.FgRed).Sprint("failed"), r.Entity, r.Err)
			if r.Source != "" {
				fmt.Fprintln(w, r.Source)
			}
		case dryRun:
			fmt.Fprintf(w, "%s\n%s\n", color.New(color.FgCyan).Sprintf("==> %s <==", r.Path), r.Source)
		default:
			fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen).Sprint("created"), r.Path)
		}
	}
	return modelgen.NewAggregateError(errs...)
}

func notice(w io.Writer, msg string) {
	fmt.Fprintln(w, color.New(color.FgYellow).Sprint(msg))
}

func severityColor(s lint.Severity) string {
	switch s {
	case lint.Error:
		return color.New(color.FgRed).Sprint(s.String())
	case lint.Warning:
		return color.New(color.FgYellow).Sprint(s.String())
	default:
		return color.New(color.FgCyan).Sprint(s.String())
	}
}
