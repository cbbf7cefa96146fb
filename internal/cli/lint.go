package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/modelgen/compiler/lint"
	"github.com/syssam/modelgen/compiler/load"
)

// LintCmd returns the lint command.
func LintCmd(e *env) *cobra.Command {
	var (
		skipPlural bool
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "lint <file>...",
		Short: "Report questionable model descriptions",
		Long: `Check model documents for descriptions that compile but are likely
mistakes: models without a primary key, duplicate attribute names,
parameters on parameterless types, relationships to unknown models and
table names that differ from the English plural.

All documents are checked together, so relationships may cross files.
The command fails when an error is found, or a warning with --strict.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var schemas []*load.Schema
			for _, path := range args {
				s, err := load.LoadFile(path)
				if err != nil {
					return err
				}
				schemas = append(schemas, s...)
			}
			var opts []lint.Option
			if skipPlural {
				opts = append(opts, lint.SkipPlural())
			}
			res := lint.Schemas(schemas, opts...)

			out := cmd.OutOrStdout()
			if len(res.Issues) == 0 {
				fmt.Fprintln(out, res.String())
				return nil
			}
			for _, i := range res.Issues {
				fmt.Fprintf(out, "%s: %s\n", severityColor(i.Severity), i.Error())
			}
			switch {
			case res.HasErrors():
				return errors.New("lint found errors")
			case strict && res.HasWarnings():
				return errors.New("lint found warnings")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipPlural, "skip-plural", false, "Do not compare table names with the English plural")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings")
	return cmd
}
