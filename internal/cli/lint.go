package cli

import (
	"fmt"

	"github.com/rehierl/html-outliner/internal/lint"
	"github.com/spf13/cobra"
)

func newLintCmd() *cobra.Command {
	var (
		flags    docFlags
		disabled []string
	)
	cmd := &cobra.Command{
		Use:   "lint FILE...",
		Short: "Check the heading structure of one or more documents",
		Long: `Check each FILE and print one line per finding. The command exits with
status 1 when anything was reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			skip := make(map[string]bool, len(disabled))
			for _, rule := range disabled {
				if !lint.IsRule(rule) {
					return fmt.Errorf("unknown rule %q (known: %v)", rule, lint.Rules())
				}
				skip[rule] = true
			}

			total := 0
			for _, path := range args {
				res, err := outlineFile(cmd.Context(), cmd, path, &flags)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				var kept []lint.Finding
				for _, f := range res.Findings {
					if !skip[f.Rule] {
						kept = append(kept, f)
					}
				}
				printFindings(cmd.OutOrStdout(), path, kept)
				total += len(kept)
			}
			if total > 0 {
				return ErrFindings
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringSliceVar(&disabled, "disable", nil, "Rules to skip (comma separated)")
	return cmd
}
