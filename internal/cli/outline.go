package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rehierl/html-outliner/internal/toc"
	"github.com/spf13/cobra"
)

func newOutlineCmd() *cobra.Command {
	var (
		flags   docFlags
		asJSON  bool
		showTOC bool
		tocCfg  = toc.DefaultConfig()
	)
	cmd := &cobra.Command{
		Use:   "outline FILE...",
		Short: "Print the outline of one or more documents",
		Long: `Print the outline of each FILE. Use "-" to read a single document from stdin
together with --format.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, path := range args {
				res, err := outlineFile(cmd.Context(), cmd, path, &flags)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				switch {
				case asJSON:
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					if err := enc.Encode(res); err != nil {
						return err
					}
				case showTOC:
					fmt.Fprint(out, toc.Render(toc.Flatten(res.Tree, tocCfg)))
				default:
					if i > 0 {
						fmt.Fprintln(out)
					}
					printTree(out, res.Tree)
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outline, table of contents and findings as JSON")
	cmd.Flags().BoolVar(&showTOC, "toc", false, "Print a numbered table of contents")
	cmd.Flags().IntVar(&tocCfg.MaxDepth, "max-depth", 0, "Deepest table of contents level (0 = unlimited)")
	cmd.Flags().BoolVar(&tocCfg.SkipImplied, "skip-implied", false, "Leave untitled sections out of the table of contents")
	cmd.MarkFlagsMutuallyExclusive("json", "toc")
	return cmd
}
