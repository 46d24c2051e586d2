package cli

import (
	"fmt"

	"github.com/rehierl/html-outliner/internal/config"
	"github.com/rehierl/html-outliner/internal/outline"
	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List outline option keys and their environment variables",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, key := range outline.Keys() {
				fmt.Fprintf(out, "%-20s %s\n", key, dimStyle.Render(config.EnvName(key)))
			}
		},
	}
}
