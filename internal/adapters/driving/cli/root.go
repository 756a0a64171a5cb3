// Package cli wires the cobra command tree that drives sync runs from
// the terminal.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tributary-data/tributary/internal/logger"
)

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

// NewRootCmd builds the tributary command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tributary",
		Short: "Incremental extraction from paginated REST APIs",
		Long: `Tributary extracts time-ordered records (commits, workflow runs,
issues) from configured sources, resuming from per-parent checkpoints
so each run only fetches what changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(flagVerbose)
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.tributary)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.tributary/data)")

	root.AddCommand(newSyncCmd())
	root.AddCommand(newSourcesCmd())
	root.AddCommand(newVersionCmd())
	return root
}
