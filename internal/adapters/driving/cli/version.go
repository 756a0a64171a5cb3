package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tributary version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("tributary " + Version)
		},
	}
}
