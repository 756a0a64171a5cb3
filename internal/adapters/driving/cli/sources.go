package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/tributary-data/tributary/internal/adapters/driven/config/file"
)

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := configfile.NewSourceStore(flagConfigDir)
			if err != nil {
				return fmt.Errorf("open config: %w", err)
			}

			sources, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(sources) == 0 {
				cmd.Printf("No sources configured. Add one to %s\n", store.Path())
				return nil
			}

			for _, src := range sources {
				cmd.Printf("%-20s %-8s %s\n", src.ID, src.Type, src.Name)
			}
			return nil
		},
	}
}
