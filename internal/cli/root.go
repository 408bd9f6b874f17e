package cli

import (
	"running-events-backend/config"

	"github.com/spf13/cobra"
)

func NewRootCommand(factory ServiceFactory, cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "eventsctl",
		Short:        "Maintenance commands for the running events backend",
		SilenceUsage: true,
	}

	root.AddCommand(NewCleanDuplicatesCommand(factory, cfg.Cleanup))
	return root
}
