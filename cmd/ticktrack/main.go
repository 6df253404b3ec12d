package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/cli/migrate"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/cli/server"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/cli/worker"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "ticktrack",
		Short:   "TickTrack Pro - service ticket workflow and billing",
		Long:    `TickTrack Pro runs the multi-tenant ticket workflow API, its background jobs, and the database migration tools.`,
		Version: version.Current(),
	}
	if version.Commit != "" {
		rootCmd.SetVersionTemplate(fmt.Sprintf("ticktrack %s (%s)\n", version.Current(), version.Commit))
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
