package cmd

import (
	"context"

	"songvault/internal/repositories"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		stores, err := repositories.Open(cmd.Context(), cfg.DatabaseURI, log)
		if err != nil {
			return err
		}
		defer stores.Close(context.Background())

		if err := stores.Migrate(cmd.Context()); err != nil {
			return err
		}
		log.Info("Database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
