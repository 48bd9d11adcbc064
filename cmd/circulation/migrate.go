package main

import (
	"github.com/spf13/cobra"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

func newMigrateCommand(loadConfig func() (config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			db, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.close()

			store, err := newStore(db, cfg, observability{contextualLogger: logger})
			if err != nil {
				return err
			}

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			logger.InfoContext(ctx, "schema is up to date", "adapter", cfg.AdapterType)

			return nil
		},
	}
}
