package main

import (
	"github.com/spf13/cobra"

	"github.com/MarkAhronTaglucop/IT108-LIBRARYMANAGEMENT-SYSTEM/library/shared/shell/config"
)

func newRootCommand() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "circulation",
		Short:         "Library borrowing lifecycle and inventory service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")

	loadConfig := func() (config.Config, error) {
		return config.Load(envFiles...)
	}

	root.AddCommand(newMigrateCommand(loadConfig), newSeedCommand(loadConfig), newServeCommand(loadConfig))

	return root
}
