package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dsemenov-dev/dutymeter/internal/config"
	"github.com/dsemenov-dev/dutymeter/internal/database"
	"github.com/dsemenov-dev/dutymeter/pkg/log"
)

func migrateCmd() *cobra.Command {
	var downAll bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, errConfig := config.ReadStaticConfig(cfgFile)
			if errConfig != nil {
				return errConfig
			}

			logCloser := log.MustCreateLogger(cmd.Context(), conf.Log.File, conf.Log.Level, false, BuildVersion)
			defer logCloser()

			action := database.MigrateUp
			if downAll {
				action = database.MigrateDn
			}

			dbConn := database.New(conf.DB.DSN, false, conf.DB.LogQueries)
			if errMigrate := dbConn.Migrate(action); errMigrate != nil {
				slog.Error("Could not migrate schema", log.ErrAttr(errMigrate))
				os.Exit(1)
			}

			slog.Info("Schema migration complete")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&downAll, "down", "d", false, "Fully reverts all migrations")

	return cmd
}
