// Package cmd implements the CLI of the application.
//
// migrate - Initiate a database migration manually
// serve   - The main application service entry point
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	BuildVersion = "master" //nolint:gochecknoglobals
	BuildCommit  = ""       //nolint:gochecknoglobals
	BuildDate    = ""       //nolint:gochecknoglobals
)

var cfgFile string //nolint:gochecknoglobals

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "dutymeter",
		Short:   "Staff activity quota tracker",
		Version: BuildVersion,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dutymeter.yml)")
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())

	return root
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if errExecute := rootCmd().Execute(); errExecute != nil {
		os.Exit(1)
	}
}
