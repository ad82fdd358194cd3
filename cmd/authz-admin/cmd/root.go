// Package cmd implements the authz-admin subcommands.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/openauthz/api/internal/config"
	"github.com/openauthz/api/internal/infra/postgres"
	"github.com/openauthz/api/pkg/logger"
)

var (
	version string

	// Global flags
	flagOutput  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "authz-admin",
	Short: "OpenAuthz administration CLI",
	Long: `authz-admin manages the OpenAuthz deployment: it applies database
migrations and seeds the baseline roles.

Configuration comes from the same environment variables as the server.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the CLI version from build flags.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// connect loads the configuration and opens the database.
func connect() (*config.Config, *postgres.DB, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	level := "warn"
	if flagVerbose {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "text"})

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	return cfg, db, log, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("authz-admin version %s\n", version)
		fmt.Printf("  Go:       %s\n", runtime.Version())
		fmt.Printf("  OS/Arch:  %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}
