package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openauthz/api/pkg/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, _, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		runner := migrations.NewRunner(db.DB, cfg.Authz.MigrationsDir)
		return runner.Up(context.Background())
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the last applied migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, _, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		runner := migrations.NewRunner(db.DB, cfg.Authz.MigrationsDir)
		return runner.Down(context.Background())
	},
}

// migrationStatus is the serializable status report.
type migrationStatus struct {
	Applied []appliedMigration `json:"applied" yaml:"applied"`
	Pending []string           `json:"pending" yaml:"pending"`
}

type appliedMigration struct {
	Version   string    `json:"version" yaml:"version"`
	AppliedAt time.Time `json:"applied_at" yaml:"applied_at"`
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, _, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		runner := migrations.NewRunner(db.DB, cfg.Authz.MigrationsDir)

		if err := runner.EnsureMigrationTable(ctx); err != nil {
			return fmt.Errorf("ensure migration table: %w", err)
		}

		applied, err := runner.Applied(ctx)
		if err != nil {
			return fmt.Errorf("read applied migrations: %w", err)
		}

		pending, err := runner.Pending(ctx)
		if err != nil {
			return err
		}

		status := migrationStatus{Pending: pending}
		for _, rec := range applied {
			status.Applied = append(status.Applied, appliedMigration{
				Version:   rec.Version,
				AppliedAt: rec.AppliedAt,
			})
		}

		switch flagOutput {
		case outputJSON:
			printJSON(status)
		case outputYAML:
			printYAML(status)
		default:
			table := newTable("VERSION", "STATE", "APPLIED AT")
			for _, m := range status.Applied {
				table.AddRow(m.Version, "applied", m.AppliedAt.UTC().Format(time.RFC3339))
			}
			for _, v := range status.Pending {
				table.AddRow(v, "pending", "-")
			}
			table.Flush()
		}

		return nil
	},
}
