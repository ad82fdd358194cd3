package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openauthz/api/internal/app"
	"github.com/openauthz/api/internal/infra/postgres"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the baseline roles",
	Long: `Seed inserts the three baseline roles: the configured administrator
role (AUTHZ_ADMIN_ROLE_NAME), anonymous, and authenticated.

Roles that already exist are left untouched; running seed repeatedly is
safe.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, log, err := connect()
		if err != nil {
			return err
		}
		defer db.Close()

		roleRepo := postgres.NewRoleRepository(db)
		seeder := app.NewSeedService(roleRepo, cfg.Authz.AdminRoleName, log)

		created, err := seeder.EnsureBaselineRoles(context.Background())
		if err != nil {
			return fmt.Errorf("seed baseline roles: %w", err)
		}

		fmt.Printf("Seed complete: %d role(s) created\n", created)
		return nil
	},
}
