package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/persistence"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE:  runMigrateUp,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE:  runMigrateStatus,
		},
	)
	return cmd
}

func runMigrateUp(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	if !pg.Enabled() {
		return errors.New("POSTGRES_DSN is required to run migrations")
	}
	return persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger)
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()
	return persistence.MigrationStatus(cmd.Context(), pg.PoolHandle())
}
