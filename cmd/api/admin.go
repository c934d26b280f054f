package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/auth"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/domain"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/persistence"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/repository"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/service"
)

func newCreateAdminCommand() *cobra.Command {
	var (
		name     string
		email    string
		password string
		role     string
	)
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff account for the admin board",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
				return errors.New("POSTGRES_DSN is required to create staff accounts")
			}
			if cfg.Postgres.RunMigrations {
				if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger); err != nil {
					return err
				}
			}

			tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
			authService := service.NewAuthService(*cfg, repository.NewStaffRepository(pg.PoolHandle()), tokens, logger)
			staff, err := authService.CreateStaff(cmd.Context(), service.StaffInput{
				Name:     name,
				Email:    email,
				Password: password,
				Role:     domain.StaffRole(role),
			})
			if err != nil {
				return err
			}
			logger.Info("staff account created", zap.String("id", staff.ID), zap.String("email", staff.Email))
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", staff.Email, staff.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrador", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (min 8 characters)")
	cmd.Flags().StringVar(&role, "role", string(domain.StaffRoleAdmin), "Role: admin or staff")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
