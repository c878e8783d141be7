package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	userpostgres "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/persistence/postgres"
	"github.com/Apurer/flower-shop-api/internal/domains/users/domain"
	userports "github.com/Apurer/flower-shop-api/internal/domains/users/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
	"github.com/Apurer/flower-shop-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/flower-shop-api/internal/platform/postgres"
)

const commandTimeout = 30 * time.Second

func openDB(cmd *cobra.Command) (*gorm.DB, func(), error) {
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		return nil, nil, errors.New("POSTGRES_DSN or --dsn is required")
	}
	db, err := platformpostgres.Connect(cmd.Context(), dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = sqlDB.Close() }, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), commandTimeout)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and seed the default route policies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			cmd.SetContext(ctx)
			db, closeDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer closeDB()
			if err := migrations.Run(db); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}
			if _, err := auth.NewGormAuthorizer(db); err != nil {
				return fmt.Errorf("seed route policies: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func purgeResetTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-reset-tokens",
		Short: "Delete expired password reset tokens",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			cmd.SetContext(ctx)
			db, closeDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer closeDB()
			removed, err := userpostgres.NewResetTokenStore(db).PurgeExpired(ctx, time.Now())
			if err != nil {
				return fmt.Errorf("purge reset tokens: %w", err)
			}
			slog.New(slog.NewTextHandler(os.Stderr, nil)).Info("reset token purge completed", slog.Int64("removed", removed))
			return nil
		},
	}
}

func seedAdminCmd() *cobra.Command {
	var email, password, fullName string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account or promote an existing one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := withTimeout(cmd)
			defer cancel()
			cmd.SetContext(ctx)
			db, closeDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer closeDB()
			user, created, err := seedAdmin(ctx, userpostgres.NewRepository(db), email, password, fullName, time.Now())
			if err != nil {
				return err
			}
			verb := "promoted"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (%s)\n", verb, user.Email, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin e-mail")
	cmd.Flags().StringVar(&password, "password", "", "password for a new account")
	cmd.Flags().StringVar(&fullName, "name", "Administrator", "display name for a new account")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// seedAdmin promotes the account registered under email, creating it when absent.
func seedAdmin(ctx context.Context, repo userports.Repository, email, password, fullName string, now time.Time) (*domain.User, bool, error) {
	user, err := repo.GetByEmail(ctx, domain.NormalizeEmail(email))
	created := false
	switch {
	case errors.Is(err, userports.ErrNotFound):
		if password == "" {
			return nil, false, errors.New("--password is required to create a new admin")
		}
		user, err = domain.NewUser(uuid.NewString(), email, password, fullName, now)
		if err != nil {
			return nil, false, err
		}
		created = true
	case err != nil:
		return nil, false, err
	}
	user.Role = domain.RoleAdmin
	user.Status = domain.StatusActive
	user.UpdatedAt = now
	saved, err := repo.Save(ctx, user)
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}
