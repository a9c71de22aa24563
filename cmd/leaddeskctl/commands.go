package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Harshitk-cp/leaddesk/internal/auth"
	"github.com/Harshitk-cp/leaddesk/internal/buildconfig"
	"github.com/Harshitk-cp/leaddesk/internal/config"
	"github.com/Harshitk-cp/leaddesk/internal/logging"
	"github.com/Harshitk-cp/leaddesk/internal/service"
	"github.com/Harshitk-cp/leaddesk/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "leaddeskctl",
		Short:         "Operator tooling for the leaddesk lead tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := os.Setenv("LEADDESK_ENV", envFile); err != nil {
					return err
				}
			}
			config.Load()
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "env file to load (overrides LEADDESK_ENV)")

	root.AddCommand(newMigrateCmd(), newSeedDemoCmd(), newVersionCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the tenants, leads and lead_activities tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := store.Migrate(ctx, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema applied")
			return nil
		},
	}
}

func newSeedDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Create the demo client account with sample leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger, err := logging.New(config.LogLevel())
			if err != nil {
				logger = zap.NewNop()
			}
			defer func() { _ = logger.Sync() }()

			// Seeding never issues tokens, but the service needs a signer.
			secret := config.JWTSecret()
			if secret == "" {
				secret = "seed-demo"
			}
			identity, err := auth.NewIdentity(secret, config.TokenTTL())
			if err != nil {
				return err
			}

			tenants := service.NewTenantService(store.NewTenantStore(pool), identity, nil, logger)
			leads := service.NewLeadService(store.NewLeadStore(pool), store.NewActivityStore(pool), store.NewTransactor(pool), nil, logger)

			res, err := service.SeedDemo(ctx, tenants, leads)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if res.Created {
				fmt.Fprintf(out, "Demo client created (id %d) with %d sample leads.\n", res.Tenant.ID, res.Leads)
			} else {
				fmt.Fprintln(out, "Demo client already exists.")
			}
			fmt.Fprintln(out, "\nLogin credentials:")
			fmt.Fprintln(out, "Email:   ", service.DemoAccount.Email)
			fmt.Fprintln(out, "Password:", service.DemoAccount.Password)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "leaddeskctl", buildconfig.Get().String())
			return nil
		},
	}
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	dbURL := config.DatabaseURL()
	if dbURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
