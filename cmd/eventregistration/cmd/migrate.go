package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"eventregistration/config"
	"eventregistration/internal/repository"
	"eventregistration/internal/repository/postgres"
)

type migrateOptions struct {
	databaseURL string
	down        int
}

func newMigrateCommand(global *globalOptions) *cobra.Command {
	opts := &migrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Prepare the store schema",
		Long: `Apply pending Postgres migrations, or create the Mongo indexes.

The in-memory store needs no preparation.

Examples:
  eventregistration migrate --database-url postgres://localhost/events?sslmode=disable

  # Roll back the last Postgres migration
  eventregistration migrate --down 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, global, opts)
		},
	}
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "store URL (default: DATABASE_URL)")
	cmd.Flags().IntVar(&opts.down, "down", 0, "roll back this many Postgres migrations instead of applying")
	return cmd
}

func runMigrate(cmd *cobra.Command, global *globalOptions, opts *migrateOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if opts.databaseURL != "" {
		cfg.DBUrl = opts.databaseURL
	}
	if cfg.DBUrl == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	backend, err := repository.Backend(cfg.DBUrl)
	if err != nil {
		return err
	}

	logger := global.logger()
	ctx, cancel := context.WithTimeout(cmd.Context(), startupTimeout)
	defer cancel()
	out := cmd.OutOrStdout()

	switch backend {
	case repository.BackendPostgres:
		var res postgres.MigrationResult
		if opts.down > 0 {
			res, err = postgres.MigrateDown(cfg.DBUrl, opts.down)
		} else {
			res, err = postgres.MigrateUp(cfg.DBUrl)
		}
		if err != nil {
			return err
		}
		if !res.Changed {
			fmt.Fprintf(out, "No pending migrations (version %d).\n", res.Version)
			return nil
		}
		fmt.Fprintf(out, "Schema at version %d.\n", res.Version)
		logger.Info("migrations applied", "version", res.Version, "dirty", res.Dirty)
	case repository.BackendMongo:
		// Opening the store creates the indexes.
		store, err := repository.Open(ctx, cfg.DBUrl, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close(context.Background())
		fmt.Fprintln(out, "Indexes are up to date.")
	default:
		fmt.Fprintf(out, "Nothing to migrate for the %s store.\n", backend)
	}
	return nil
}
