package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"dataroom/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the dataroom metadata schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional config file (yaml, toml or json)")

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create tables and indexes that do not exist yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), configPath, func(ctx context.Context, store *config.MetadataStore, logger *slog.Logger) error {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				logger.Info("schema is up to date")
				return nil
			})
		},
	})

	var force bool
	drop := &cobra.Command{
		Use:   "drop",
		Short: "Drop every table for the configured prefix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), configPath, func(ctx context.Context, store *config.MetadataStore, logger *slog.Logger) error {
				if !force {
					return errors.New("refusing to drop tables without --force")
				}
				if err := store.Drop(ctx); err != nil {
					return err
				}
				logger.Warn("all tables dropped")
				return nil
			})
		},
	}
	drop.Flags().BoolVar(&force, "force", false, "confirm the drop")
	root.AddCommand(drop)

	return root
}

// withStore loads configuration, opens the metadata store and runs fn against it
func withStore(ctx context.Context, configPath string, fn func(context.Context, *config.MetadataStore, *slog.Logger) error) error {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, closer, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closer.Close()

	if cfg.Environment == "prod" && os.Getenv("MIGRATE_ALLOW_PROD") != "1" {
		return errors.New("set MIGRATE_ALLOW_PROD=1 to run against prod")
	}

	store, err := config.CreateMetadataStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("metadata store opened",
		"environment", cfg.Environment,
		"backend", cfg.Metadata.Backend,
		"table_prefix", cfg.TablePrefix,
	)
	return fn(ctx, store, logger)
}
