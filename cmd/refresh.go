package cmd

import (
	"context"
	"fmt"

	"catalog-manager/core/config"
	"catalog-manager/core/database"
	"catalog-manager/core/logger"
	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/ingest"
	"catalog-manager/feature/catalog/parser"
	"catalog-manager/feature/catalog/readers"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// refreshCmd runs one refresh pass over all registered locations.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh all registered locations once",
	Long: `Reads every registered location, parses the descriptors it yields, and
merges them into the stored catalog. Outcomes are recorded in the location
update log; a failing location never blocks the others.`,
	RunE: runRefresh,
}

func init() {
	RootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	// Storage is optional; without it only "object" locations fail.
	var client storage.Client
	if c, err := storage.NewClient(cfg.Storage); err != nil {
		l.Warn("Storage client unavailable; object locations will fail", zap.Error(err))
	} else {
		client = c
	}

	store := catalog.NewStore(db, l)
	reader := readers.New(client, cfg.Storage.Bucket, l)

	l.Info("Starting refresh run")
	if err := ingest.RefreshAll(ctx, store, reader, parser.New(), l); err != nil {
		return fmt.Errorf("refresh run failed: %w", err)
	}
	l.Info("Refresh run complete")
	return nil
}
