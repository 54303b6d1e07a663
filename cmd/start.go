package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-manager/core/config"
	"catalog-manager/core/database"
	"catalog-manager/core/loader"
	"catalog-manager/core/logger"
	"catalog-manager/core/middleware/auth"
	"catalog-manager/core/middleware/rayid"
	"catalog-manager/core/storage"
	"catalog-manager/feature/catalog"
	"catalog-manager/feature/catalog/ingest"
	"catalog-manager/feature/catalog/parser"
	"catalog-manager/feature/catalog/readers"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Catalog Manager API
// @version 1.0
// @description API for browsing catalog entities and managing refresh locations.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog manager server",
	Long:  `Starts the HTTP server and the periodic location refresh loop.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := database.Migrate(db); err != nil {
			logg.Fatal("Failed to migrate schema", zap.Error(err))
		}
		logg.Info("Connected to catalog database")

		// 4. Initialize Storage (optional, backs "object" locations)
		var client storage.Client
		if c, err := storage.NewClient(cfg.Storage); err != nil {
			logg.Warn("Optional storage client failed; object locations disabled", zap.Error(err))
		} else {
			client = c
		}

		// 5. Build the catalog core
		store := catalog.NewStore(db, logg)
		reader := readers.New(client, cfg.Storage.Bucket, logg)
		descriptorParser := parser.New()

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features
		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(store, logg))
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Periodic refresh loop
		refreshCtx, stopRefresh := context.WithCancel(context.Background())
		defer stopRefresh()
		if cfg.Refresh.Enabled {
			go runRefreshLoop(refreshCtx, cfg.Refresh, store, reader, descriptorParser, logg)
		} else {
			logg.Info("Periodic refresh is disabled")
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		stopRefresh()
		_ = app.Shutdown()
	},
}

// runRefreshLoop invokes RefreshAll on a fixed interval until ctx is
// cancelled. Data-level failures are already absorbed into the update
// log; only systemic failures surface here, and they are logged rather
// than fatal so the next tick can retry.
func runRefreshLoop(ctx context.Context, cfg ingest.Config, cat ingest.Catalog, reader ingest.LocationReader, descriptorParser ingest.DescriptorParser, logg *zap.Logger) {
	interval := time.Duration(cfg.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = 2 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logg.Info("Starting refresh loop", zap.Duration("interval", interval))
	for {
		if err := ingest.RefreshAll(ctx, cat, reader, descriptorParser, logg); err != nil {
			if ctx.Err() != nil {
				return
			}
			logg.Error("Refresh run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func init() {
	RootCmd.AddCommand(startCmd)
}
