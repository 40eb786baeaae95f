package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"painter/internal/applog"
	"painter/internal/config"
	"painter/internal/database"
	"painter/internal/database/migration"
	handlers "painter/internal/http/handler"
	"painter/internal/http/middleware"
	"painter/internal/otel"
	"painter/internal/repository/postgres"
	"painter/internal/service"
	"painter/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Painter API
// @version 1.3.0
// @description Image upload service for CardManager.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := applog.New(cfg.Location()).With("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Version, log)
	if err != nil {
		log.Error("tracing_init_failed", err, nil)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := service.NewMetrics(reg)
	if err != nil {
		log.Error("metrics_init_failed", err, nil)
		os.Exit(1)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Error("metrics_init_failed", err, nil)
		os.Exit(1)
	}

	files := storage.NewDisk(cfg.Upload.Dir)
	if err := files.EnsureRoot(); err != nil {
		// Store retries on every upload, so a missing root is not fatal here.
		log.Warn("upload_root_unavailable", map[string]any{"dir": cfg.Upload.Dir, "error": err.Error()})
	}

	opts := []service.Option{service.WithLogger(log), service.WithMetrics(metrics)}

	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			log.Error("database_connect_failed", err, map[string]any{"db_host": cfg.Database.Host})
			os.Exit(1)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			log.Error("migration_failed", err, nil)
			os.Exit(1)
		}
		opts = append(opts, service.WithCatalog(postgres.NewUploadPostgres(db)))
	}

	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Error("object_storage_init_failed", err, map[string]any{"endpoint": cfg.MinIO.Endpoint})
			os.Exit(1)
		}
		opts = append(opts, service.WithMirror(objStore))
	}

	uploadSvc := service.NewUploadService(files, cfg.Upload, opts...)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Upload.MaxUploadBytes,
	})

	for _, h := range middleware.Chain(os.Stdout, cfg.Location(), promMiddleware) {
		app.Use(h)
	}

	handlers.RegisterRoutes(app, cfg, uploadSvc, log)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	go func() {
		<-ctx.Done()
		log.Info("shutdown_started", nil)
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("http_shutdown_failed", err, nil)
		}
	}()

	addr := ":" + cfg.Port
	log.Info("server_starting", map[string]any{
		"addr":       addr,
		"upload_dir": cfg.Upload.Dir,
		"catalog":    cfg.Database.Enabled(),
		"mirror":     cfg.MinIO.Enabled(),
	})
	if err := app.Listen(addr); err != nil {
		log.Error("server_failed", err, nil)
	}

	tctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		log.Error("tracing_shutdown_failed", err, nil)
	}
}
