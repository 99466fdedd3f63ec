package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"foldertoword/docs"
	"foldertoword/internal/archive"
	"foldertoword/internal/config"
	"foldertoword/internal/database"
	"foldertoword/internal/database/migration"
	"foldertoword/internal/gallery"
	handlers "foldertoword/internal/http/handler"
	"foldertoword/internal/http/middleware"
	"foldertoword/internal/logger"
	"foldertoword/internal/otel"
	"foldertoword/internal/repository"
	"foldertoword/internal/repository/memory"
	"foldertoword/internal/repository/postgres"
	redisrepo "foldertoword/internal/repository/redis"
	"foldertoword/internal/service"
	"foldertoword/internal/storage"
)

// @title Folder to Word API
// @version 1.0
// @description Turns a ZIP archive of image folders into a Word gallery document.
// @BasePath /
func main() {
	cfg := config.Load()
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.AppConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	var db *sql.DB
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return err
		}
	}

	objStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	docRepo, sessions, closeRepos, err := buildRepositories(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeRepos()

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	converter := service.NewConversionService(
		archive.Options{MaxEntryBytes: int64(cfg.MaxEntryMB) << 20},
		gallery.NewBuilder(gallery.Options{MaxPixels: cfg.MaxImagePixels}),
		metrics,
	)
	docSvc := service.NewDocumentService(objStore, docRepo, sessions)

	app := fiber.New(fiber.Config{
		AppName:               "foldertoword",
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.MaxUploadMB << 20,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())
	if cfg.Mode == config.DeliveryLink {
		if cfg.Session.CookieKey != "" {
			app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.Session.CookieKey}))
		}
		app.Use(middleware.Session(cfg.Session.CookieName, cfg.Session.TTL))
	}

	handlers.RegisterRoutes(app, handlers.Deps{
		Mode:      cfg.Mode,
		Converter: converter,
		Documents: docSvc,
		Metrics:   metrics,
		DB:        db,
		Gatherer:  prometheus.DefaultGatherer,
		Log:       log,
	})

	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	var reaper *service.Reaper
	if cfg.Mode == config.DeliveryLink {
		reaper = service.NewReaper(docSvc, cfg.Reaper, log)
		if err := reaper.Start(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().
			Str("addr", addr).
			Str("mode", string(cfg.Mode)).
			Str("storage", cfg.Storage.Backend).
			Bool("database", db != nil).
			Msg("server starting")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	if reaper != nil {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		reaper.Stop(sctx)
		cancel()
	}
	return app.ShutdownWithTimeout(cfg.ShutdownGrace)
}

// buildRepositories picks the document and session stores. Without a database
// both live in memory.
func buildRepositories(ctx context.Context, cfg *config.AppConfig, db *sql.DB) (repository.DocumentRepository, repository.SessionRepository, func(), error) {
	noop := func() {}

	var documents repository.DocumentRepository = memory.NewDocumentMemory()
	if db != nil {
		documents = postgres.NewDocumentPostgres(db)
	}

	switch cfg.Session.Backend {
	case "", "memory":
		return documents, memory.NewSessionMemory(cfg.Session.TTL), noop, nil
	case "postgres":
		if db == nil {
			return nil, nil, noop, fmt.Errorf("session backend postgres requires DB_HOST")
		}
		return documents, postgres.NewSessionPostgres(db), noop, nil
	case "redis":
		client, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, noop, err
		}
		closeFn := func() { _ = client.Close() }
		return documents, redisrepo.NewSessionRedis(client, cfg.Redis.Prefix, cfg.Session.TTL), closeFn, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}
