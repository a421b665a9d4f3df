package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/tailorflow/internal/application/recordstore"
	"github.com/jhoicas/tailorflow/internal/domain/repository"
	"github.com/jhoicas/tailorflow/internal/infrastructure/postgres"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sheet"
	"github.com/jhoicas/tailorflow/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/tailorflow/internal/interfaces/http"
	"github.com/jhoicas/tailorflow/pkg/config"
	"github.com/jhoicas/tailorflow/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Store.Backend).
		Msg("iniciando record store")

	ctx := context.Background()
	wb, closeWB, err := openWorkbook(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("abrir libro de hojas")
	}
	defer func() { _ = closeWB.Close() }()

	metrics := httpRouter.NewMetrics()
	store := recordstore.NewService(wb, log,
		recordstore.WithLockWait(cfg.Store.LockWait),
		recordstore.WithObserver(metrics),
	)
	if err := store.Setup(ctx); err != nil {
		log.Fatal().Err(err).Msg("setup del record store")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "TailorFlow Record Store",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Store:   store,
		Backend: cfg.Store.Backend,
		Metrics: metrics,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("record store detenido")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// openWorkbook abre el libro según STORE_BACKEND.
func openWorkbook(ctx context.Context, cfg *config.Config) (repository.Workbook, io.Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		wb, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return wb, wb, nil
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		wb, err := postgres.OpenWorkbook(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return wb, closerFunc(func() error { pool.Close(); return nil }), nil
	default:
		return sheet.NewMemoryWorkbook(), closerFunc(func() error { return nil }), nil
	}
}
