package subscriptionservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscription-service/internal/config"
	"github.com/magabrotheeeer/subscription-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-service/internal/migrations"
	subservice "github.com/magabrotheeeer/subscription-service/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-service/internal/services/user"
	"github.com/magabrotheeeer/subscription-service/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP-сервер вместе с хранилищем.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New подключается к базе, применяет миграции и собирает маршруты.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.DB.SetMaxOpenConns(cfg.MaxOpenConns)
	db.DB.SetMaxIdleConns(cfg.MaxIdleConns)
	db.DB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("database is ready", slog.String("migrations", cfg.MigrationsPath))

	router := NewRouter(logger, db, prometheus.NewRegistry())

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// NewRouter создаёт сервисы поверх db и возвращает готовый роутер.
// Метрики процесса и HTTP регистрируются в reg и отдаются на /metrics.
func NewRouter(logger *slog.Logger, db *repository.Storage, reg *prometheus.Registry) http.Handler {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userService := userservice.NewUserService(db, db, logger)
	subscriptionService := subservice.NewSubscriptionService(db, userService, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:              logger,
		UserService:         userService,
		SubscriptionService: subscriptionService,
		DB:                  db,
		Metrics:             middlewarectx.NewMetrics(reg),
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})
	return router
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.closeDB()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.closeDB()
		return err
	}
}

func (a *App) closeDB() {
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
