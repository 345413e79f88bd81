// Package subscriptionservice собирает HTTP-приложение сервиса подписок:
// хранилище, сервисы, маршруты и HTTP-сервер.
package subscriptionservice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/subscription-service/internal/http/handlers/health"
	subcreate "github.com/magabrotheeeer/subscription-service/internal/http/handlers/subscription/create"
	sublist "github.com/magabrotheeeer/subscription-service/internal/http/handlers/subscription/list"
	subremove "github.com/magabrotheeeer/subscription-service/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-service/internal/http/handlers/subscription/top"
	usercreate "github.com/magabrotheeeer/subscription-service/internal/http/handlers/user/create"
	userread "github.com/magabrotheeeer/subscription-service/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/subscription-service/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/subscription-service/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/subscription-service/internal/http/middlewarectx"
	subservice "github.com/magabrotheeeer/subscription-service/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-service/internal/services/user"

	// Регистрация спецификации OpenAPI для /docs.
	_ "github.com/magabrotheeeer/subscription-service/docs"
)

// Deps — зависимости, из которых строятся маршруты.
type Deps struct {
	Logger              *slog.Logger
	UserService         *userservice.UserService
	SubscriptionService *subservice.SubscriptionService
	DB                  health.Pinger
	Metrics             *middlewarectx.Metrics
	MetricsHandler      http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, deps Deps) {
	logger := deps.Logger

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		deps.Metrics.Middleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", usercreate.New(logger, deps.UserService).ServeHTTP)
			r.Get("/{userId}", userread.New(logger, deps.UserService).ServeHTTP)
			r.Put("/{userId}", userupdate.New(logger, deps.UserService).ServeHTTP)
			r.Delete("/{userId}", userremove.New(logger, deps.UserService).ServeHTTP)

			r.Post("/{userId}/subscriptions", subcreate.New(logger, deps.SubscriptionService).ServeHTTP)
			r.Get("/{userId}/subscriptions", sublist.New(logger, deps.SubscriptionService).ServeHTTP)
			r.Delete("/{userId}/subscriptions/{subscriptionId}", subremove.New(logger, deps.SubscriptionService).ServeHTTP)
		})
		r.Get("/subscriptions/top", top.New(logger, deps.SubscriptionService).ServeHTTP)
	})

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)
	r.Handle("/metrics", deps.MetricsHandler)
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
