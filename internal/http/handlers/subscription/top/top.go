// Package top реализует HTTP-обработчик рейтинга самых популярных сервисов.
package top

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-service/internal/http/response"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// Handler обрабатывает запросы рейтинга сервисов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики рейтинга.
type Service interface {
	Top(ctx context.Context) ([]models.TopSubscriptionDTO, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Топ-3 сервисов
// @Description Три сервиса с наибольшим числом подписок. При равенстве сервисы упорядочены по названию.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.TopSubscriptionDTO}
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /subscriptions/top [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.top"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	top, err := h.service.Top(r.Context())
	if err != nil {
		status, msg := response.StatusFromError(err)
		log.Error("failed to compute top subscriptions", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(top))
}
