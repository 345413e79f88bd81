// Package list реализует HTTP-обработчик получения подписок пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-service/internal/http/response"
	"github.com/magabrotheeeer/subscription-service/internal/http/urlparam"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// Handler обрабатывает запросы на получение списка подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения подписок.
type Service interface {
	ListByUser(ctx context.Context, userID int64) ([]models.SubscriptionDTO, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подписки пользователя
// @Description Возвращает все подписки пользователя. Для пользователя без подписок возвращается пустой список.
// @Tags Subscriptions
// @Produce  json
// @Param userId path int true "ID пользователя"
// @Success 200 {object} response.Response{data=[]models.SubscriptionDTO}
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /users/{userId}/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, err := urlparam.Int64(r, "userId")
	if err != nil {
		log.Error("failed to decode user id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	subs, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		status, msg := response.StatusFromError(err)
		log.Error("failed to list subscriptions", sl.Err(err), slog.Int("status", status))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Debug("subscriptions listed", slog.Int("count", len(subs)))
	render.JSON(w, r, response.StatusOKWithData(subs))
}
