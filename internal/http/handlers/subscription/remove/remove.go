// Package remove реализует HTTP-обработчик удаления подписки пользователя.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-service/internal/http/response"
	"github.com/magabrotheeeer/subscription-service/internal/http/urlparam"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
)

// Handler обрабатывает запросы на удаление подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления подписки.
type Service interface {
	Delete(ctx context.Context, userID, subscriptionID int64) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить подписку
// @Description Удаляет подписку, если она принадлежит пользователю из пути.
// @Tags Subscriptions
// @Param userId path int true "ID пользователя"
// @Param subscriptionId path int true "ID подписки"
// @Success 204 "Подписка удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID или подписка принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /users/{userId}/subscriptions/{subscriptionId} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.remove"
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
	subscriptionID, err := urlparam.Int64(r, "subscriptionId")
	if err != nil {
		log.Error("failed to decode subscription id from url", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid subscription id"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, subscriptionID); err != nil {
		status, msg := response.StatusFromError(err)
		log.Error("failed to delete subscription", sl.Err(err), slog.Int("status", status))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("subscription deleted", slog.Int64("id", subscriptionID))
	render.NoContent(w, r)
}
