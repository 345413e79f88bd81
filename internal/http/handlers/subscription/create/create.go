// Package create реализует HTTP-обработчик добавления подписки пользователю.
//
// Handler принимает JSON с названием сервиса и датами, валидирует его,
// вызывает сервис и возвращает созданную подписку со статусом 201.
// Ошибки сервиса переводятся в HTTP-статусы через response.StatusFromError.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-service/internal/http/response"
	"github.com/magabrotheeeer/subscription-service/internal/http/urlparam"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// Handler управляет HTTP-запросами на создание подписок.
//
// Использует логгер для записи операций и ошибок,
// сервис бизнес-логики для создания подписки,
// а также валидатор для проверки структуры входных данных.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Add(ctx context.Context, userID int64, req models.SubscriptionRequest) (*models.SubscriptionDTO, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить подписку
// @Description Добавляет пользователю подписку. Даты: RFC3339, 2006-01-02T15:04:05 или 2006-01-02.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param userId path int true "ID пользователя"
// @Param request body models.SubscriptionRequest true "Данные новой подписки"
// @Success 201 {object} response.Response{data=models.SubscriptionDTO} "Подписка создана"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ID или даты"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Подписка на сервис уже есть"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /users/{userId}/subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
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

	var req models.SubscriptionRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	req.Normalize()
	log.Debug("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			log.Warn("validation failed", sl.Err(err))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.ValidationError(validateErrs))
			return
		}
		log.Error("failed to validate request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	sub, err := h.service.Add(r.Context(), userID, req)
	if err != nil {
		status, msg := response.StatusFromError(err)
		log.Error("failed to create subscription", sl.Err(err), slog.Int("status", status))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(sub))
}
