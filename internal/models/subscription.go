package models

import (
	"strings"
	"time"
)

// Subscription представляет подписку пользователя на сервис.
// Дата окончания всегда строго позже даты начала.
type Subscription struct {
	ID          int64     // Идентификатор подписки
	ServiceName string    // Название сервиса
	StartDate   time.Time // Дата начала
	EndDate     time.Time // Дата окончания
	UserID      int64     // Владелец подписки
}

// SubscriptionRequest используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Даты приходят строками, чтобы их можно было разобрать в нескольких форматах.
type SubscriptionRequest struct {
	ServiceName string `json:"service_name" validate:"required" example:"Netflix"`          // Название сервиса
	StartDate   string `json:"start_date" validate:"required" example:"2024-01-01"`         // Дата начала
	EndDate     string `json:"end_date" validate:"required" example:"2024-02-01T00:00:00"` // Дата окончания
}

// SubscriptionDTO — представление подписки в ответах API.
type SubscriptionDTO struct {
	ID          int64     `json:"id" example:"1"`
	ServiceName string    `json:"service_name" example:"Netflix"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	UserID      int64     `json:"user_id" example:"1"`
}

// TopSubscription — строка агрегата «сервис — число подписок».
type TopSubscription struct {
	ServiceName     string
	SubscriberCount int64
}

// TopSubscriptionDTO — элемент рейтинга популярных сервисов.
type TopSubscriptionDTO struct {
	ServiceName     string `json:"service_name" example:"Netflix"`
	SubscriberCount int64  `json:"subscriber_count" example:"5"`
}

// Normalize обрезает пробелы по краям строковых полей запроса.
func (r *SubscriptionRequest) Normalize() {
	r.ServiceName = strings.TrimSpace(r.ServiceName)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
}
