// Package mapper преобразует доменные сущности в DTO и обратно.
// Все функции чистые и не обращаются к хранилищу.
package mapper

import (
	"time"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// dateLayouts — допустимые форматы дат во входящих запросах, в порядке перебора.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate разбирает дату в одном из допустимых форматов.
// Даты без часового пояса считаются UTC.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, common.NewError(common.ErrValidation, "invalid date %q", value)
}

// ToUserEntity создаёт нового пользователя из запроса. ID не назначается.
func ToUserEntity(req models.UserRequest, now time.Time) models.User {
	return models.User{
		UserName:  req.UserName,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateUserEntity переносит имя и email из запроса в существующего пользователя.
// ID и CreatedAt не меняются.
func UpdateUserEntity(user *models.User, req models.UserRequest, now time.Time) {
	user.UserName = req.UserName
	user.Email = req.Email
	user.UpdatedAt = now
}

// ToUserDTO возвращает nil для nil.
func ToUserDTO(user *models.User) *models.UserDTO {
	if user == nil {
		return nil
	}
	return &models.UserDTO{
		ID:        user.ID,
		UserName:  user.UserName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToSubscriptionEntity разбирает даты запроса и создаёт подписку для userID.
// Некорректная дата возвращает ошибку, обёрнутую в common.ErrValidation.
func ToSubscriptionEntity(req models.SubscriptionRequest, userID int64) (models.Subscription, error) {
	start, err := ParseDate(req.StartDate)
	if err != nil {
		return models.Subscription{}, common.NewError(common.ErrValidation, "invalid start_date %q", req.StartDate)
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return models.Subscription{}, common.NewError(common.ErrValidation, "invalid end_date %q", req.EndDate)
	}
	return models.Subscription{
		ServiceName: req.ServiceName,
		StartDate:   start,
		EndDate:     end,
		UserID:      userID,
	}, nil
}

// ToSubscriptionDTO возвращает nil для nil.
func ToSubscriptionDTO(sub *models.Subscription) *models.SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &models.SubscriptionDTO{
		ID:          sub.ID,
		ServiceName: sub.ServiceName,
		StartDate:   sub.StartDate,
		EndDate:     sub.EndDate,
		UserID:      sub.UserID,
	}
}

// SubscriptionFromDTO — обратное преобразование к ToSubscriptionDTO.
func SubscriptionFromDTO(dto *models.SubscriptionDTO) *models.Subscription {
	if dto == nil {
		return nil
	}
	return &models.Subscription{
		ID:          dto.ID,
		ServiceName: dto.ServiceName,
		StartDate:   dto.StartDate,
		EndDate:     dto.EndDate,
		UserID:      dto.UserID,
	}
}

// ToSubscriptionDTOs сохраняет порядок и никогда не возвращает nil.
func ToSubscriptionDTOs(subs []models.Subscription) []models.SubscriptionDTO {
	result := make([]models.SubscriptionDTO, 0, len(subs))
	for i := range subs {
		result = append(result, *ToSubscriptionDTO(&subs[i]))
	}
	return result
}

// ToTopSubscriptionDTOs сохраняет порядок рейтинга и никогда не возвращает nil.
func ToTopSubscriptionDTOs(top []models.TopSubscription) []models.TopSubscriptionDTO {
	result := make([]models.TopSubscriptionDTO, 0, len(top))
	for _, item := range top {
		result = append(result, models.TopSubscriptionDTO{
			ServiceName:     item.ServiceName,
			SubscriberCount: item.SubscriberCount,
		})
	}
	return result
}
