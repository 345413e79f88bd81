// Package services содержит бизнес-логику управления подписками пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-service/internal/mapper"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// TopLimit — число сервисов в рейтинге популярности.
const TopLimit = 3

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// FindSubscriptionsByUserID возвращает подписки пользователя, пустой срез если их нет.
	FindSubscriptionsByUserID(ctx context.Context, userID int64) ([]models.Subscription, error)
	// FindSubscriptionByID возвращает подписку или common.ErrNotFound.
	FindSubscriptionByID(ctx context.Context, id int64) (*models.Subscription, error)
	// SaveSubscription добавляет подписку и возвращает её с ID.
	SaveSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// DeleteSubscription удаляет подписку.
	DeleteSubscription(ctx context.Context, sub models.Subscription) error
	// ExistsSubscription проверяет наличие подписки пользователя на сервис.
	ExistsSubscription(ctx context.Context, userID int64, serviceName string) (bool, error)
	// AggregateTopServices возвращает limit самых популярных сервисов.
	AggregateTopServices(ctx context.Context, limit int) ([]models.TopSubscription, error)
}

// UserResolver находит владельца подписки.
type UserResolver interface {
	ResolveUser(ctx context.Context, id int64) (*models.User, error)
}

// Transactor выполняет функцию в одной транзакции хранилища.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SubscriptionService реализует добавление, просмотр и удаление подписок,
// а также рейтинг популярных сервисов.
type SubscriptionService struct {
	repo  SubscriptionRepository
	users UserResolver
	tx    Transactor
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, users UserResolver, tx Transactor, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		users: users,
		tx:    tx,
		log:   log,
	}
}

// Add добавляет пользователю подписку на сервис.
// Проверки идут в порядке: формат дат, дубликат, порядок дат, существование пользователя.
func (s *SubscriptionService) Add(ctx context.Context, userID int64, req models.SubscriptionRequest) (*models.SubscriptionDTO, error) {
	const op = "services.subscription.Add"

	sub, err := mapper.ToSubscriptionEntity(req, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var saved *models.Subscription
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsSubscription(ctx, userID, sub.ServiceName)
		if err != nil {
			return err
		}
		if exists {
			return common.NewError(common.ErrAlreadyExists,
				"user already has a subscription to %s", sub.ServiceName)
		}

		if !sub.EndDate.After(sub.StartDate) {
			return common.NewError(common.ErrValidation, "end_date must be after start_date")
		}

		owner, err := s.users.ResolveUser(ctx, userID)
		if err != nil {
			return err
		}
		sub.UserID = owner.ID

		saved, err = s.repo.SaveSubscription(ctx, sub)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription added", sl.Op(op),
		slog.Int64("id", saved.ID), slog.Int64("user_id", saved.UserID))
	return mapper.ToSubscriptionDTO(saved), nil
}

// ListByUser возвращает подписки пользователя. Существование пользователя не проверяется.
func (s *SubscriptionService) ListByUser(ctx context.Context, userID int64) ([]models.SubscriptionDTO, error) {
	const op = "services.subscription.ListByUser"

	subs, err := s.repo.FindSubscriptionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return mapper.ToSubscriptionDTOs(subs), nil
}

// Delete удаляет подписку subscriptionID, если она принадлежит userID.
func (s *SubscriptionService) Delete(ctx context.Context, userID, subscriptionID int64) error {
	const op = "services.subscription.Delete"

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		sub, err := s.repo.FindSubscriptionByID(ctx, subscriptionID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.NewError(common.ErrNotFound, "subscription not found")
			}
			return err
		}
		if sub.UserID != userID {
			return common.NewError(common.ErrOwnershipMismatch,
				"subscription %d does not belong to user %d", subscriptionID, userID)
		}
		return s.repo.DeleteSubscription(ctx, *sub)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription deleted", sl.Op(op),
		slog.Int64("id", subscriptionID), slog.Int64("user_id", userID))
	return nil
}

// Top возвращает TopLimit сервисов с наибольшим числом подписок.
// При равенстве сервисы упорядочены по названию.
func (s *SubscriptionService) Top(ctx context.Context) ([]models.TopSubscriptionDTO, error) {
	const op = "services.subscription.Top"

	top, err := s.repo.AggregateTopServices(ctx, TopLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return mapper.ToTopSubscriptionDTOs(top), nil
}
