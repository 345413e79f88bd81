// Package services содержит бизнес-логику управления пользователями.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-service/internal/mapper"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// UserRepository определяет методы хранилища, нужные для работы с пользователями.
type UserRepository interface {
	// FindUserByID возвращает пользователя или common.ErrNotFound.
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	// ExistsUserWithEmail проверяет, занят ли email.
	ExistsUserWithEmail(ctx context.Context, email string) (bool, error)
	// SaveUser вставляет (ID == 0) или обновляет пользователя.
	SaveUser(ctx context.Context, user models.User) (*models.User, error)
	// DeleteUserByID удаляет пользователя.
	DeleteUserByID(ctx context.Context, id int64) error
	// DeleteSubscriptionsByUserID удаляет все подписки пользователя.
	DeleteSubscriptionsByUserID(ctx context.Context, userID int64) (int64, error)
}

// Transactor выполняет функцию в одной транзакции хранилища.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserService реализует создание, чтение, изменение и удаление пользователей.
type UserService struct {
	repo UserRepository
	tx   Transactor
	log  *slog.Logger
	now  func() time.Time
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, tx Transactor, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		tx:   tx,
		log:  log,
		now:  time.Now,
	}
}

// Create регистрирует пользователя. Занятый email даёт common.ErrAlreadyExists.
func (s *UserService) Create(ctx context.Context, req models.UserRequest) (*models.UserDTO, error) {
	const op = "services.user.Create"

	var saved *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		exists, err := s.repo.ExistsUserWithEmail(ctx, req.Email)
		if err != nil {
			return err
		}
		if exists {
			return common.NewError(common.ErrAlreadyExists, "user with email %s already exists", req.Email)
		}

		saved, err = s.repo.SaveUser(ctx, mapper.ToUserEntity(req, s.now().UTC()))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user created", sl.Op(op), slog.Int64("id", saved.ID))
	return mapper.ToUserDTO(saved), nil
}

// Get возвращает пользователя по ID.
func (s *UserService) Get(ctx context.Context, id int64) (*models.UserDTO, error) {
	const op = "services.user.Get"

	user, err := s.ResolveUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return mapper.ToUserDTO(user), nil
}

// Update меняет только имя и email. Конфликт возможен, лишь если email
// меняется на уже занятый.
func (s *UserService) Update(ctx context.Context, id int64, req models.UserRequest) (*models.UserDTO, error) {
	const op = "services.user.Update"

	var saved *models.User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.ResolveUser(ctx, id)
		if err != nil {
			return err
		}

		if req.Email != user.Email {
			exists, err := s.repo.ExistsUserWithEmail(ctx, req.Email)
			if err != nil {
				return err
			}
			if exists {
				return common.NewError(common.ErrAlreadyExists, "user with email %s already exists", req.Email)
			}
		}

		mapper.UpdateUserEntity(user, req, s.now().UTC())
		saved, err = s.repo.SaveUser(ctx, *user)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user updated", sl.Op(op), slog.Int64("id", id))
	return mapper.ToUserDTO(saved), nil
}

// Delete удаляет пользователя вместе со всеми его подписками.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	const op = "services.user.Delete"

	var removed int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.ResolveUser(ctx, id); err != nil {
			return err
		}

		var err error
		if removed, err = s.repo.DeleteSubscriptionsByUserID(ctx, id); err != nil {
			return err
		}
		return s.repo.DeleteUserByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user deleted", sl.Op(op), slog.Int64("id", id),
		slog.Int64("subscriptions_removed", removed))
	return nil
}

// ResolveUser возвращает сущность пользователя для других сервисов.
// Отсутствующий пользователь даёт common.ErrNotFound с сообщением "user not found".
func (s *UserService) ResolveUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}
