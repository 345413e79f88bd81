package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// FindUserByID возвращает пользователя по ID или common.ErrNotFound.
func (s *Storage) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.FindUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_name, email, created_at, updated_at
			  FROM users
			  WHERE id = $1`
	var u models.User
	if err := s.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.UserName, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// ExistsUserWithEmail проверяет, занят ли email.
func (s *Storage) ExistsUserWithEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsUserWithEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := s.conn(ctx).QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsUserByID проверяет существование пользователя.
func (s *Storage) ExistsUserByID(ctx context.Context, id int64) (bool, error) {
	const op = "storage.ExistsUserByID"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	var exists bool
	if err := s.conn(ctx).QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// SaveUser вставляет нового пользователя (ID == 0) или обновляет имя, email
// и время изменения существующего. Возвращает сохранённую запись.
func (s *Storage) SaveUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.SaveUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.ID == 0 {
		query := `INSERT INTO users (user_name, email, created_at, updated_at)
				  VALUES ($1, $2, $3, $4)
				  RETURNING id`
		if err := s.conn(ctx).QueryRowContext(ctx, query,
			user.UserName, user.Email, user.CreatedAt, user.UpdatedAt).Scan(&user.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, mapError(err))
		}
		return &user, nil
	}

	query := `UPDATE users
			  SET user_name = $1, email = $2, updated_at = $3
			  WHERE id = $4`
	result, err := s.conn(ctx).ExecContext(ctx, query, user.UserName, user.Email, user.UpdatedAt, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return &user, nil
}

// DeleteUserByID удаляет пользователя. Подписки удаляются каскадом по внешнему ключу.
func (s *Storage) DeleteUserByID(ctx context.Context, id int64) error {
	const op = "storage.DeleteUserByID"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}
	return nil
}
