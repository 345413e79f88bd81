package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-service/internal/common"
	"github.com/magabrotheeeer/subscription-service/internal/models"
)

// FindSubscriptionsByUserID возвращает все подписки пользователя в порядке добавления.
// Для пользователя без подписок (или несуществующего) возвращает пустой срез.
func (s *Storage) FindSubscriptionsByUserID(ctx context.Context, userID int64) ([]models.Subscription, error) {
	const op = "storage.FindSubscriptionsByUserID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, service_name, start_date, end_date, user_id
			  FROM subscriptions
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.Subscription, 0)
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.ServiceName, &item.StartDate, &item.EndDate, &item.UserID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionByID возвращает подписку по ID или common.ErrNotFound.
func (s *Storage) FindSubscriptionByID(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "storage.FindSubscriptionByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, service_name, start_date, end_date, user_id
			  FROM subscriptions
			  WHERE id = $1`
	var sub models.Subscription
	if err := s.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.ServiceName, &sub.StartDate, &sub.EndDate, &sub.UserID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &sub, nil
}

// SaveSubscription вставляет новую подписку и возвращает её с присвоенным ID.
// Подписки не обновляются, поэтому ID входной записи игнорируется.
func (s *Storage) SaveSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.SaveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (service_name, start_date, end_date, user_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err := s.conn(ctx).QueryRowContext(ctx, query,
		sub.ServiceName, sub.StartDate, sub.EndDate, sub.UserID).Scan(&sub.ID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &sub, nil
}

// DeleteSubscription удаляет подписку.
func (s *Storage) DeleteSubscription(ctx context.Context, sub models.Subscription) error {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, sub.ID)
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

// DeleteSubscriptionsByUserID удаляет все подписки пользователя и возвращает их количество.
func (s *Storage) DeleteSubscriptionsByUserID(ctx context.Context, userID int64) (int64, error) {
	const op = "storage.DeleteSubscriptionsByUserID"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ExistsSubscription проверяет, есть ли у пользователя подписка на сервис.
func (s *Storage) ExistsSubscription(ctx context.Context, userID int64, serviceName string) (bool, error) {
	const op = "storage.ExistsSubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM subscriptions WHERE user_id = $1 AND service_name = $2
			  )`
	var exists bool
	if err := s.conn(ctx).QueryRowContext(ctx, query, userID, serviceName).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AggregateTopServices группирует подписки по названию сервиса и возвращает
// limit самых популярных. При равном количестве сервисы идут по алфавиту.
func (s *Storage) AggregateTopServices(ctx context.Context, limit int) ([]models.TopSubscription, error) {
	const op = "storage.AggregateTopServices"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if limit <= 0 {
		return []models.TopSubscription{}, nil
	}

	query := `SELECT service_name, COUNT(*) AS subscriber_count
			  FROM subscriptions
			  GROUP BY service_name
			  ORDER BY subscriber_count DESC, service_name ASC
			  LIMIT $1`
	rows, err := s.conn(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.TopSubscription, 0, limit)
	for rows.Next() {
		var item models.TopSubscription
		if err := rows.Scan(&item.ServiceName, &item.SubscriberCount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
