package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// CreateSubscription сохраняет новую активную подписку пользователя.
// Частичный уникальный индекс по user_id WHERE active гарантирует не более
// одной активной подписки; нарушение возвращается как ErrAlreadyExists.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_id, plan, active, start_date)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at;`
	created := sub
	if err := s.DB.QueryRowContext(ctx, query,
		sub.UserID, sub.Plan, sub.Active, sub.StartDate).Scan(&created.ID, &created.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &created, nil
}

// GetActiveSubscription возвращает активную подписку пользователя
// или ErrNotFound, если активной подписки нет.
func (s *Storage) GetActiveSubscription(ctx context.Context, userID int) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan, active, start_date, end_date, created_at
			  FROM subscriptions
			  WHERE user_id = $1 AND active
			  ORDER BY id DESC
			  LIMIT 1`
	sub := &models.Subscription{}
	row := s.DB.QueryRowContext(ctx, query, userID)

	var endDate sql.NullTime
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Active,
		&sub.StartDate, &endDate, &sub.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if endDate.Valid {
		sub.EndDate = &endDate.Time
	}
	return sub, nil
}

// CancelSubscription деактивирует активную подписку пользователя,
// проставляя дату окончания. Возвращает ErrNotFound, если активной подписки нет.
func (s *Storage) CancelSubscription(ctx context.Context, userID int, endDate time.Time) error {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET active = FALSE, end_date = $2
			  WHERE user_id = $1 AND active`
	res, err := s.DB.ExecContext(ctx, query, userID, endDate)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// ListSubscriptions возвращает список всех подписок с пагинацией
// для консоли администратора.
func (s *Storage) ListSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, plan, active, start_date, end_date, created_at
			  FROM subscriptions
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var subs []*models.Subscription
	for rows.Next() {
		sub := &models.Subscription{}
		var endDate sql.NullTime
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Plan, &sub.Active,
			&sub.StartDate, &endDate, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if endDate.Valid {
			sub.EndDate = &endDate.Time
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}
