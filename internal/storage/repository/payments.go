package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// CreatePaymentIntent сохраняет локальную запись о платежном намерении.
func (s *Storage) CreatePaymentIntent(ctx context.Context, intent models.PaymentIntent) (int, error) {
	const op = "storage.CreatePaymentIntent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO payment_intents (provider_id, user_id, plan, amount, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		intent.ProviderID, intent.UserID, intent.Plan, intent.Amount,
		intent.Status).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPaymentIntentByProviderID возвращает запись о платеже по идентификатору
// на стороне провайдера или ErrNotFound.
func (s *Storage) GetPaymentIntentByProviderID(ctx context.Context, providerID string) (*models.PaymentIntent, error) {
	const op = "storage.GetPaymentIntentByProviderID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, provider_id, user_id, plan, amount, status, created_at
			  FROM payment_intents
			  WHERE provider_id = $1`
	intent := &models.PaymentIntent{}
	row := s.DB.QueryRowContext(ctx, query, providerID)

	if err := row.Scan(&intent.ID, &intent.ProviderID, &intent.UserID, &intent.Plan,
		&intent.Amount, &intent.Status, &intent.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return intent, nil
}

// UpdatePaymentIntentStatus обновляет статус платежного намерения.
func (s *Storage) UpdatePaymentIntentStatus(ctx context.Context, providerID, status string) error {
	const op = "storage.UpdatePaymentIntentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payment_intents SET status = $2 WHERE provider_id = $1`
	res, err := s.DB.ExecContext(ctx, query, providerID, status)
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
