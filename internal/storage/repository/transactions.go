package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// CreateTransaction сохраняет демонстрационную транзакцию и возвращает её ID.
func (s *Storage) CreateTransaction(ctx context.Context, tx models.Transaction) (int, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO transactions (user_id, type, amount, description, status, from_account, to_account)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		tx.UserID, tx.Type, tx.Amount, nullString(tx.Description), tx.Status,
		nullString(tx.FromAccount), nullString(tx.ToAccount)).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTransactions возвращает транзакции пользователя с пагинацией,
// новые записи первыми.
func (s *Storage) ListTransactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error) {
	const op = "storage.ListTransactions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, type, amount, description, status, from_account, to_account, created_at
			  FROM transactions
			  WHERE user_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var txs []*models.Transaction
	for rows.Next() {
		tx := &models.Transaction{}
		var description, fromAccount, toAccount sql.NullString
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Type, &tx.Amount,
			&description, &tx.Status, &fromAccount, &toAccount, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tx.Description = description.String
		tx.FromAccount = fromAccount.String
		tx.ToAccount = toAccount.String
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return txs, nil
}

// nullString преобразует пустую строку в NULL для необязательных колонок.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
