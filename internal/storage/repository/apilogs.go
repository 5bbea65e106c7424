package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// CreateAPILog сохраняет запись журнала запросов.
func (s *Storage) CreateAPILog(ctx context.Context, entry models.APILog) (int, error) {
	const op = "storage.CreateAPILog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO api_logs (user_id, endpoint, method, status_code, response_time)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		entry.UserID, entry.Endpoint, entry.Method, entry.StatusCode,
		entry.ResponseTime).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListAPILogs возвращает журнал запросов с пагинацией, новые записи первыми.
func (s *Storage) ListAPILogs(ctx context.Context, limit, offset int) ([]*models.APILog, error) {
	const op = "storage.ListAPILogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, endpoint, method, status_code, response_time, timestamp
			  FROM api_logs
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*models.APILog
	for rows.Next() {
		entry := &models.APILog{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Endpoint, &entry.Method,
			&entry.StatusCode, &entry.ResponseTime, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}
