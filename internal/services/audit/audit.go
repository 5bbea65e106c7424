// Package audit содержит бизнес-логику журнала API-запросов:
// запись из middleware и выдачу в консоль администратора.
package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// LogRepository определяет методы для работы с журналом запросов в хранилище.
type LogRepository interface {
	CreateAPILog(ctx context.Context, entry models.APILog) (int, error)
	ListAPILogs(ctx context.Context, limit, offset int) ([]*models.APILog, error)
}

// AuditService реализует запись и выдачу журнала запросов.
type AuditService struct {
	repo LogRepository
	log  *slog.Logger
}

// New создает новый экземпляр AuditService.
func New(repo LogRepository, log *slog.Logger) *AuditService {
	return &AuditService{
		repo: repo,
		log:  log,
	}
}

// Record сохраняет запись журнала. Ошибка записи не должна ломать запрос,
// поэтому метод только логирует её и не возвращает наружу.
func (s *AuditService) Record(ctx context.Context, entry models.APILog) {
	if _, err := s.repo.CreateAPILog(ctx, entry); err != nil {
		s.log.Warn("failed to record api log",
			slog.String("endpoint", entry.Endpoint), slog.Any("err", err))
	}
}

// List возвращает журнал запросов для консоли администратора.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]*models.APILog, error) {
	const op = "audit.List"
	entries, err := s.repo.ListAPILogs(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}
