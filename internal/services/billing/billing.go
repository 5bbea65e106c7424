// Package billing содержит бизнес-логику оформления платежа: создание
// платежного намерения у провайдера и сверку его статуса.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/paymentprovider"
	"github.com/magabrotheeeer/finconnect-portal/internal/storage/repository"
)

// Сигнальные ошибки сервиса биллинга.
var (
	// ErrUnknownPlan — запрошен несуществующий тариф.
	ErrUnknownPlan = errors.New("unknown plan")
	// ErrIntentNotFound — платежное намерение не найдено или принадлежит другому пользователю.
	ErrIntentNotFound = errors.New("payment intent not found")
)

// ProviderClient определяет интерфейс клиента платежного провайдера.
type ProviderClient interface {
	CreateIntent(ctx context.Context, req paymentprovider.CreateIntentRequest) (*paymentprovider.Intent, error)
	GetIntent(ctx context.Context, id string) (*paymentprovider.Intent, error)
}

// PaymentRepository определяет методы для работы с записями платежей в хранилище.
type PaymentRepository interface {
	CreatePaymentIntent(ctx context.Context, intent models.PaymentIntent) (int, error)
	GetPaymentIntentByProviderID(ctx context.Context, providerID string) (*models.PaymentIntent, error)
	UpdatePaymentIntentStatus(ctx context.Context, providerID, status string) error
}

// BillingService реализует операции оформления платежа.
type BillingService struct {
	provider ProviderClient
	repo     PaymentRepository
	log      *slog.Logger
}

// New создает новый экземпляр BillingService.
func New(provider ProviderClient, repo PaymentRepository, log *slog.Logger) *BillingService {
	return &BillingService{
		provider: provider,
		repo:     repo,
		log:      log,
	}
}

// CreateIntent создает платежное намерение у провайдера для выбранного тарифа
// и сохраняет локальную запись о нем.
func (s *BillingService) CreateIntent(ctx context.Context, user *models.Identity, planID string) (*models.CreateIntentResponse, error) {
	const op = "billing.CreateIntent"

	plan, ok := models.Plans[planID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownPlan)
	}

	intent, err := s.provider.CreateIntent(ctx, paymentprovider.CreateIntentRequest{
		Amount:      int64(plan.Price * 100),
		Currency:    "usd",
		Description: fmt.Sprintf("FinConnect %s plan", plan.Name),
		Metadata: map[string]string{
			"plan":     plan.ID,
			"username": user.Username,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	record := models.PaymentIntent{
		ProviderID: intent.ID,
		UserID:     user.ID,
		Plan:       plan.ID,
		Amount:     plan.Price,
		Status:     intent.Status,
	}
	if _, err := s.repo.CreatePaymentIntent(ctx, record); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created payment intent",
		slog.String("provider_id", intent.ID), slog.Int("user_id", user.ID))

	return &models.CreateIntentResponse{
		ClientSecret: intent.ClientSecret,
		PlanName:     plan.Name,
		PlanPrice:    plan.Price,
	}, nil
}

// Status сверяет статус платежного намерения с провайдером, обновляет
// локальную запись и возвращает статус вместе с тарифом.
func (s *BillingService) Status(ctx context.Context, user *models.Identity, providerID string) (*models.PaymentStatus, error) {
	const op = "billing.Status"

	record, err := s.repo.GetPaymentIntentByProviderID(ctx, providerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrIntentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if record.UserID != user.ID {
		// Чужие платежи не раскрываются, ответ неотличим от отсутствия записи.
		return nil, fmt.Errorf("%s: %w", op, ErrIntentNotFound)
	}

	intent, err := s.provider.GetIntent(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if intent.Status != record.Status {
		if err := s.repo.UpdatePaymentIntentStatus(ctx, providerID, intent.Status); err != nil {
			s.log.Warn("failed to update payment intent status", sl.Err(err))
		}
	}

	return &models.PaymentStatus{
		Status: intent.Status,
		Plan:   record.Plan,
	}, nil
}
