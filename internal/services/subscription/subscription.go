// Package subscription содержит бизнес-логику управления подписками портала,
// включая кеширование активной подписки и публикацию биллинговых событий.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finconnect-portal/internal/events"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/storage/repository"
)

// Сигнальные ошибки сервиса подписок.
var (
	// ErrNoActiveSubscription — у пользователя нет активной подписки.
	ErrNoActiveSubscription = errors.New("no active subscription")
	// ErrSubscriptionExists — активная подписка уже оформлена.
	ErrSubscriptionExists = errors.New("subscription already exists")
	// ErrUnknownPlan — запрошен несуществующий тариф.
	ErrUnknownPlan = errors.New("unknown plan")
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую активную подписку.
	CreateSubscription(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	// GetActiveSubscription возвращает активную подписку пользователя.
	GetActiveSubscription(ctx context.Context, userID int) (*models.Subscription, error)
	// CancelSubscription деактивирует активную подписку пользователя.
	CancelSubscription(ctx context.Context, userID int, endDate time.Time) error
	// ListSubscriptions возвращает список всех подписок с пагинацией.
	ListSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует биллинговые события подписок.
type EventPublisher interface {
	Publish(routingKey string, event events.SubscriptionEvent) error
}

// activeCacheTTL — время жизни кеша активной подписки. Короткое, чтобы
// отмена через консоль администратора не жила в кеше дольше минуты.
const activeCacheTTL = time.Minute

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo      SubscriptionRepository
	cache     Cache
	publisher EventPublisher
	log       *slog.Logger
}

// New создает новый экземпляр SubscriptionService.
func New(repo SubscriptionRepository, cache Cache, publisher EventPublisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Subscribe оформляет подписку пользователя на тариф. Инвариант единственной
// активной подписки обеспечивается и предварительной проверкой, и частичным
// уникальным индексом в хранилище.
func (s *SubscriptionService) Subscribe(ctx context.Context, user *models.Identity, plan string) (*models.Subscription, error) {
	const op = "subscription.Subscribe"

	if _, ok := models.Plans[plan]; !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrUnknownPlan)
	}

	if _, err := s.repo.GetActiveSubscription(ctx, user.ID); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionExists)
	}

	sub := models.Subscription{
		UserID:    user.ID,
		Plan:      plan,
		Active:    true,
		StartDate: time.Now().UTC(),
	}
	created, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubscriptionExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("created new subscription", slog.Int("id", created.ID), slog.Int("user_id", user.ID))

	if err := s.cache.Invalidate(s.cacheKey(user.ID)); err != nil {
		s.log.Warn("failed to invalidate subscription cache", sl.Err(err))
	}

	event := events.SubscriptionEvent{
		UserID:     user.ID,
		Username:   user.Username,
		Plan:       plan,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(events.RoutingSubscriptionActivated, event); err != nil {
		s.log.Warn("failed to publish activation event", sl.Err(err))
	}

	return created, nil
}

// Active возвращает активную подписку пользователя, используя кеш или хранилище.
// Возвращает ErrNoActiveSubscription, если подписки нет.
func (s *SubscriptionService) Active(ctx context.Context, userID int) (*models.Subscription, error) {
	const op = "subscription.Active"

	var cached models.Subscription
	cacheKey := s.cacheKey(userID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read subscription cache", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.GetActiveSubscription(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(cacheKey, sub, activeCacheTTL); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), sl.Err(err))
	}
	return sub, nil
}

// Cancel отменяет активную подписку пользователя и инвалидирует кеш.
func (s *SubscriptionService) Cancel(ctx context.Context, user *models.Identity) error {
	const op = "subscription.Cancel"

	sub, err := s.repo.GetActiveSubscription(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.CancelSubscription(ctx, user.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("cancelled subscription", slog.Int("id", sub.ID), slog.Int("user_id", user.ID))

	if err := s.cache.Invalidate(s.cacheKey(user.ID)); err != nil {
		s.log.Warn("failed to invalidate subscription cache", sl.Err(err))
	}

	event := events.SubscriptionEvent{
		UserID:     user.ID,
		Username:   user.Username,
		Plan:       sub.Plan,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(events.RoutingSubscriptionCancelled, event); err != nil {
		s.log.Warn("failed to publish cancellation event", sl.Err(err))
	}
	return nil
}

// List возвращает все подписки для консоли администратора.
func (s *SubscriptionService) List(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, limit, offset)
}

func (s *SubscriptionService) cacheKey(userID int) string {
	return fmt.Sprintf("subscription:active:%d", userID)
}
