// Package reconcile реализует сверку платежа с состоянием подписки после
// возврата из внешней оплаты. Подтверждение платежа и создание записи
// о подписке разнесены во времени, поток закрывает этот разрыв повторными
// попытками с фиксированной задержкой.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/finconnect-portal/internal/apiclient"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// Policy — бюджет повторных попыток сверки. Задержка выдерживается
// перед каждой попыткой, включая первую.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultPolicy возвращает бюджет сверки по умолчанию.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Delay:       1500 * time.Millisecond,
	}
}

// API описывает операции внешнего API, которые использует поток сверки.
type API interface {
	ActiveSubscription(ctx context.Context) (*models.Subscription, error)
	Subscribe(ctx context.Context, plan string) (*models.Subscription, error)
	PaymentIntentStatus(ctx context.Context, providerID string) (*models.PaymentStatus, error)
}

// SleepFunc выдерживает паузу с учетом контекста. Подменяется в тестах.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Flow — поток сверки платежа.
type Flow struct {
	api    API
	policy Policy
	sleep  SleepFunc
	log    *slog.Logger
}

// Option настраивает поток сверки при создании.
type Option func(*Flow)

// WithSleep подменяет функцию паузы между попытками.
func WithSleep(sleep SleepFunc) Option {
	return func(f *Flow) {
		f.sleep = sleep
	}
}

// New создает поток сверки с указанным бюджетом попыток.
func New(api API, policy Policy, log *slog.Logger, opts ...Option) *Flow {
	f := &Flow{
		api:    api,
		policy: policy,
		sleep:  sleepContext,
		log:    log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Reconcile сверяет платеж providerID с состоянием подписки.
//
// Пустой providerID означает прямой переход без оплаты: выполняется один
// запрос активной подписки, результат возвращается как есть. Иначе статус
// платежа опрашивается в пределах бюджета попыток; статус succeeded ведет
// к идемпотентному оформлению подписки и проверке её активности.
//
// Исчерпание бюджета не является ошибкой: возвращается nil без ошибки,
// вызывающий код продолжает работу в расчете на отложенную консистентность.
// Ошибка возвращается только при отмене контекста.
func (f *Flow) Reconcile(ctx context.Context, providerID string) (*models.Subscription, error) {
	const op = "reconcile.Reconcile"
	log := f.log.With(slog.String("op", op))

	if providerID == "" {
		sub, err := f.api.ActiveSubscription(ctx)
		if err != nil {
			if !isNoSubscription(err) {
				log.Error("subscription lookup failed", sl.Err(err))
			}
			return nil, nil
		}
		return sub, nil
	}

	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		if err := f.sleep(ctx, f.policy.Delay); err != nil {
			return nil, err
		}

		status, err := f.api.PaymentIntentStatus(ctx, providerID)
		if err != nil {
			// Любая ошибка опроса считается повторяемой.
			log.Error("payment status request failed", slog.Int("attempt", attempt), sl.Err(err))
			continue
		}
		log.Info("payment status", slog.Int("attempt", attempt), slog.String("status", status.Status))

		if status.Status != models.PaymentStatusSucceeded {
			continue
		}

		plan := status.Plan
		if plan == "" {
			plan = models.PlanStandard
		}
		if _, err := f.api.Subscribe(ctx, plan); err != nil {
			if errors.Is(err, apiclient.ErrAlreadyExists) {
				// Подписка уже оформлена, это ожидаемый исход.
				log.Info("subscription already exists", slog.Int("attempt", attempt))
			} else {
				log.Error("subscribe request failed", slog.Int("attempt", attempt), sl.Err(err))
			}
		}

		sub, err := f.api.ActiveSubscription(ctx)
		if err != nil {
			if !isNoSubscription(err) {
				log.Error("subscription lookup failed", slog.Int("attempt", attempt), sl.Err(err))
			}
			continue
		}
		if sub.Active {
			return sub, nil
		}
	}

	log.Warn("retry budget exhausted", slog.String("provider_id", providerID))
	return nil, nil
}

func isNoSubscription(err error) bool {
	return errors.Is(err, apiclient.ErrNotFound) || errors.Is(err, apiclient.ErrForbidden)
}

// sleepContext выдерживает паузу d или прерывается отменой контекста.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
