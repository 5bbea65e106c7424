// Package gate реализует шлюз доступа к защищенным разделам портала.
//
// Шлюз оценивается на каждой навигации: проверяет наличие токена, разрешает
// личность, роль и при необходимости активную подписку, и возвращает решение
// о рендере в виде значения. Побочные эффекты ограничены очисткой токена
// при ошибке аутентификации; переходы выполняет вызывающий код.
//
// Политика отказобезопасности: любая ошибка сети или разбора ответа
// сводится к запрещающему состоянию, шлюз никогда не пропускает ошибку
// в авторизованный рендер.
package gate

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/magabrotheeeer/finconnect-portal/internal/apiclient"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/session"
)

// State — терминальное состояние оценки шлюза.
type State int

// Состояния шлюза. Checking — промежуточное, остальные терминальные.
const (
	StateChecking State = iota
	StateAuthorized
	StateUnauthenticated
	StateForbiddenRole
	StateForbiddenSubscription
)

// String возвращает имя состояния для логов.
func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthorized:
		return "authorized"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateForbiddenRole:
		return "forbidden_role"
	case StateForbiddenSubscription:
		return "forbidden_subscription"
	default:
		return "unknown"
	}
}

// Маршруты перенаправления для запрещающих состояний.
const (
	RedirectLogin   = "/login"
	RedirectHome    = "/"
	RedirectPricing = "/pricing"
)

// defaultNoticeDelay — задержка перед перенаправлением на страницу тарифов,
// чтобы пользователь успел увидеть уведомление. Не несет смысловой нагрузки.
const defaultNoticeDelay = 1500 * time.Millisecond

// Requirement — статические требования защищенного раздела.
type Requirement struct {
	RequiresAdmin        bool
	RequiresSubscription bool
}

// Decision — решение шлюза для одной навигации. Значение без побочных
// эффектов: адаптер навигации превращает его в реальное перенаправление.
type Decision struct {
	State         State
	RedirectTo    string
	Notice        string
	RedirectAfter time.Duration
	Identity      *models.Identity
	Subscription  *models.Subscription
	// Superseded выставляется, если за время оценки началась новая навигация.
	// Такое решение отбрасывается без рендера.
	Superseded bool
}

// API описывает операции внешнего API, которые использует шлюз.
type API interface {
	Me(ctx context.Context) (*models.Identity, error)
	ActiveSubscription(ctx context.Context) (*models.Subscription, error)
}

// Gate — шлюз доступа. Хранилище сеанса разделяется с API-клиентом.
type Gate struct {
	api         API
	session     session.Store
	log         *slog.Logger
	noticeDelay time.Duration
	nav         atomic.Uint64
}

// Option настраивает шлюз при создании.
type Option func(*Gate)

// WithNoticeDelay задает задержку перед перенаправлением на страницу тарифов.
func WithNoticeDelay(d time.Duration) Option {
	return func(g *Gate) {
		g.noticeDelay = d
	}
}

// New создает шлюз доступа.
func New(api API, store session.Store, log *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		api:         api,
		session:     store,
		log:         log,
		noticeDelay: defaultNoticeDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// StartNavigation регистрирует новую навигацию и возвращает её идентификатор.
// Оценки, начатые для предыдущих навигаций, будут отброшены как устаревшие.
func (g *Gate) StartNavigation() uint64 {
	return g.nav.Add(1)
}

// Evaluate оценивает требования раздела для навигации navID и возвращает
// решение о рендере. Выполняет не более двух последовательных сетевых
// вызовов: личность, затем при необходимости подписка.
func (g *Gate) Evaluate(ctx context.Context, navID uint64, req Requirement) Decision {
	const op = "gate.Evaluate"
	log := g.log.With(slog.String("op", op), slog.Uint64("nav_id", navID))

	if _, ok := g.session.Token(); !ok {
		log.Info("no session token", slog.String("state", StateUnauthenticated.String()))
		return Decision{State: StateUnauthenticated, RedirectTo: RedirectLogin}
	}

	identity, err := g.api.Me(ctx)
	if stale := g.superseded(navID); stale != nil {
		return *stale
	}
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthorized) {
			// Токен отвергнут сервером, сохранять его бессмысленно.
			g.session.Clear()
			log.Info("token rejected, session cleared")
		} else {
			log.Error("identity request failed", sl.Err(err))
		}
		return Decision{State: StateUnauthenticated, RedirectTo: RedirectLogin}
	}

	if identity.IsAdmin() {
		// Роль admin удовлетворяет любое требование подписки,
		// проверка подписки не выполняется.
		log.Info("admin bypass", slog.String("username", identity.Username))
		return Decision{State: StateAuthorized, Identity: identity}
	}

	if req.RequiresAdmin {
		log.Info("admin role required", slog.String("role", identity.Role))
		return Decision{State: StateForbiddenRole, RedirectTo: RedirectHome, Identity: identity}
	}

	if !req.RequiresSubscription {
		return Decision{State: StateAuthorized, Identity: identity}
	}

	sub, err := g.api.ActiveSubscription(ctx)
	if stale := g.superseded(navID); stale != nil {
		return *stale
	}
	if err != nil {
		if !errors.Is(err, apiclient.ErrNotFound) && !errors.Is(err, apiclient.ErrForbidden) {
			log.Error("subscription lookup failed", sl.Err(err))
		}
		return g.forbiddenSubscription(identity)
	}
	if !sub.Active {
		return g.forbiddenSubscription(identity)
	}

	log.Info("authorized", slog.String("username", identity.Username), slog.String("plan", sub.Plan))
	return Decision{State: StateAuthorized, Identity: identity, Subscription: sub}
}

func (g *Gate) forbiddenSubscription(identity *models.Identity) Decision {
	return Decision{
		State:         StateForbiddenSubscription,
		RedirectTo:    RedirectPricing,
		Notice:        "active subscription required",
		RedirectAfter: g.noticeDelay,
		Identity:      identity,
	}
}

// superseded возвращает решение-заглушку, если навигация navID уже не текущая.
func (g *Gate) superseded(navID uint64) *Decision {
	if g.nav.Load() != navID {
		return &Decision{State: StateChecking, Superseded: true}
	}
	return nil
}
