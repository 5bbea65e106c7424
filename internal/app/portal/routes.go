package portal

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/active"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/adminlogs"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/adminsubscriptions"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/adminusers"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/balance"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/cancel"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/invoice"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/login"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/paycreate"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/paystatus"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/register"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/subscribe"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/transactions"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/transfer"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/handlers/whoami"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/jwt"
	auditservice "github.com/magabrotheeeer/finconnect-portal/internal/services/audit"
	authservice "github.com/magabrotheeeer/finconnect-portal/internal/services/auth"
	billingservice "github.com/magabrotheeeer/finconnect-portal/internal/services/billing"
	financeservice "github.com/magabrotheeeer/finconnect-portal/internal/services/finance"
	subscriptionservice "github.com/magabrotheeeer/finconnect-portal/internal/services/subscription"
)

// Services объединяет зависимости маршрутов портала.
type Services struct {
	JWTMaker      jwt.Maker
	Auth          *authservice.AuthService
	Subscriptions *subscriptionservice.SubscriptionService
	Billing       *billingservice.BillingService
	Finance       *financeservice.FinanceService
	Audit         *auditservice.AuditService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc *Services) {
	ctx := context.Background()

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(ctx, logger, svc.Auth))
		r.Post("/auth/login", login.New(ctx, logger, svc.Auth))

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svc.JWTMaker, svc.Auth, logger))
			r.Use(middlewarectx.RequestLogMiddleware(svc.Audit))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/user", whoami.New(logger))

			r.Get("/subscriptions/active", active.New(ctx, logger, svc.Subscriptions))
			r.Post("/subscriptions/subscribe", subscribe.New(ctx, logger, svc.Subscriptions))
			r.Post("/subscriptions/cancel", cancel.New(ctx, logger, svc.Subscriptions))

			r.Post("/billing/intents", paycreate.New(ctx, logger, svc.Billing))
			r.Get("/billing/intents/status", paystatus.New(ctx, logger, svc.Billing))

			// Демонстрационные финансовые данные доступны только по подписке
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireSubscription(svc.Subscriptions, logger))
				r.Get("/finance/balance", balance.New(ctx, logger, svc.Finance))
				r.Post("/finance/transfer", transfer.New(ctx, logger, svc.Finance))
				r.Get("/finance/transactions", transactions.New(ctx, logger, svc.Finance))
				r.Get("/finance/invoice", invoice.New(ctx, logger, svc.Finance))
			})

			// Консоль администратора
			r.Route("/admin", func(r chi.Router) {
				r.Use(middlewarectx.RequireAdmin(logger))
				r.Get("/users", adminusers.New(ctx, logger, svc.Auth))
				r.Get("/subscriptions", adminsubscriptions.New(ctx, logger, svc.Subscriptions))
				r.Get("/logs", adminlogs.New(ctx, logger, svc.Audit))
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
