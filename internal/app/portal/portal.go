// Package portal собирает HTTP-сервер портала разработчиков:
// хранилище, кеш, платежный провайдер, публикацию событий и маршруты.
package portal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/finconnect-portal/internal/cache"
	"github.com/magabrotheeeer/finconnect-portal/internal/config"
	"github.com/magabrotheeeer/finconnect-portal/internal/events"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/jwt"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/migrations"
	"github.com/magabrotheeeer/finconnect-portal/internal/paymentprovider"
	auditservice "github.com/magabrotheeeer/finconnect-portal/internal/services/audit"
	authservice "github.com/magabrotheeeer/finconnect-portal/internal/services/auth"
	billingservice "github.com/magabrotheeeer/finconnect-portal/internal/services/billing"
	financeservice "github.com/magabrotheeeer/finconnect-portal/internal/services/finance"
	subscriptionservice "github.com/magabrotheeeer/finconnect-portal/internal/services/subscription"
	"github.com/magabrotheeeer/finconnect-portal/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер портала и его зависимости.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	publisher *events.Publisher
}

// New собирает приложение портала: подключает хранилище, применяет миграции,
// инициализирует кеш, клиента платежного провайдера и публикацию событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := events.Connect(cfg.AMQPURL, 5, 2*time.Second)
	if err != nil {
		return nil, err
	}
	publisher, err := events.NewPublisher(conn, cfg.EventsExchange)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.ProviderAPIURL, cfg.PaymentProvider.SecretKey)

	authService := authservice.New(db, jwtMaker)
	subscriptionService := subscriptionservice.New(db, cacheRedis, publisher, logger)
	billingService := billingservice.New(providerClient, db, logger)
	financeService := financeservice.New(db, logger)
	auditService := auditservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		JWTMaker:      jwtMaker,
		Auth:          authService,
		Subscriptions: subscriptionService,
		Billing:       billingService,
		Finance:       financeService,
		Audit:         auditService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		publisher: publisher,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.publisher.Close(); cerr != nil {
			a.logger.Warn("failed to close events publisher", sl.Err(cerr))
		}
		if cerr := a.db.DB.Close(); cerr != nil {
			a.logger.Warn("failed to close database", sl.Err(cerr))
		}
		return err
	}
}
