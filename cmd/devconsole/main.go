// Демонстрационный консольный клиент портала: вход, оценка шлюза доступа
// для защищенных разделов и сверка платежа после внешней оплаты.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/finconnect-portal/internal/apiclient"
	"github.com/magabrotheeeer/finconnect-portal/internal/gate"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/reconcile"
	"github.com/magabrotheeeer/finconnect-portal/internal/session"
)

func main() {
	portalURL := flag.String("portal", "http://localhost:8080", "адрес портала")
	username := flag.String("user", "", "имя пользователя")
	password := flag.String("pass", "", "пароль")
	paymentIntent := flag.String("payment-intent", "", "идентификатор платежного намерения после оплаты")
	admin := flag.Bool("admin", false, "проверить доступ к консоли администратора")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := session.NewMemoryStore()
	client := apiclient.NewClient(*portalURL, store)

	if *username != "" {
		identity, err := client.Login(ctx, *username, *password)
		if err != nil {
			logger.Error("login failed", sl.Err(err))
			os.Exit(1)
		}
		logger.Info("logged in",
			slog.String("username", identity.Username), slog.String("role", identity.Role))
	}

	accessGate := gate.New(client, store, logger)
	requirement := gate.Requirement{RequiresSubscription: true}
	if *admin {
		requirement = gate.Requirement{RequiresAdmin: true}
	}

	navID := accessGate.StartNavigation()
	decision := accessGate.Evaluate(ctx, navID, requirement)
	logger.Info("gate decision",
		slog.String("state", decision.State.String()),
		slog.String("redirect_to", decision.RedirectTo),
		slog.String("notice", decision.Notice))

	if decision.State != gate.StateAuthorized && *paymentIntent == "" {
		return
	}

	flow := reconcile.New(client, reconcile.DefaultPolicy(), logger)
	sub, err := flow.Reconcile(ctx, *paymentIntent)
	if err != nil {
		logger.Error("reconcile interrupted", sl.Err(err))
		os.Exit(1)
	}
	if sub == nil {
		logger.Info("no active subscription resolved, proceeding to dashboard anyway")
		return
	}
	logger.Info("active subscription",
		slog.String("plan", sub.Plan), slog.Time("start_date", sub.StartDate))
}
