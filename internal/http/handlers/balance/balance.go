package balance

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// BalanceProvider описывает операцию выдачи демонстрационного баланса.
type BalanceProvider interface {
	Balance(ctx context.Context, userID int) (*models.Balance, error)
}

// New
// @Summary Баланс демонстрационного счета
// @Tags finance
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Balance "Состояние счета"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /finance/balance [get]
func New(ctx context.Context, log *slog.Logger, provider BalanceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.balance.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		identity, ok := middlewarectx.IdentityFromContext(r.Context())
		if !ok {
			log.Error("user identification missing")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user identification missing"))
			return
		}

		result, err := provider.Balance(ctx, identity.ID)
		if err != nil {
			log.Error("failed to read balance", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to read balance"))
			return
		}

		log.Info("read balance", slog.String("account", result.Account))
		render.JSON(w, r, result)
	}
}
