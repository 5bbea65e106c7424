package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/services/subscription"
)

// Canceller описывает операцию отмены активной подписки.
type Canceller interface {
	Cancel(ctx context.Context, user *models.Identity) error
}

// New
// @Summary Отмена активной подписки
// @Tags subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} response.Response "Подписка отменена"
// @Failure 404 {object} response.Response "Активной подписки нет"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /subscriptions/cancel [post]
func New(ctx context.Context, log *slog.Logger, canceller Canceller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.cancel.New"

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

		if err := canceller.Cancel(ctx, identity); err != nil {
			if errors.Is(err, subscription.ErrNoActiveSubscription) {
				log.Info("no active subscription", slog.Int("user_id", identity.ID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("no active subscription"))
				return
			}
			log.Error("failed to cancel subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel subscription"))
			return
		}

		log.Info("cancelled subscription", slog.Int("user_id", identity.ID))
		render.JSON(w, r, response.StatusOKWithData(nil))
	}
}
