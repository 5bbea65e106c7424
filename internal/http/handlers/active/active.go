package active

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

// ActiveProvider описывает операцию поиска активной подписки пользователя.
type ActiveProvider interface {
	Active(ctx context.Context, userID int) (*models.Subscription, error)
}

// New
// @Summary Активная подписка текущего пользователя
// @Tags subscriptions
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Subscription "Активная подписка"
// @Failure 404 {object} response.Response "Активной подписки нет"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /subscriptions/active [get]
func New(ctx context.Context, log *slog.Logger, provider ActiveProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.active.New"

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

		sub, err := provider.Active(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, subscription.ErrNoActiveSubscription) {
				log.Info("no active subscription", slog.Int("user_id", identity.ID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("no active subscription"))
				return
			}
			log.Error("failed to read subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
			return
		}

		log.Info("found active subscription", slog.Int("id", sub.ID))
		render.JSON(w, r, sub)
	}
}
