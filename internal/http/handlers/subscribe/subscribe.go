package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/services/subscription"
)

// Subscriber описывает операцию оформления подписки.
type Subscriber interface {
	Subscribe(ctx context.Context, user *models.Identity, plan string) (*models.Subscription, error)
}

// New
// @Summary Оформление подписки на тариф
// @Tags subscriptions
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   subscribeRequest body models.SubscribeRequest true "Выбранный тариф"
// @Success 200 {object} models.Subscription "Подписка оформлена"
// @Failure 400 {object} response.Response "Подписка уже есть или тариф неизвестен"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /subscriptions/subscribe [post]
func New(ctx context.Context, log *slog.Logger, subscriber Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.subscribe.New"
		var req models.SubscribeRequest

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

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		log.Info("request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}
		log.Info("all fields are validated")

		sub, err := subscriber.Subscribe(ctx, identity, req.Plan)
		if err != nil {
			switch {
			case errors.Is(err, subscription.ErrSubscriptionExists):
				log.Error("subscription already exists", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("subscription already exists"))
			case errors.Is(err, subscription.ErrUnknownPlan):
				log.Error("unknown plan", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("unknown plan"))
			default:
				log.Error("failed to create subscription", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("failed to create subscription"))
			}
			return
		}

		log.Info("created new subscription", slog.Int("id", sub.ID))
		render.JSON(w, r, sub)
	}
}
