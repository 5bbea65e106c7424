package paystatus

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
	"github.com/magabrotheeeer/finconnect-portal/internal/services/billing"
)

// StatusProvider описывает операцию сверки статуса платежного намерения.
type StatusProvider interface {
	Status(ctx context.Context, user *models.Identity, providerID string) (*models.PaymentStatus, error)
}

// New
// @Summary Статус платежного намерения
// @Tags billing
// @Produce json
// @Security ApiKeyAuth
// @Param   payment_intent query string true "Идентификатор платежного намерения"
// @Success 200 {object} models.PaymentStatus "Статус платежа"
// @Failure 404 {object} response.Response "Платежное намерение не найдено"
// @Failure 500 {object} response.Response "Ошибка платежного провайдера"
// @Router /billing/intents/status [get]
func New(ctx context.Context, log *slog.Logger, provider StatusProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.paystatus.New"

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

		providerID := r.URL.Query().Get("payment_intent")
		if providerID == "" {
			log.Error("missing payment_intent query parameter")
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("missing payment_intent query parameter"))
			return
		}

		status, err := provider.Status(ctx, identity, providerID)
		if err != nil {
			if errors.Is(err, billing.ErrIntentNotFound) {
				log.Info("payment intent not found", slog.String("provider_id", providerID))
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("payment intent not found"))
				return
			}
			log.Error("failed to check payment status", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to check payment status"))
			return
		}

		log.Info("checked payment status", slog.String("status", status.Status))
		render.JSON(w, r, status)
	}
}
