package paycreate

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
	"github.com/magabrotheeeer/finconnect-portal/internal/services/billing"
)

// IntentCreater описывает операцию создания платежного намерения.
type IntentCreater interface {
	CreateIntent(ctx context.Context, user *models.Identity, planID string) (*models.CreateIntentResponse, error)
}

// New
// @Summary Создание платежного намерения для оплаты тарифа
// @Tags billing
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   createIntentRequest body models.CreateIntentRequest true "Выбранный тариф"
// @Success 200 {object} models.CreateIntentResponse "Платежное намерение создано"
// @Failure 400 {object} response.Response "Ошибка валидации или тариф неизвестен"
// @Failure 500 {object} response.Response "Ошибка платежного провайдера"
// @Router /billing/intents [post]
func New(ctx context.Context, log *slog.Logger, creater IntentCreater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.paycreate.New"
		var req models.CreateIntentRequest

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

		result, err := creater.CreateIntent(ctx, identity, req.PlanID)
		if err != nil {
			if errors.Is(err, billing.ErrUnknownPlan) {
				log.Error("unknown plan", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("unknown plan"))
				return
			}
			log.Error("failed to create payment intent", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create payment intent"))
			return
		}

		log.Info("created payment intent", slog.String("plan", req.PlanID))
		render.JSON(w, r, result)
	}
}
