package transfer

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// Transferrer описывает операцию демонстрационного перевода.
type Transferrer interface {
	Transfer(ctx context.Context, userID int, req models.TransferRequest) (*models.Transaction, error)
}

// New
// @Summary Демонстрационный перевод между счетами
// @Tags finance
// @Accept  json
// @Produce json
// @Security ApiKeyAuth
// @Param   transferRequest body models.TransferRequest true "Параметры перевода"
// @Success 200 {object} models.Transaction "Записанная транзакция"
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /finance/transfer [post]
func New(ctx context.Context, log *slog.Logger, transferrer Transferrer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transfer.New"
		var req models.TransferRequest

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

		tx, err := transferrer.Transfer(ctx, identity.ID, req)
		if err != nil {
			log.Error("failed to make transfer", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to make transfer"))
			return
		}

		log.Info("recorded transfer", slog.Int("id", tx.ID))
		render.JSON(w, r, tx)
	}
}
