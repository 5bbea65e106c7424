package invoice

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

// InvoiceProvider описывает операцию формирования счета за текущий месяц.
type InvoiceProvider interface {
	Invoice(ctx context.Context, userID int) (*models.Invoice, error)
}

// New
// @Summary Счет за пользование API за текущий месяц
// @Tags finance
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Invoice "Сформированный счет"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /finance/invoice [get]
func New(ctx context.Context, log *slog.Logger, provider InvoiceProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.invoice.New"

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

		result, err := provider.Invoice(ctx, identity.ID)
		if err != nil {
			log.Error("failed to build invoice", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to build invoice"))
			return
		}

		log.Info("built invoice", slog.String("number", result.Number))
		render.JSON(w, r, result)
	}
}
