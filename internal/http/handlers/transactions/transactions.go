package transactions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// Lister описывает операцию выдачи истории транзакций.
type Lister interface {
	Transactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error)
}

// New
// @Summary История транзакций пользователя
// @Tags finance
// @Produce json
// @Security ApiKeyAuth
// @Param   limit  query int false "Число записей на страницу" default(20)
// @Param   offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response "Список транзакций"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /finance/transactions [get]
func New(ctx context.Context, log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.transactions.New"

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

		limit, offset := pagination(r)

		txs, err := lister.Transactions(ctx, identity.ID, limit, offset)
		if err != nil {
			log.Error("failed to list transactions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list transactions"))
			return
		}

		log.Info("listed transactions", slog.Int("count", len(txs)))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"count":        len(txs),
			"transactions": txs,
		}))
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
