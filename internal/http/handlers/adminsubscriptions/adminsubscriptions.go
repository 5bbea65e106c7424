package adminsubscriptions

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// SubscriptionsLister описывает операцию выдачи списка всех подписок.
type SubscriptionsLister interface {
	List(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
}

// New
// @Summary Список всех подписок портала
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param   limit  query int false "Число записей на страницу" default(20)
// @Param   offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response "Список подписок"
// @Failure 403 {object} response.Response "Требуется роль admin"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /admin/subscriptions [get]
func New(ctx context.Context, log *slog.Logger, lister SubscriptionsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.adminsubscriptions.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit, offset := pagination(r)

		subs, err := lister.List(ctx, limit, offset)
		if err != nil {
			log.Error("failed to list subscriptions", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list subscriptions"))
			return
		}

		log.Info("listed subscriptions", slog.Int("count", len(subs)))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"count":         len(subs),
			"subscriptions": subs,
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
