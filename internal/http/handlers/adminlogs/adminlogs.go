package adminlogs

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

// LogsLister описывает операцию выдачи журнала API-запросов.
type LogsLister interface {
	List(ctx context.Context, limit, offset int) ([]*models.APILog, error)
}

// New
// @Summary Журнал API-запросов портала
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param   limit  query int false "Число записей на страницу" default(50)
// @Param   offset query int false "Смещение" default(0)
// @Success 200 {object} response.Response "Записи журнала"
// @Failure 403 {object} response.Response "Требуется роль admin"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /admin/logs [get]
func New(ctx context.Context, log *slog.Logger, lister LogsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.adminlogs.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit, offset := pagination(r)

		entries, err := lister.List(ctx, limit, offset)
		if err != nil {
			log.Error("failed to list api logs", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list api logs"))
			return
		}

		log.Info("listed api logs", slog.Int("count", len(entries)))
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"count": len(entries),
			"logs":  entries,
		}))
	}
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	offset = 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
