package whoami

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
)

// New
// @Summary Текущий пользователь по токену
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.Identity "Личность пользователя"
// @Failure 401 {object} response.Response "Токен отсутствует или недействителен"
// @Router /user [get]
func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.whoami.New"

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

		log.Info("resolved identity", slog.String("username", identity.Username))
		render.JSON(w, r, identity)
	}
}
