package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/storage/repository"
)

// Registration описывает операцию регистрации нового разработчика.
type Registration interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error)
}

// New
// @Summary Регистрация нового пользователя портала
// @Tags auth
// @Accept  json
// @Produce json
// @Param   registerRequest body models.RegisterRequest true "Данные для регистрации"
// @Success 200 {object} response.Response "Пользователь создан, выдан токен"
// @Failure 400 {object} response.Response "Ошибка валидации или имя занято"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func New(ctx context.Context, log *slog.Logger, registration Registration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"
		var registerRequest models.RegisterRequest

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := render.DecodeJSON(r.Body, &registerRequest); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		log.Info("request body decoded", slog.String("username", registerRequest.Username))

		if err := validator.New().Struct(registerRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}
		log.Info("all fields are validated")

		user, token, err := registration.Register(ctx, registerRequest)
		if err != nil {
			if errors.Is(err, repository.ErrAlreadyExists) {
				log.Error("username already taken", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("username already taken"))
				return
			}
			log.Error("failed to register new user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register new user"))
			return
		}

		log.Info("created new user", "username", user.Username)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"user":  user,
			"token": token,
		}))
	}
}
