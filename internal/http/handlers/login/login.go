package login

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
	"github.com/magabrotheeeer/finconnect-portal/internal/services/auth"
)

// Authenticator описывает операцию входа по паре логин/пароль.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.User, string, error)
}

// New
// @Summary Вход пользователя и выдача JWT токена
// @Tags auth
// @Accept  json
// @Produce json
// @Param   loginRequest body models.LoginRequest true "Данные для входа"
// @Success 200 {object} response.Response "Токен выдан"
// @Failure 401 {object} response.Response "Неверный логин или пароль"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func New(ctx context.Context, log *slog.Logger, authenticator Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"
		var loginRequest models.LoginRequest

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := render.DecodeJSON(r.Body, &loginRequest); err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to decode request"))
			return
		}
		log.Info("request body decoded", slog.String("username", loginRequest.Username))

		if err := validator.New().Struct(loginRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}
		log.Info("all fields are validated")

		user, token, err := authenticator.Login(ctx, loginRequest.Username, loginRequest.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				log.Error("incorrect user or password", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("incorrect user or password"))
				return
			}
			log.Error("could not generate token", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not generate token"))
			return
		}

		log.Info("user logged in", "username", user.Username)
		render.JSON(w, r, response.StatusOKWithData(map[string]any{
			"token": token,
			"user": models.Identity{
				ID:       user.ID,
				Username: user.Username,
				Name:     user.Name,
				Role:     user.Role,
			},
		}))
	}
}
