package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/response"
	"github.com/magabrotheeeer/finconnect-portal/internal/lib/sl"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/services/subscription"
)

// SubscriptionChecker определяет проверку активной подписки пользователя.
type SubscriptionChecker interface {
	Active(ctx context.Context, userID int) (*models.Subscription, error)
}

// RequireSubscription создает middleware, пропускающий только пользователей
// с активной подпиской. Администраторы проходят без проверки.
func RequireSubscription(subscriptions SubscriptionChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			if identity.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			sub, err := subscriptions.Active(r.Context(), identity.ID)
			if err != nil {
				if errors.Is(err, subscription.ErrNoActiveSubscription) {
					log.Info("no active subscription, access denied",
						slog.String("username", identity.Username))
					w.WriteHeader(http.StatusForbidden)
					render.JSON(w, r, response.Error("active subscription required"))
					return
				}
				log.Error("failed to check subscription", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if !sub.Active {
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("active subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
