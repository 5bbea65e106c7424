package middlewarectx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/finconnect-portal/internal/http/middlewarectx"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/services/subscription"
)

type mockSubscriptionChecker struct {
	ActiveFunc func(ctx context.Context, userID int) (*models.Subscription, error)
	calls      int
}

func (m *mockSubscriptionChecker) Active(ctx context.Context, userID int) (*models.Subscription, error) {
	m.calls++
	return m.ActiveFunc(ctx, userID)
}

func TestRequireSubscription(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	newRequest := func(identity *models.Identity) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/finance/balance", nil)
		if identity != nil {
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.IdentityKey, identity))
		}
		return req
	}

	t.Run("active subscription passes", func(t *testing.T) {
		checker := &mockSubscriptionChecker{
			ActiveFunc: func(ctx context.Context, userID int) (*models.Subscription, error) {
				return &models.Subscription{UserID: userID, Plan: models.PlanStandard, Active: true}, nil
			},
		}
		handler := middlewarectx.RequireSubscription(checker, makeLogger())(next)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(&models.Identity{ID: 7, Username: "devuser", Role: models.RoleDeveloper}))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin bypasses lookup", func(t *testing.T) {
		checker := &mockSubscriptionChecker{
			ActiveFunc: func(ctx context.Context, userID int) (*models.Subscription, error) {
				return nil, errors.New("must not be called")
			},
		}
		handler := middlewarectx.RequireSubscription(checker, makeLogger())(next)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(&models.Identity{ID: 1, Username: "adminuser", Role: models.RoleAdmin}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, checker.calls)
	})

	t.Run("no subscription forbidden", func(t *testing.T) {
		checker := &mockSubscriptionChecker{
			ActiveFunc: func(ctx context.Context, userID int) (*models.Subscription, error) {
				return nil, subscription.ErrNoActiveSubscription
			},
		}
		handler := middlewarectx.RequireSubscription(checker, makeLogger())(next)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(&models.Identity{ID: 7, Username: "devuser", Role: models.RoleDeveloper}))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "active subscription required")
	})

	t.Run("lookup failure is not a pass", func(t *testing.T) {
		checker := &mockSubscriptionChecker{
			ActiveFunc: func(ctx context.Context, userID int) (*models.Subscription, error) {
				return nil, errors.New("storage down")
			},
		}
		handler := middlewarectx.RequireSubscription(checker, makeLogger())(next)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(&models.Identity{ID: 7, Username: "devuser", Role: models.RoleDeveloper}))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("missing identity", func(t *testing.T) {
		checker := &mockSubscriptionChecker{
			ActiveFunc: func(ctx context.Context, userID int) (*models.Subscription, error) {
				return nil, nil
			},
		}
		handler := middlewarectx.RequireSubscription(checker, makeLogger())(next)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newRequest(nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
