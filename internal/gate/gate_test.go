package gate_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finconnect-portal/internal/apiclient"
	"github.com/magabrotheeeer/finconnect-portal/internal/gate"
	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/session"
)

type mockAPI struct {
	meFunc   func(ctx context.Context) (*models.Identity, error)
	subFunc  func(ctx context.Context) (*models.Subscription, error)
	meCalls  int
	subCalls int
}

func (m *mockAPI) Me(ctx context.Context) (*models.Identity, error) {
	m.meCalls++
	return m.meFunc(ctx)
}

func (m *mockAPI) ActiveSubscription(ctx context.Context) (*models.Subscription, error) {
	m.subCalls++
	return m.subFunc(ctx)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func developerIdentity() *models.Identity {
	return &models.Identity{ID: 7, Username: "devuser", Role: models.RoleDeveloper}
}

func adminIdentity() *models.Identity {
	return &models.Identity{ID: 1, Username: "adminuser", Role: models.RoleAdmin}
}

func storeWithToken() *session.MemoryStore {
	store := session.NewMemoryStore()
	store.SetToken("token-value")
	return store
}

func TestEvaluate_AdminBypassesSubscriptionCheck(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return adminIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			t.Fatal("subscription lookup must not be called for admin")
			return nil, nil
		},
	}
	g := gate.New(api, storeWithToken(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	assert.Equal(t, gate.StateAuthorized, decision.State)
	assert.Equal(t, 0, api.subCalls)
}

func TestEvaluate_NonAdminOnAdminRoute(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return developerIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			t.Fatal("subscription lookup must not be called on role mismatch")
			return nil, nil
		},
	}
	g := gate.New(api, storeWithToken(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresAdmin:        true,
		RequiresSubscription: true,
	})

	assert.Equal(t, gate.StateForbiddenRole, decision.State)
	assert.Equal(t, gate.RedirectHome, decision.RedirectTo)
	assert.Equal(t, 0, api.subCalls)
}

func TestEvaluate_NoTokenNoNetworkCalls(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			t.Fatal("identity must not be requested without a token")
			return nil, nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			t.Fatal("subscription must not be requested without a token")
			return nil, nil
		},
	}
	g := gate.New(api, session.NewMemoryStore(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	assert.Equal(t, gate.StateUnauthenticated, decision.State)
	assert.Equal(t, gate.RedirectLogin, decision.RedirectTo)
	assert.Equal(t, 0, api.meCalls)
	assert.Equal(t, 0, api.subCalls)
}

func TestEvaluate_NoSubscriptionRequired(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return developerIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			return nil, apiclient.ErrNotFound
		},
	}
	g := gate.New(api, storeWithToken(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{})

	assert.Equal(t, gate.StateAuthorized, decision.State)
	assert.Equal(t, 0, api.subCalls)
}

func TestEvaluate_SubscriptionMissing(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return developerIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			return nil, apiclient.ErrNotFound
		},
	}
	noticeDelay := 42 * time.Millisecond
	g := gate.New(api, storeWithToken(), makeLogger(), gate.WithNoticeDelay(noticeDelay))

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	assert.Equal(t, gate.StateForbiddenSubscription, decision.State)
	assert.Equal(t, gate.RedirectPricing, decision.RedirectTo)
	assert.NotEmpty(t, decision.Notice)
	assert.Equal(t, noticeDelay, decision.RedirectAfter)
	assert.Equal(t, 1, api.subCalls)
}

func TestEvaluate_SubscriptionLookupTransportError(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return developerIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			return nil, errors.New("connection refused")
		},
	}
	g := gate.New(api, storeWithToken(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	assert.Equal(t, gate.StateForbiddenSubscription, decision.State)
}

func TestEvaluate_InactiveSubscription(t *testing.T) {
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return developerIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			return &models.Subscription{Plan: models.PlanStandard, Active: false}, nil
		},
	}
	g := gate.New(api, storeWithToken(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	assert.Equal(t, gate.StateForbiddenSubscription, decision.State)
}

func TestEvaluate_ActiveSubscription(t *testing.T) {
	sub := &models.Subscription{ID: 3, Plan: models.PlanStandard, Active: true, StartDate: time.Now()}
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return developerIdentity(), nil
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			return sub, nil
		},
	}
	g := gate.New(api, storeWithToken(), makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	require.Equal(t, gate.StateAuthorized, decision.State)
	assert.Equal(t, sub, decision.Subscription)
	assert.Equal(t, "devuser", decision.Identity.Username)
}

func TestEvaluate_RejectedTokenClearedAndNotReused(t *testing.T) {
	store := storeWithToken()
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return nil, apiclient.ErrUnauthorized
		},
		subFunc: func(ctx context.Context) (*models.Subscription, error) {
			return nil, apiclient.ErrNotFound
		},
	}
	g := gate.New(api, store, makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{})
	assert.Equal(t, gate.StateUnauthenticated, decision.State)

	_, ok := store.Token()
	assert.False(t, ok, "token must be cleared after an authentication failure")

	// Повторная оценка в том же сеансе не использует очищенный токен.
	decision = g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{})
	assert.Equal(t, gate.StateUnauthenticated, decision.State)
	assert.Equal(t, 1, api.meCalls)
}

func TestEvaluate_TransportErrorKeepsToken(t *testing.T) {
	store := storeWithToken()
	api := &mockAPI{
		meFunc: func(ctx context.Context) (*models.Identity, error) {
			return nil, errors.New("connection refused")
		},
	}
	g := gate.New(api, store, makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{})

	assert.Equal(t, gate.StateUnauthenticated, decision.State)
	_, ok := store.Token()
	assert.True(t, ok, "transport errors must not clear the token")
}

func TestEvaluate_StaleNavigationSuperseded(t *testing.T) {
	var g *gate.Gate
	api := &mockAPI{}
	store := storeWithToken()
	api.meFunc = func(ctx context.Context) (*models.Identity, error) {
		// Новая навигация стартует, пока запрос личности еще в полете.
		g.StartNavigation()
		return developerIdentity(), nil
	}
	api.subFunc = func(ctx context.Context) (*models.Subscription, error) {
		t.Fatal("stale evaluation must stop before the subscription lookup")
		return nil, nil
	}
	g = gate.New(api, store, makeLogger())

	decision := g.Evaluate(context.Background(), g.StartNavigation(), gate.Requirement{
		RequiresSubscription: true,
	})

	assert.True(t, decision.Superseded)
	assert.Equal(t, gate.StateChecking, decision.State)
	assert.Equal(t, 0, api.subCalls)
}
