package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

func testUser(username, email string) models.User {
	return models.User{
		UID:          uuid.New().String(),
		Username:     username,
		Email:        email,
		Name:         "Test User",
		PasswordHash: "hashedpassword",
		Role:         models.RoleDeveloper,
	}
}

func TestStorage_RegisterUser(t *testing.T) {
	tests := []struct {
		name    string
		user    models.User
		wantErr error
		setup   func(t *testing.T, factory *TestDataFactory)
	}{
		{
			name:  "successful registration",
			user:  testUser("devuser", "dev@example.com"),
			setup: func(_ *testing.T, _ *TestDataFactory) {},
		},
		{
			name:    "duplicate username",
			user:    testUser("devuser", "other@example.com"),
			wantErr: ErrAlreadyExists,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)
			},
		},
		{
			name:    "duplicate email",
			user:    testUser("otheruser", "dev@example.com"),
			wantErr: ErrAlreadyExists,
			setup: func(t *testing.T, factory *TestDataFactory) {
				factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, factory)

			id, err := storage.RegisterUser(context.Background(), tt.user)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Positive(t, id)
			NewTestVerification(storage).VerifyUserExists(t, tt.user.Username)
		})
	}
}

func TestStorage_GetUserByUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleAdmin)

	t.Run("existing user", func(t *testing.T) {
		user, err := storage.GetUserByUsername(context.Background(), "devuser")

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		assert.Equal(t, "dev@example.com", user.Email)
		assert.Equal(t, models.RoleAdmin, user.Role)
		assert.NotEmpty(t, user.UID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := storage.GetUserByUsername(context.Background(), "ghost")

		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, "user1", "user1@example.com", models.RoleDeveloper)
	factory.CreateUser(t, "user2", "user2@example.com", models.RoleDeveloper)
	factory.CreateUser(t, "user3", "user3@example.com", models.RoleAdmin)

	users, err := storage.ListUsers(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = storage.ListUsers(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "user3", users[0].Username)
}

func TestStorage_CreateSubscription(t *testing.T) {
	startDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("successful creation", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)

		sub, err := storage.CreateSubscription(context.Background(), models.Subscription{
			UserID:    userID,
			Plan:      models.PlanStandard,
			Active:    true,
			StartDate: startDate,
		})

		require.NoError(t, err)
		assert.Positive(t, sub.ID)
		assert.True(t, sub.Active)
		assert.False(t, sub.CreatedAt.IsZero())
	})

	t.Run("second active subscription rejected by unique index", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)
		factory.CreateSubscription(t, userID, models.PlanStandard, true, startDate)

		_, err := storage.CreateSubscription(context.Background(), models.Subscription{
			UserID:    userID,
			Plan:      models.PlanStandard,
			Active:    true,
			StartDate: startDate,
		})

		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("new active subscription allowed after cancellation", func(t *testing.T) {
		storage, cleanup := setupTestDatabase(t)
		defer cleanup()

		factory := NewTestDataFactory(storage)
		userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)
		factory.CreateSubscription(t, userID, models.PlanStandard, false, startDate)

		_, err := storage.CreateSubscription(context.Background(), models.Subscription{
			UserID:    userID,
			Plan:      models.PlanStandard,
			Active:    true,
			StartDate: startDate,
		})

		require.NoError(t, err)
	})
}

func TestStorage_GetActiveSubscription(t *testing.T) {
	startDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	activeUserID := factory.CreateUser(t, "activeuser", "active@example.com", models.RoleDeveloper)
	cancelledUserID := factory.CreateUser(t, "cancelleduser", "cancelled@example.com", models.RoleDeveloper)
	subID := factory.CreateSubscription(t, activeUserID, models.PlanStandard, true, startDate)
	factory.CreateSubscription(t, cancelledUserID, models.PlanStandard, false, startDate)

	t.Run("active subscription found", func(t *testing.T) {
		sub, err := storage.GetActiveSubscription(context.Background(), activeUserID)

		require.NoError(t, err)
		assert.Equal(t, subID, sub.ID)
		assert.Equal(t, models.PlanStandard, sub.Plan)
		assert.True(t, sub.Active)
		assert.Nil(t, sub.EndDate)
	})

	t.Run("only cancelled subscription", func(t *testing.T) {
		_, err := storage.GetActiveSubscription(context.Background(), cancelledUserID)

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no subscriptions at all", func(t *testing.T) {
		userID := factory.CreateUser(t, "emptyuser", "empty@example.com", models.RoleDeveloper)

		_, err := storage.GetActiveSubscription(context.Background(), userID)

		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_CancelSubscription(t *testing.T) {
	startDate := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)
	userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)
	subID := factory.CreateSubscription(t, userID, models.PlanStandard, true, startDate)

	t.Run("successful cancellation", func(t *testing.T) {
		err := storage.CancelSubscription(context.Background(), userID, time.Now().UTC())

		require.NoError(t, err)
		verification.VerifySubscriptionInactive(t, subID)
	})

	t.Run("repeated cancellation", func(t *testing.T) {
		err := storage.CancelSubscription(context.Background(), userID, time.Now().UTC())

		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_PaymentIntents(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)
	userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)

	t.Run("create and read back", func(t *testing.T) {
		id, err := storage.CreatePaymentIntent(context.Background(), models.PaymentIntent{
			ProviderID: "pi_100",
			UserID:     userID,
			Plan:       models.PlanStandard,
			Amount:     49,
			Status:     models.PaymentStatusProcessing,
		})
		require.NoError(t, err)
		assert.Positive(t, id)

		intent, err := storage.GetPaymentIntentByProviderID(context.Background(), "pi_100")
		require.NoError(t, err)
		assert.Equal(t, userID, intent.UserID)
		assert.Equal(t, models.PlanStandard, intent.Plan)
		assert.Equal(t, models.PaymentStatusProcessing, intent.Status)
	})

	t.Run("duplicate provider id", func(t *testing.T) {
		_, err := storage.CreatePaymentIntent(context.Background(), models.PaymentIntent{
			ProviderID: "pi_100",
			UserID:     userID,
			Plan:       models.PlanStandard,
			Amount:     49,
			Status:     models.PaymentStatusProcessing,
		})

		require.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("status update", func(t *testing.T) {
		err := storage.UpdatePaymentIntentStatus(context.Background(), "pi_100", models.PaymentStatusSucceeded)

		require.NoError(t, err)
		verification.VerifyPaymentIntentStatus(t, "pi_100", models.PaymentStatusSucceeded)
	})

	t.Run("update unknown intent", func(t *testing.T) {
		err := storage.UpdatePaymentIntentStatus(context.Background(), "pi_missing", models.PaymentStatusSucceeded)

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("read unknown intent", func(t *testing.T) {
		_, err := storage.GetPaymentIntentByProviderID(context.Background(), "pi_missing")

		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStorage_Transactions(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)
	otherID := factory.CreateUser(t, "otheruser", "other@example.com", models.RoleDeveloper)
	factory.CreateTransaction(t, otherID, models.TransactionCredit, 10, models.TransactionCompleted)

	first, err := storage.CreateTransaction(context.Background(), models.Transaction{
		UserID:      userID,
		Type:        models.TransactionCredit,
		Amount:      250,
		Description: "incoming payment",
		Status:      models.TransactionCompleted,
		FromAccount: "acct_ext_001",
	})
	require.NoError(t, err)

	second, err := storage.CreateTransaction(context.Background(), models.Transaction{
		UserID:    userID,
		Type:      models.TransactionDebit,
		Amount:    75.5,
		Status:    models.TransactionPending,
		ToAccount: "acct_ext_002",
	})
	require.NoError(t, err)

	txs, err := storage.ListTransactions(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Новые записи первыми, чужие транзакции не попадают в выборку.
	assert.Equal(t, second, txs[0].ID)
	assert.Equal(t, first, txs[1].ID)
	assert.Empty(t, txs[0].Description)
	assert.Equal(t, "incoming payment", txs[1].Description)
	assert.Equal(t, "acct_ext_001", txs[1].FromAccount)
}

func TestStorage_APILogs(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userID := factory.CreateUser(t, "devuser", "dev@example.com", models.RoleDeveloper)

	for _, endpoint := range []string{"/api/v1/user", "/api/v1/finance/balance", "/api/v1/finance/transactions"} {
		_, err := storage.CreateAPILog(context.Background(), models.APILog{
			UserID:       userID,
			Endpoint:     endpoint,
			Method:       "GET",
			StatusCode:   200,
			ResponseTime: 12,
		})
		require.NoError(t, err)
	}

	entries, err := storage.ListAPILogs(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/api/v1/finance/transactions", entries[0].Endpoint)

	entries, err = storage.ListAPILogs(context.Background(), 10, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/v1/user", entries[0].Endpoint)
}
