package finance_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
	"github.com/magabrotheeeer/finconnect-portal/internal/services/finance"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTransaction(ctx context.Context, tx models.Transaction) (int, error) {
	args := m.Called(ctx, tx)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListTransactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func makeLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBalance_DeterministicPerUser(t *testing.T) {
	repo := new(RepoMock)
	service := finance.New(repo, makeLogger())

	repo.On("ListTransactions", mock.Anything, 42, 100, 0).Return([]*models.Transaction{}, nil)

	first, err := service.Balance(context.Background(), 42)
	require.NoError(t, err)
	second, err := service.Balance(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, first.Available, second.Available)
	assert.Equal(t, "FC-00000042", first.Account)
	assert.Equal(t, "USD", first.Currency)
	assert.GreaterOrEqual(t, first.Available, 2500.0)
}

func TestBalance_AppliesTransactions(t *testing.T) {
	repo := new(RepoMock)
	service := finance.New(repo, makeLogger())

	repo.On("ListTransactions", mock.Anything, 42, 100, 0).Return([]*models.Transaction{}, nil).Once()
	base, err := service.Balance(context.Background(), 42)
	require.NoError(t, err)

	repo.On("ListTransactions", mock.Anything, 42, 100, 0).Return([]*models.Transaction{
		{Type: models.TransactionCredit, Amount: 100, Status: models.TransactionCompleted},
		{Type: models.TransactionDebit, Amount: 40.5, Status: models.TransactionCompleted},
		{Type: models.TransactionDebit, Amount: 15, Status: models.TransactionPending},
	}, nil).Once()

	balance, err := service.Balance(context.Background(), 42)

	require.NoError(t, err)
	assert.InDelta(t, base.Available+100-40.5, balance.Available, 0.01)
	assert.Equal(t, 15.0, balance.Pending)
}

func TestTransfer_RecordsDebit(t *testing.T) {
	repo := new(RepoMock)
	service := finance.New(repo, makeLogger())

	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(tx models.Transaction) bool {
		return tx.UserID == 42 &&
			tx.Type == models.TransactionDebit &&
			tx.Status == models.TransactionCompleted &&
			tx.Amount == 120.0 &&
			tx.FromAccount == "FC-00000042" &&
			tx.ToAccount == "FC-00000099"
	})).Return(17, nil)

	tx, err := service.Transfer(context.Background(), 42, models.TransferRequest{
		FromAccount: "FC-00000042",
		ToAccount:   "FC-00000099",
		Amount:      120,
		Description: "demo transfer",
	})

	require.NoError(t, err)
	assert.Equal(t, 17, tx.ID)
	repo.AssertExpectations(t)
}

func TestInvoice_PlanOnly(t *testing.T) {
	repo := new(RepoMock)
	service := finance.New(repo, makeLogger())

	repo.On("ListTransactions", mock.Anything, 42, 100, 0).Return([]*models.Transaction{}, nil)

	invoice, err := service.Invoice(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, invoice.Items, 1)
	assert.Equal(t, models.Plans[models.PlanStandard].Price, invoice.Total)
	assert.Contains(t, invoice.Number, "INV-")
	assert.Equal(t, invoice.IssuedAt.AddDate(0, 0, 14), invoice.DueAt)
}

func TestInvoice_WithTransferUsage(t *testing.T) {
	repo := new(RepoMock)
	service := finance.New(repo, makeLogger())

	repo.On("ListTransactions", mock.Anything, 42, 100, 0).Return([]*models.Transaction{
		{Type: models.TransactionDebit, Amount: 10, Status: models.TransactionCompleted},
		{Type: models.TransactionDebit, Amount: 20, Status: models.TransactionCompleted},
		{Type: models.TransactionDebit, Amount: 30, Status: models.TransactionCompleted},
		{Type: models.TransactionDebit, Amount: 40, Status: models.TransactionCompleted},
	}, nil)

	invoice, err := service.Invoice(context.Background(), 42)

	require.NoError(t, err)
	require.Len(t, invoice.Items, 2)
	usage := invoice.Items[1]
	assert.Equal(t, 4, usage.Quantity)
	assert.Equal(t, 1.0, usage.Amount)
	assert.Equal(t, models.Plans[models.PlanStandard].Price+1.0, invoice.Total)
}
