// Package finance генерирует демонстрационные финансовые данные портала:
// баланс, переводы, историю транзакций и счет за пользование API.
// Данные детерминированы по пользователю, реальные деньги не двигаются.
package finance

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/magabrotheeeer/finconnect-portal/internal/models"
)

// TransactionRepository определяет методы для работы с транзакциями в хранилище.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (int, error)
	ListTransactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error)
}

// FinanceService реализует демонстрационные финансовые операции.
type FinanceService struct {
	repo TransactionRepository
	log  *slog.Logger
}

// New создает новый экземпляр FinanceService.
func New(repo TransactionRepository, log *slog.Logger) *FinanceService {
	return &FinanceService{
		repo: repo,
		log:  log,
	}
}

// Balance возвращает состояние демонстрационного счета пользователя.
// Базовая сумма детерминирована по ID пользователя.
func (s *FinanceService) Balance(ctx context.Context, userID int) (*models.Balance, error) {
	const op = "finance.Balance"

	rnd := rand.New(rand.NewSource(int64(userID)))
	base := 2500 + rnd.Float64()*15000

	txs, err := s.repo.ListTransactions(ctx, userID, 100, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var pending float64
	for _, tx := range txs {
		switch {
		case tx.Status == models.TransactionPending:
			pending += tx.Amount
		case tx.Status == models.TransactionCompleted && tx.Type == models.TransactionDebit:
			base -= tx.Amount
		case tx.Status == models.TransactionCompleted && tx.Type == models.TransactionCredit:
			base += tx.Amount
		}
	}

	return &models.Balance{
		Account:   demoAccount(userID),
		Available: roundCents(base),
		Pending:   roundCents(pending),
		Currency:  "USD",
		UpdatedAt: time.Now().UTC(),
	}, nil
}

// Transfer выполняет демонстрационный перевод: записывает дебетовую транзакцию
// и возвращает её. Средства нигде реально не списываются.
func (s *FinanceService) Transfer(ctx context.Context, userID int, req models.TransferRequest) (*models.Transaction, error) {
	const op = "finance.Transfer"

	tx := models.Transaction{
		UserID:      userID,
		Type:        models.TransactionDebit,
		Amount:      req.Amount,
		Description: req.Description,
		Status:      models.TransactionCompleted,
		FromAccount: req.FromAccount,
		ToAccount:   req.ToAccount,
		CreatedAt:   time.Now().UTC(),
	}
	id, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tx.ID = id
	s.log.Info("recorded demo transfer", slog.Int("id", id), slog.Int("user_id", userID))
	return &tx, nil
}

// Transactions возвращает историю транзакций пользователя с пагинацией.
func (s *FinanceService) Transactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, limit, offset)
}

// Invoice формирует счет за пользование API за текущий месяц.
func (s *FinanceService) Invoice(ctx context.Context, userID int) (*models.Invoice, error) {
	const op = "finance.Invoice"

	txs, err := s.repo.ListTransactions(ctx, userID, 100, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	plan := models.Plans[models.PlanStandard]
	items := []models.InvoiceItem{
		{
			Description: fmt.Sprintf("%s plan, monthly", plan.Name),
			Quantity:    1,
			UnitPrice:   plan.Price,
			Amount:      plan.Price,
		},
	}
	if n := len(txs); n > 0 {
		const perTransfer = 0.25
		items = append(items, models.InvoiceItem{
			Description: "API transfers",
			Quantity:    n,
			UnitPrice:   perTransfer,
			Amount:      roundCents(float64(n) * perTransfer),
		})
	}

	var total float64
	for _, item := range items {
		total += item.Amount
	}

	return &models.Invoice{
		Number:   fmt.Sprintf("INV-%s-%06d", now.Format("200601"), userID),
		UserID:   userID,
		IssuedAt: now,
		DueAt:    now.AddDate(0, 0, 14),
		Items:    items,
		Total:    roundCents(total),
	}, nil
}

func demoAccount(userID int) string {
	return fmt.Sprintf("FC-%08d", userID)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
