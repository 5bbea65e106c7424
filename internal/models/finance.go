package models

import "time"

// Типы и статусы демонстрационных транзакций.
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"

	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
)

// Balance — состояние демонстрационного счета пользователя.
type Balance struct {
	Account   string    `json:"account"`
	Available float64   `json:"available"`
	Pending   float64   `json:"pending"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Transaction — движение средств по демонстрационному счету.
type Transaction struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Type        string    `json:"type"`   // credit или debit
	Amount      float64   `json:"amount"` // Сумма в валюте счета
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"` // pending, completed, failed
	FromAccount string    `json:"from_account,omitempty"`
	ToAccount   string    `json:"to_account,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransferRequest используется для приема запроса на демонстрационный перевод.
type TransferRequest struct {
	FromAccount string  `json:"fromAccount" validate:"required"`
	ToAccount   string  `json:"toAccount" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description,omitempty" validate:"omitempty"`
}

// Invoice — сгенерированный счет за пользование API.
type Invoice struct {
	Number   string        `json:"number"`
	UserID   int           `json:"user_id"`
	IssuedAt time.Time     `json:"issued_at"`
	DueAt    time.Time     `json:"due_at"`
	Items    []InvoiceItem `json:"items"`
	Total    float64       `json:"total"`
}

// InvoiceItem — строка счета.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}
