package paymentprovider

import "time"

// CreateIntentRequest — запрос на создание платежного намерения.
// Сумма передается в минимальных единицах валюты (центах).
type CreateIntentRequest struct {
	Amount      int64             `json:"amount" validate:"required,gt=0"`
	Currency    string            `json:"currency" validate:"required"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Intent — платежное намерение на стороне провайдера.
// Status принимает значения requires_action, processing, succeeded, failed.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
