package models

import "time"

// Статусы платежного намерения, которые возвращает платежный провайдер.
const (
	PaymentStatusRequiresAction = "requires_action"
	PaymentStatusProcessing     = "processing"
	PaymentStatusSucceeded      = "succeeded"
	PaymentStatusFailed         = "failed"
)

// PaymentIntent — локальная запись о платежном намерении, созданном
// для оформления подписки. ProviderID — идентификатор на стороне провайдера.
type PaymentIntent struct {
	ID         int       `json:"id"`
	ProviderID string    `json:"provider_id"`
	UserID     int       `json:"user_id"`
	Plan       string    `json:"plan"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateIntentRequest используется для приема запроса на создание платежа.
type CreateIntentRequest struct {
	PlanID string `json:"planId" validate:"required"`
}

// CreateIntentResponse отдается клиенту для инициализации платежной формы.
type CreateIntentResponse struct {
	ClientSecret string  `json:"clientSecret"`
	PlanName     string  `json:"planName"`
	PlanPrice    float64 `json:"planPrice"`
}

// PaymentStatus — ответ на запрос статуса платежа по payment_intent.
type PaymentStatus struct {
	Status string `json:"status"`
	Plan   string `json:"plan,omitempty"`
}
