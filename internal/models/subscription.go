package models

import "time"

// PlanStandard — единственный тариф портала в текущей версии продукта.
// Перечень расширяемый: новые тарифы добавляются в Plans.
const PlanStandard = "standard"

// Plan описывает тарифный план портала.
type Plan struct {
	ID    string  `json:"id"`    // Идентификатор тарифа
	Name  string  `json:"name"`  // Отображаемое название
	Price float64 `json:"price"` // Цена в долларах за месяц
}

// Plans — справочник доступных тарифов.
var Plans = map[string]Plan{
	PlanStandard: {ID: PlanStandard, Name: "Standard", Price: 49},
}

// Subscription представляет подписку пользователя на доступ к API.
// EndDate равен nil, пока подписка не отменена.
type Subscription struct {
	ID        int        `json:"id"`
	UserID    int        `json:"user_id"`
	Plan      string     `json:"plan"`
	Active    bool       `json:"active"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// SubscribeRequest используется для приема запроса на оформление подписки.
type SubscribeRequest struct {
	Plan string `json:"plan" validate:"required"`
}
