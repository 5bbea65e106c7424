// Package models содержит доменные структуры портала FinConnect:
// пользователей, подписки, демонстрационные финансовые данные и журнал
// API-запросов. Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей портала.
const (
	// RoleDeveloper — роль по умолчанию при регистрации.
	RoleDeveloper = "developer"
	// RoleAdmin — роль администратора, обходит требование подписки.
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя портала.
type User struct {
	ID           int       `json:"id"`       // Числовой идентификатор пользователя
	UID          string    `json:"uid"`      // Внешний UUID пользователя
	Username     string    `json:"username"` // Имя пользователя (уникальное)
	Email        string    `json:"email"`    // Электронная почта (уникальная)
	Name         string    `json:"name"`     // Отображаемое имя
	PasswordHash string    `json:"-"`        // Хэш пароля, наружу не отдается
	Role         string    `json:"role"`     // developer или admin
	CreatedAt    time.Time `json:"created_at"`
}

// Identity — представление аутентифицированного пользователя,
// которое отдает /user и потребляет клиентское ядро (Access Gate).
type Identity struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// IsAdmin сообщает, обладает ли пользователь административной ролью.
func (i *Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RegisterRequest используется для приема данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,alphanum"` // Имя пользователя
	Email    string `json:"email" validate:"required,email"`       // Электронная почта
	Name     string `json:"name" validate:"required"`              // Отображаемое имя
	Password string `json:"password" validate:"required,min=6"`    // Пароль, не короче 6 символов
}

// LoginRequest используется для приема учетных данных из JSON-запроса.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
