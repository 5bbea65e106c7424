package models

import "time"

// APILog — запись журнала обращений к защищенным конечным точкам.
// Заполняется middleware и просматривается в консоли администратора.
type APILog struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	StatusCode   int       `json:"status_code"`
	ResponseTime int       `json:"response_time"` // Длительность обработки, мс
	Timestamp    time.Time `json:"timestamp"`
}
