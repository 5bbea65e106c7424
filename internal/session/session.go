// Package session хранит токен сеанса клиента портала. Хранилище передается
// явной зависимостью шлюзу доступа и API-клиенту, глобального состояния нет.
package session

import "sync"

// Store описывает хранилище токена сеанса. Токен записывается при входе,
// читается перед каждым запросом и очищается при выходе или ошибке аутентификации.
type Store interface {
	// Token возвращает токен и признак его наличия.
	Token() (string, bool)
	// SetToken сохраняет новый токен.
	SetToken(token string)
	// Clear удаляет токен.
	Clear()
}

// MemoryStore потокобезопасное хранилище токена в памяти процесса.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore создает пустое хранилище токена.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token возвращает токен и признак его наличия.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken сохраняет новый токен.
func (s *MemoryStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Clear удаляет токен.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
