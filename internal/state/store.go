// Package state хранит диалоговое состояние пользователей между сообщениями.
// Хранилище живет только в памяти процесса: перезапуск бота обнуляет все
// незавершенные диалоги, и это осознанно.
package state

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity ограничивает число одновременно отслеживаемых пользователей
// в одном пространстве имен
const DefaultCapacity = 1000

// Entry - запись хранилища вместе со временем последнего обращения.
// Срок жизни записей не ограничен, но LastTouched позволяет прикрутить
// очистку брошенных диалогов, не трогая само хранилище.
type Entry[R any] struct {
	Record      R
	LastTouched time.Time
}

// Store - потокобезопасное хранилище записей одного пространства имен,
// ключ - telegram id пользователя. Независимые пространства имен
// (диалог, админка, мастер заказа) - это независимые Store.
type Store[R any] struct {
	mu    sync.RWMutex
	cache *lru.Cache[int64, Entry[R]]
}

// NewStore создает хранилище с ограничением по числу записей
func NewStore[R any]() (*Store[R], error) {
	cache, err := lru.New[int64, Entry[R]](DefaultCapacity)
	if err != nil {
		return nil, err
	}
	return &Store[R]{cache: cache}, nil
}

// Get возвращает текущую запись пользователя, если она есть
func (s *Store[R]) Get(userID int64) (R, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache.Get(userID)
	if !ok {
		var zero R
		return zero, false
	}
	return entry.Record, true
}

// Set целиком заменяет запись пользователя. При гонке двух событий одного
// пользователя побеждает последний Set.
func (s *Store[R]) Set(userID int64, record R) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(userID, Entry[R]{
		Record:      record,
		LastTouched: time.Now(),
	})
}

// Clear удаляет запись пользователя
func (s *Store[R]) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Remove(userID)
}

// LastTouched сообщает, когда запись пользователя трогали в последний раз
func (s *Store[R]) LastTouched(userID int64) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cache.Get(userID)
	if !ok {
		return time.Time{}, false
	}
	return entry.LastTouched, true
}

// Len возвращает число отслеживаемых пользователей
func (s *Store[R]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Len()
}
