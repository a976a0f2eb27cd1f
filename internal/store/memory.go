package store

import (
	"errors"
	"sync"

	"github.com/i474232898/weather-records/internal/weather"
)

var (
	// ErrNotFound is returned when no record exists for an identifier.
	ErrNotFound = weather.ErrNotFound

	// ErrAlreadyExists is returned when saving over an existing identifier.
	ErrAlreadyExists = errors.New("record already exists")
)

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
// Records live for the lifetime of the process.
type MemoryStore struct {
	mu sync.RWMutex

	// key: record id
	data map[string]weather.Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]weather.Record),
	}
}

// Save inserts a record. Existing records are never replaced.
func (s *MemoryStore) Save(record weather.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[record.ID]; ok {
		return ErrAlreadyExists
	}
	s.data[record.ID] = record.Clone()
	return nil
}

// Get returns a copy of the record stored under id.
func (s *MemoryStore) Get(id string) (weather.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[id]
	if !ok {
		return weather.Record{}, ErrNotFound
	}
	return record.Clone(), nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
