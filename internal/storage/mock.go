package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/pkg/actor"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*SessionRecord
	sheets    map[string]*actor.CharacterSheet
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*SessionRecord),
		sheets:   make(map[string]*actor.CharacterSheet),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetCharacterSheet seeds a character sheet fixture
func (m *MockStorage) SetCharacterSheet(id string, sheet *actor.CharacterSheet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[id] = sheet
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SaveSession mocks saving a session record
func (m *MockStorage) SaveSession(ctx context.Context, id uuid.UUID, rec *SessionRecord) error {
	if rec == nil {
		return errors.New("session record cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.UpdatedAt = time.Now().UTC()
	m.sessions[id] = rec
	return nil
}

// LoadSession mocks loading a session record
func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

// DeleteSession mocks deleting a session record
func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// GetCharacterSheet mocks loading a character sheet
func (m *MockStorage) GetCharacterSheet(ctx context.Context, id string) (*actor.CharacterSheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sheet, ok := m.sheets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, id)
	}
	return sheet, nil
}

// ListCharacterSheets mocks listing character sheets
func (m *MockStorage) ListCharacterSheets(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sheets))
	for id := range m.sheets {
		ids = append(ids, id)
	}
	return ids, nil
}
