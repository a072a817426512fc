package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ravenholt/encounter-engine/pkg/actor"
)

// ErrSheetNotFound is returned by GetCharacterSheet when no sheet
// exists for the given id.
var ErrSheetNotFound = errors.New("character sheet not found")

// Storage defines a unified interface for all storage operations,
// combining session persistence (Redis) with resource loading
// (filesystem).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Session operations (Redis-backed)
	SaveSession(ctx context.Context, id uuid.UUID, rec *SessionRecord) error
	LoadSession(ctx context.Context, id uuid.UUID) (*SessionRecord, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	// Character sheet operations (filesystem-backed)
	GetCharacterSheet(ctx context.Context, id string) (*actor.CharacterSheet, error)
	ListCharacterSheets(ctx context.Context) ([]string, error)
}
