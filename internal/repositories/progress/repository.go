// Package progress persists the trainer's progress blob
package progress

//go:generate mockgen -destination=mock/mock_repository.go -package=progressmock github.com/KirkDiggler/pokedex/internal/repositories/progress Repository

import (
	"context"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// Repository defines the interface for progress persistence.
// A single blob holds the whole state; the last write wins.
type Repository interface {
	// Load returns the persisted state migrated to the current version.
	// A missing or corrupt blob yields default state, never an error.
	// Returns errors.Unavailable when the backend cannot be reached
	Load(ctx context.Context, input LoadInput) (*LoadOutput, error)

	// Save replaces the persisted blob
	// Returns errors.InvalidArgument for a nil state
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// LoadInput defines the input for loading the progress blob
type LoadInput struct{}

// LoadOutput defines the output for loading the progress blob
type LoadOutput struct {
	State *entities.ProgressState
	// Found is false when no blob existed and defaults were returned
	Found bool
	// Recovered is true when a corrupt blob was replaced by defaults
	Recovered bool
	// SourceVersion is the version the blob was stored at before migration
	SourceVersion int
}

// SaveInput defines the input for saving the progress blob
type SaveInput struct {
	State *entities.ProgressState
}

// SaveOutput defines the output for saving the progress blob
type SaveOutput struct {
	Bytes int
}
