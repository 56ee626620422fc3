// Package catalog caches the fetched roster so repeat sessions skip the upstream fan-out
package catalog

//go:generate mockgen -destination=mock/mock_repository.go -package=catalogmock github.com/KirkDiggler/pokedex/internal/repositories/catalog Repository

import (
	"context"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// Repository defines the interface for the roster cache
type Repository interface {
	// Get returns the cached roster for a roster size
	// Returns errors.NotFound on a cache miss, including expired or unreadable entries
	// Returns errors.Internal for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores the roster for a roster size
	// Returns errors.InvalidArgument for an empty roster
	// Returns errors.Internal for storage failures
	Put(ctx context.Context, input PutInput) (*PutOutput, error)
}

// GetInput defines the input for reading the cached roster
type GetInput struct {
	Limit int
}

// GetOutput defines the output for reading the cached roster
type GetOutput struct {
	Creatures []*entities.Creature
}

// PutInput defines the input for caching a roster
type PutInput struct {
	Limit     int
	Creatures []*entities.Creature
}

// PutOutput defines the output for caching a roster
type PutOutput struct{}
