// Package catalog loads the creature roster and answers browse queries over it
package catalog

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/pokedex/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	catalogrepo "github.com/KirkDiggler/pokedex/internal/repositories/catalog"
)

// DefaultRosterSize is the first generation of creatures
const DefaultRosterSize = 151

// Config holds the dependencies for the loader
type Config struct {
	Fetcher pokeapi.Client
	// Cache is optional; when set it is read before fetching and filled after
	Cache      catalogrepo.Repository
	RosterSize int
}

// Validate validates the Config and sets defaults if not provided.
func (c *Config) Validate() error {
	if c.RosterSize == 0 {
		c.RosterSize = DefaultRosterSize
	}

	vb := errors.NewValidationBuilder()
	if c.Fetcher == nil {
		vb.RequiredField("Fetcher")
	}
	if c.RosterSize < 0 {
		vb.InvalidField("RosterSize", "cannot be negative")
	}
	return vb.Build()
}

// LoadOutput is the roster committed by a load
type LoadOutput struct {
	Creatures  []*entities.Creature
	FromCache  bool
	Generation uint64
}

// Loader fetches the roster. Only the most recent load may commit; starting a
// new load cancels the one in flight.
type Loader struct {
	fetcher pokeapi.Client
	cache   catalogrepo.Repository
	size    int

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	roster     []*entities.Creature
}

// NewLoader creates a new roster loader
func NewLoader(cfg *Config) (*Loader, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Loader{
		fetcher: cfg.Fetcher,
		cache:   cfg.Cache,
		size:    cfg.RosterSize,
	}, nil
}

// Load fetches the roster and commits it.
// Returns errors.Aborted when a newer load started before this one finished
// Returns errors.Unavailable when the catalog cannot be fetched
func (l *Loader) Load(ctx context.Context) (*LoadOutput, error) {
	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	gen := l.generation
	l.cancel = cancel
	l.mu.Unlock()

	creatures, fromCache, err := l.fetch(loadCtx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		slog.InfoContext(ctx, "Discarding superseded catalog load",
			"generation", gen,
			"current", l.generation)
		return nil, errors.Abortedf("catalog load %d superseded by %d", gen, l.generation)
	}
	l.cancel = nil
	if err != nil {
		return nil, err
	}

	l.roster = creatures
	return &LoadOutput{
		Creatures:  append([]*entities.Creature(nil), creatures...),
		FromCache:  fromCache,
		Generation: gen,
	}, nil
}

func (l *Loader) fetch(ctx context.Context) ([]*entities.Creature, bool, error) {
	if l.cache != nil {
		cached, err := l.cache.Get(ctx, catalogrepo.GetInput{Limit: l.size})
		switch {
		case err == nil && len(cached.Creatures) > 0:
			return cached.Creatures, true, nil
		case err != nil && !errors.IsNotFound(err):
			slog.WarnContext(ctx, "Catalog cache read failed, fetching upstream",
				"error", err)
		}
	}

	creatures, err := l.fetcher.ListCreatures(ctx, l.size)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to load catalog")
	}

	switch {
	case l.cache == nil:
	case len(creatures) < l.size:
		// A short roster means some detail fetches failed; retry them next load
		slog.WarnContext(ctx, "Not caching incomplete catalog",
			"count", len(creatures),
			"want", l.size)
	default:
		if _, err := l.cache.Put(ctx, catalogrepo.PutInput{Limit: l.size, Creatures: creatures}); err != nil {
			slog.WarnContext(ctx, "Failed to cache catalog",
				"count", len(creatures),
				"error", err)
		}
	}

	return creatures, false, nil
}

// Roster returns the last committed roster
func (l *Loader) Roster() []*entities.Creature {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*entities.Creature(nil), l.roster...)
}

// Find returns the committed creature with the given id
func (l *Loader) Find(id entities.CreatureID) (*entities.Creature, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.roster {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}
