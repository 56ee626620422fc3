// Package progress owns the trainer's progress state and every rule that mutates it
package progress

import (
	"context"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	"github.com/KirkDiggler/pokedex/internal/pkg/clock"
	"github.com/KirkDiggler/pokedex/internal/progression"
	progressrepo "github.com/KirkDiggler/pokedex/internal/repositories/progress"
)

// DefaultTrainerID names the single local trainer
const DefaultTrainerID = "local"

// Config holds the dependencies for the progress store
type Config struct {
	Repository progressrepo.Repository
	// Clock defaults to the system clock
	Clock clock.Clock
	// EventBus is optional; nil disables event publication
	EventBus events.EventBus
	// Thresholds defaults to progression.DefaultThresholds()
	Thresholds []int
	TrainerID  string
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Repository == nil {
		vb.RequiredField("Repository")
	}
	if c.Thresholds != nil {
		if len(c.Thresholds) == 0 || c.Thresholds[0] != 0 {
			vb.InvalidField("Thresholds", "must start at 0")
		}
		for i := 1; i < len(c.Thresholds); i++ {
			if c.Thresholds[i] <= c.Thresholds[i-1] {
				vb.InvalidField("Thresholds", "must be strictly increasing")
				break
			}
		}
	}

	return vb.Build()
}

// Store serializes every mutation of the progress state and flushes it to the
// repository before Dispatch returns.
type Store struct {
	mu         sync.Mutex
	state      *entities.ProgressState
	levelUp    *LevelUp
	repo       progressrepo.Repository
	clock      clock.Clock
	bus        events.EventBus
	thresholds []int
	trainer    core.Entity
}

// New loads the persisted state and returns a ready store
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	trainerID := cfg.TrainerID
	if trainerID == "" {
		trainerID = DefaultTrainerID
	}

	s := &Store{
		repo:       cfg.Repository,
		clock:      cfg.Clock,
		bus:        cfg.EventBus,
		thresholds: cfg.Thresholds,
		trainer:    &trainerEntity{id: trainerID},
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.thresholds == nil {
		s.thresholds = progression.DefaultThresholds()
	}

	out, err := s.repo.Load(ctx, progressrepo.LoadInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load progress")
	}
	s.state = out.State
	if s.state == nil {
		s.state = entities.NewProgressState()
	}
	s.state.Normalize()

	slog.InfoContext(ctx, "Progress loaded",
		"points", s.state.Points,
		"level", progression.LevelForPoints(s.state.Points, s.thresholds),
		"discovered", len(s.state.Discovered),
		"recovered", out.Recovered)

	return s, nil
}

// DispatchOutput is the outcome of one command
type DispatchOutput struct {
	Snapshot *Snapshot
	// Changed is false when the command was a no-op and nothing was flushed
	Changed bool
	// Result holds the command-specific result type
	Result any
}

// Dispatch applies a command. State changes are flushed before returning; a
// failed flush is returned as an error but the in-memory change is kept.
func (s *Store) Dispatch(ctx context.Context, cmd Command) (*DispatchOutput, error) {
	if cmd == nil {
		return nil, errors.InvalidArgument("command cannot be nil")
	}

	s.mu.Lock()
	m := &mutation{
		state:      s.state.Clone(),
		thresholds: s.thresholds,
		clock:      s.clock,
	}
	if err := cmd.apply(m); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	var flushErr error
	if m.changed {
		s.state = m.state
		if m.levelUp != nil {
			s.levelUp = m.levelUp.mergeInto(s.levelUp)
		}
		flushErr = s.flushLocked(ctx, cmd)
	}
	out := &DispatchOutput{
		Snapshot: s.snapshotLocked(),
		Changed:  m.changed,
		Result:   m.result,
	}
	s.mu.Unlock()

	// Handlers may call back into the store, so publish outside the lock
	s.publish(ctx, m.events)

	return out, flushErr
}

func (s *Store) flushLocked(ctx context.Context, cmd Command) error {
	if _, err := s.repo.Save(ctx, progressrepo.SaveInput{State: s.state}); err != nil {
		slog.ErrorContext(ctx, "failed to flush progress",
			"command", cmd.Name(),
			"error", err)
		return errors.Wrap(err, "failed to save progress").WithMeta(metaFlushFailed, true)
	}
	return nil
}

const metaFlushFailed = "flush_failed"

// IsFlushFailure reports whether err came from persisting an otherwise applied
// mutation. The in-memory state already reflects the command.
func IsFlushFailure(err error) bool {
	failed, _ := errors.GetMeta(err)[metaFlushFailed].(bool)
	return failed
}

// Snapshot returns a deep copy of the current state with derived values
func (s *Store) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *Snapshot {
	return newSnapshot(s.state.Clone(), s.thresholds, s.levelUp)
}

// Level is the level derived from the current points
func (s *Store) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progression.LevelForPoints(s.state.Points, s.thresholds)
}

// Summary derives the presentation values for the current points
func (s *Store) Summary() progression.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return progression.Summarize(s.state.Points, s.thresholds)
}

// ConsumeLevelUp returns and clears the pending level-up, if any
func (s *Store) ConsumeLevelUp() (LevelUp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.levelUp == nil {
		return LevelUp{}, false
	}
	lu := *s.levelUp
	s.levelUp = nil
	return lu, true
}

// Thresholds returns a copy of the thresholds the store levels against
func (s *Store) Thresholds() []int {
	out := make([]int, len(s.thresholds))
	copy(out, s.thresholds)
	return out
}
