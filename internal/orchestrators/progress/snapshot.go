package progress

import (
	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/progression"
)

// LevelUp records a level increase not yet shown to the trainer
type LevelUp struct {
	From int
	To   int
}

// mergeInto folds lu into a pending level-up, keeping the earliest From
func (lu *LevelUp) mergeInto(pending *LevelUp) *LevelUp {
	if pending == nil {
		out := *lu
		return &out
	}
	return &LevelUp{From: pending.From, To: lu.To}
}

// Snapshot is a point-in-time copy of the progress state. Mutating it has no
// effect on the store.
type Snapshot struct {
	State          *entities.ProgressState
	Summary        progression.Summary
	PendingLevelUp *LevelUp
}

func newSnapshot(state *entities.ProgressState, thresholds []int, pending *LevelUp) *Snapshot {
	snap := &Snapshot{
		State:   state,
		Summary: progression.Summarize(state.Points, thresholds),
	}
	if pending != nil {
		lu := *pending
		snap.PendingLevelUp = &lu
	}
	return snap
}

// Level is shorthand for Summary.Level
func (s *Snapshot) Level() int {
	return s.Summary.Level
}
