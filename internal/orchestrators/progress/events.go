package progress

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// Event types published on the bus
const (
	EventCreatureDiscovered = "pokedex.creature_discovered"
	EventPointsAwarded      = "pokedex.points_awarded"
	EventLevelUp            = "pokedex.level_up"
	EventBadgeGranted       = "pokedex.badge_granted"
	EventStreakRefreshed    = "pokedex.streak_refreshed"
)

// Event context keys
const (
	KeyPoints    = "points"
	KeyTotal     = "total"
	KeyFromLevel = "from_level"
	KeyToLevel   = "to_level"
	KeyBadge     = "badge"
	KeyStreak    = "streak"
)

// Entity types used as event source and target
const (
	EntityTypeTrainer  = "trainer"
	EntityTypeCreature = "creature"
)

type trainerEntity struct {
	id string
}

func (t *trainerEntity) GetID() string   { return t.id }
func (t *trainerEntity) GetType() string { return EntityTypeTrainer }

type creatureEntity struct {
	id entities.CreatureID
}

func (c *creatureEntity) GetID() string   { return strconv.Itoa(int(c.id)) }
func (c *creatureEntity) GetType() string { return EntityTypeCreature }

var (
	_ core.Entity = (*trainerEntity)(nil)
	_ core.Entity = (*creatureEntity)(nil)
)

// pendingEvent is collected while a command runs and published after commit
type pendingEvent struct {
	eventType string
	creature  entities.CreatureID
	data      map[string]any
}

func (s *Store) publish(ctx context.Context, pending []pendingEvent) {
	if s.bus == nil {
		return
	}

	for _, p := range pending {
		var target core.Entity
		if p.creature > 0 {
			target = &creatureEntity{id: p.creature}
		}

		event := events.NewGameEvent(p.eventType, s.trainer, target)
		for k, v := range p.data {
			event.Context().Set(k, v)
		}

		if err := s.bus.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "event handler failed",
				"event", p.eventType,
				"error", err)
		}
	}
}
