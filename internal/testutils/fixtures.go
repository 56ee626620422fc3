package testutils

import (
	"fmt"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// Fixture dates used by streak tests
const (
	FixtureToday     = "2024-03-10"
	FixtureYesterday = "2024-03-09"
	FixtureLastWeek  = "2024-03-03"
)

// CreatePikachu returns a fully populated creature with a known shape
func CreatePikachu() *entities.Creature {
	return &entities.Creature{
		ID:     25,
		Name:   "pikachu",
		Types:  []string{"electric"},
		Height: 4,
		Weight: 60,
		Stats: []entities.Stat{
			{Name: "hp", BaseValue: 35},
			{Name: "attack", BaseValue: 55},
			{Name: "defense", BaseValue: 40},
			{Name: "special-attack", BaseValue: 50},
			{Name: "special-defense", BaseValue: 50},
			{Name: "speed", BaseValue: 90},
		},
		Abilities: []entities.Ability{
			{Name: "static"},
			{Name: "lightning-rod", IsHidden: true},
		},
		Moves:      []string{"thunder-shock", "quick-attack", "thunderbolt"},
		SpeciesURL: "https://pokeapi.co/api/v2/pokemon-species/25/",
	}
}

// CreateCharizard returns a dual-typed creature
func CreateCharizard() *entities.Creature {
	return &entities.Creature{
		ID:     6,
		Name:   "charizard",
		Types:  []string{"fire", "flying"},
		Height: 17,
		Weight: 905,
		Stats: []entities.Stat{
			{Name: "hp", BaseValue: 78},
			{Name: "speed", BaseValue: 100},
		},
		Abilities:  []entities.Ability{{Name: "blaze"}, {Name: "solar-power", IsHidden: true}},
		Moves:      []string{"flamethrower", "wing-attack"},
		SpeciesURL: "https://pokeapi.co/api/v2/pokemon-species/6/",
	}
}

// CreateRoster returns n simple creatures with ids 1..n cycling through a few types
func CreateRoster(n int) []*entities.Creature {
	types := [][]string{{"grass", "poison"}, {"fire"}, {"water"}, {"electric"}, {"normal", "flying"}}
	out := make([]*entities.Creature, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, &entities.Creature{
			ID:    entities.CreatureID(i),
			Name:  fmt.Sprintf("creature-%03d", i),
			Types: types[(i-1)%len(types)],
		})
	}
	return out
}

// CreateProgressState returns a populated state for persistence round trips
func CreateProgressState() *entities.ProgressState {
	s := entities.NewProgressState()
	s.Points = 135
	s.Discovered[1] = struct{}{}
	s.Discovered[25] = struct{}{}
	s.Favorites[25] = struct{}{}
	s.Badges["Pikachu Master"] = struct{}{}
	s.DailyStreak = 2
	s.LastLoginDate = FixtureYesterday
	s.CompletedQuizzes[25] = struct{}{}
	for i := 0; i < 5; i++ {
		s.QuestionLedger[entities.QuestionID{CreatureID: 25, Index: i}] = true
	}
	s.QuizBestScore[25] = 5
	s.SelectedTypes["electric"] = struct{}{}
	s.SearchTerm = "pika"
	s.Theme = entities.ThemeDark
	return s
}
