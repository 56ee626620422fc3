// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/pokedex/internal/clients/pokeapi"
	pokeapimock "github.com/KirkDiggler/pokedex/internal/clients/pokeapi/mock"
	"github.com/KirkDiggler/pokedex/internal/entities"
)

// ExpectCreatureDetail sets up every lookup made when a creature's detail view
// is opened: the creature itself, its species and its evolution chain.
func ExpectCreatureDetail(
	mockClient *pokeapimock.MockClient,
	key string, creature *entities.Creature, chain *entities.EvolutionChain,
) {
	mockClient.EXPECT().
		GetCreature(gomock.Any(), key).
		Return(creature, nil).
		AnyTimes()

	mockClient.EXPECT().
		GetSpecies(gomock.Any(), creature.SpeciesURL).
		Return(&pokeapi.SpeciesData{
			ID:         creature.ID,
			Name:       creature.Name,
			Genus:      "Test Pokémon",
			FlavorText: "A creature used in tests.",
		}, nil).
		AnyTimes()

	ExpectEvolutionChain(mockClient, creature, chain)
}

// ExpectEvolutionChain sets up the chain lookup for a creature's species
func ExpectEvolutionChain(mockClient *pokeapimock.MockClient, creature *entities.Creature, chain *entities.EvolutionChain) {
	mockClient.EXPECT().
		GetEvolutionChain(gomock.Any(), creature.SpeciesURL).
		Return(chain, nil).
		AnyTimes()
}

// ExpectRoster sets up a mock expectation for listing the roster
func ExpectRoster(mockClient *pokeapimock.MockClient, limit int, roster []*entities.Creature) *gomock.Call {
	return mockClient.EXPECT().
		ListCreatures(gomock.Any(), limit).
		Return(roster, nil)
}

// ExpectCreatureMissing sets up a lookup that fails with the given error
func ExpectCreatureMissing(mockClient *pokeapimock.MockClient, key string, err error) {
	mockClient.EXPECT().
		GetCreature(gomock.Any(), key).
		Return(nil, err)
}
