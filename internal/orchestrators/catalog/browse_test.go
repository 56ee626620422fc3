package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/catalog"
	"github.com/KirkDiggler/pokedex/internal/testutils"
)

func ids(creatures []*entities.Creature) []entities.CreatureID {
	out := make([]entities.CreatureID, len(creatures))
	for i, c := range creatures {
		out[i] = c.ID
	}
	return out
}

func namedRoster() []*entities.Creature {
	return []*entities.Creature{
		{ID: 1, Name: "bulbasaur", Types: []string{"grass", "poison"}},
		{ID: 25, Name: "pikachu", Types: []string{"electric"}},
		{ID: 26, Name: "raichu", Types: []string{"electric"}},
		{ID: 172, Name: "pichu", Types: []string{"electric"}},
		{ID: 131, Name: "lapras", Types: []string{"water", "ice"}},
	}
}

func TestBrowsePagination(t *testing.T) {
	roster := testutils.CreateRoster(151)

	testCases := []struct {
		name          string
		query         catalog.Query
		expectedPage  int
		expectedCount int
		expectedFirst entities.CreatureID
	}{
		{name: "first page", query: catalog.Query{Page: 1}, expectedPage: 1, expectedCount: 20, expectedFirst: 1},
		{name: "zero page clamps to first", query: catalog.Query{}, expectedPage: 1, expectedCount: 20, expectedFirst: 1},
		{name: "third page", query: catalog.Query{Page: 3}, expectedPage: 3, expectedCount: 20, expectedFirst: 41},
		{name: "last partial page", query: catalog.Query{Page: 8}, expectedPage: 8, expectedCount: 11, expectedFirst: 141},
		{name: "past the end clamps to last", query: catalog.Query{Page: 99}, expectedPage: 8, expectedCount: 11, expectedFirst: 141},
		{name: "custom page size", query: catalog.Query{Page: 2, PageSize: 50}, expectedPage: 2, expectedCount: 50, expectedFirst: 51},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page := catalog.Browse(roster, tc.query)
			assert.Equal(t, tc.expectedPage, page.Page)
			assert.Equal(t, 151, page.Total)
			require.Len(t, page.Creatures, tc.expectedCount)
			assert.Equal(t, tc.expectedFirst, page.Creatures[0].ID)
		})
	}

	assert.Equal(t, 8, catalog.Browse(roster, catalog.Query{}).TotalPages)
}

func TestBrowseEmpty(t *testing.T) {
	page := catalog.Browse(nil, catalog.Query{Page: 4})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Creatures)

	page = catalog.Browse(namedRoster(), catalog.Query{SearchTerm: "zzz"})
	assert.Empty(t, page.Creatures)
	assert.Equal(t, 1, page.TotalPages)
}

func TestBrowseFuzzySearch(t *testing.T) {
	roster := namedRoster()

	page := catalog.Browse(roster, catalog.Query{SearchTerm: "chu"})
	assert.Equal(t, []entities.CreatureID{172, 26, 25}, ids(page.Creatures))

	page = catalog.Browse(roster, catalog.Query{SearchTerm: "PKCH"})
	assert.Equal(t, []entities.CreatureID{25}, ids(page.Creatures))

	page = catalog.Browse(roster, catalog.Query{SearchTerm: "  lapras "})
	assert.Equal(t, []entities.CreatureID{131}, ids(page.Creatures))
}

func TestBrowseNumericSearch(t *testing.T) {
	roster := namedRoster()

	assert.Equal(t, []entities.CreatureID{25}, ids(catalog.Browse(roster, catalog.Query{SearchTerm: "25"}).Creatures))
	assert.Equal(t, []entities.CreatureID{172}, ids(catalog.Browse(roster, catalog.Query{SearchTerm: "#172"}).Creatures))
	assert.Empty(t, catalog.Browse(roster, catalog.Query{SearchTerm: "999"}).Creatures)
}

func TestBrowseTypeFilter(t *testing.T) {
	roster := namedRoster()

	page := catalog.Browse(roster, catalog.Query{Types: []string{"Electric"}})
	assert.Equal(t, []entities.CreatureID{25, 26, 172}, ids(page.Creatures))

	page = catalog.Browse(roster, catalog.Query{Types: []string{"ice", "poison"}})
	assert.Equal(t, []entities.CreatureID{1, 131}, ids(page.Creatures))

	page = catalog.Browse(roster, catalog.Query{SearchTerm: "chu", Types: []string{"electric"}, PageSize: 2, Page: 2})
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []entities.CreatureID{25}, ids(page.Creatures))
}

func TestBrowseDoesNotReorderInput(t *testing.T) {
	roster := namedRoster()
	catalog.Browse(roster, catalog.Query{SearchTerm: "chu", Types: []string{"electric"}})
	assert.Equal(t, []entities.CreatureID{1, 25, 26, 172, 131}, ids(roster))
}
