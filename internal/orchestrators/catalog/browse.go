package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// DefaultPageSize is the number of records per page
const DefaultPageSize = 20

// Query narrows and pages the roster
type Query struct {
	// SearchTerm matches names fuzzily, or ids when numeric
	SearchTerm string
	// Types keeps records having any of the listed types; empty keeps all
	Types    []string
	Page     int
	PageSize int
}

// Page is one page of browse results
type Page struct {
	Creatures  []*entities.Creature
	Page       int
	TotalPages int
	// Total is the number of matches across all pages
	Total int
}

// Browse searches, filters and paginates records. The page is clamped to [1, TotalPages].
func Browse(records []*entities.Creature, q Query) *Page {
	matched := filterTypes(search(records, q.SearchTerm), q.Types)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := max(1, (len(matched)+size-1)/size)
	page := min(max(q.Page, 1), totalPages)

	start := (page - 1) * size
	end := min(start+size, len(matched))

	return &Page{
		Creatures:  matched[start:end],
		Page:       page,
		TotalPages: totalPages,
		Total:      len(matched),
	}
}

func search(records []*entities.Creature, term string) []*entities.Creature {
	term = strings.TrimSpace(term)
	if term == "" {
		return append([]*entities.Creature(nil), records...)
	}

	if id, err := strconv.Atoi(strings.TrimPrefix(term, "#")); err == nil {
		var out []*entities.Creature
		for _, c := range records {
			if int(c.ID) == id {
				out = append(out, c)
			}
		}
		return out
	}

	names := make([]string, len(records))
	for i, c := range records {
		names[i] = c.Name
	}

	ranks := fuzzy.RankFindNormalizedFold(term, names)
	// closest first, roster order on ties
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]*entities.Creature, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, records[r.OriginalIndex])
	}
	return out
}

func filterTypes(records []*entities.Creature, types []string) []*entities.Creature {
	if len(types) == 0 {
		return records
	}
	out := records[:0:0]
	for _, c := range records {
		if c.HasAnyType(types) {
			out = append(out, c)
		}
	}
	return out
}
