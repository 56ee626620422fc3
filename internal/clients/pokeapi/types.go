package pokeapi

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

// SpeciesData is the subset of a species record the viewer uses
type SpeciesData struct {
	ID                entities.CreatureID
	Name              string
	Genus             string
	FlavorText        string
	EvolutionChainURL string
	IsLegendary       bool
	IsMythical        bool
}

type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Count   int             `json:"count"`
	Results []namedResource `json:"results"`
}

type pokemonResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Types  []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
	Stats []struct {
		BaseStat int           `json:"base_stat"`
		Stat     namedResource `json:"stat"`
	} `json:"stats"`
	Abilities []struct {
		Ability  namedResource `json:"ability"`
		IsHidden bool          `json:"is_hidden"`
	} `json:"abilities"`
	Moves []struct {
		Move namedResource `json:"move"`
	} `json:"moves"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
	Species namedResource `json:"species"`
}

type localizedText struct {
	Language namedResource `json:"language"`
}

type speciesResponse struct {
	ID             int           `json:"id"`
	Name           string        `json:"name"`
	IsLegendary    bool          `json:"is_legendary"`
	IsMythical     bool          `json:"is_mythical"`
	EvolutionChain namedResource `json:"evolution_chain"`
	Genera         []struct {
		localizedText
		Genus string `json:"genus"`
	} `json:"genera"`
	FlavorTextEntries []struct {
		localizedText
		FlavorText string `json:"flavor_text"`
	} `json:"flavor_text_entries"`
}

type evolutionChainResponse struct {
	ID    int           `json:"id"`
	Chain chainLinkJSON `json:"chain"`
}

type chainLinkJSON struct {
	Species          namedResource   `json:"species"`
	EvolutionDetails []evolutionJSON `json:"evolution_details"`
	EvolvesTo        []chainLinkJSON `json:"evolves_to"`
}

type evolutionJSON struct {
	MinLevel *int           `json:"min_level"`
	Item     *namedResource `json:"item"`
	Trigger  namedResource  `json:"trigger"`
}

const artworkKey = "official-artwork"

func (p *pokemonResponse) toEntity() *entities.Creature {
	c := &entities.Creature{
		ID:         entities.CreatureID(p.ID),
		Name:       p.Name,
		Height:     p.Height,
		Weight:     p.Weight,
		SpeciesURL: p.Species.URL,
		ArtworkURL: p.Sprites.FrontDefault,
	}
	if art, ok := p.Sprites.Other[artworkKey]; ok && art.FrontDefault != "" {
		c.ArtworkURL = art.FrontDefault
	}
	for _, t := range p.Types {
		c.Types = append(c.Types, t.Type.Name)
	}
	for _, s := range p.Stats {
		c.Stats = append(c.Stats, entities.Stat{Name: s.Stat.Name, BaseValue: s.BaseStat})
	}
	for _, a := range p.Abilities {
		c.Abilities = append(c.Abilities, entities.Ability{Name: a.Ability.Name, IsHidden: a.IsHidden})
	}
	for _, m := range p.Moves {
		c.Moves = append(c.Moves, m.Move.Name)
	}
	return c
}

func (s *speciesResponse) toData() *SpeciesData {
	out := &SpeciesData{
		ID:                entities.CreatureID(s.ID),
		Name:              s.Name,
		EvolutionChainURL: s.EvolutionChain.URL,
		IsLegendary:       s.IsLegendary,
		IsMythical:        s.IsMythical,
	}
	for _, g := range s.Genera {
		if g.Language.Name == "en" {
			out.Genus = g.Genus
			break
		}
	}
	for _, f := range s.FlavorTextEntries {
		if f.Language.Name == "en" {
			out.FlavorText = cleanFlavorText(f.FlavorText)
			break
		}
	}
	return out
}

func (l *chainLinkJSON) toNode() *entities.EvolutionNode {
	stage := entities.EvolutionStage{
		Name: l.Species.Name,
		ID:   idFromURL(l.Species.URL),
	}
	if len(l.EvolutionDetails) > 0 {
		d := l.EvolutionDetails[0]
		stage.Trigger = d.Trigger.Name
		if d.MinLevel != nil {
			stage.MinLevel = *d.MinLevel
		}
		if d.Item != nil {
			stage.Item = d.Item.Name
		}
	}

	node := &entities.EvolutionNode{Stage: stage}
	for i := range l.EvolvesTo {
		node.EvolvesTo = append(node.EvolvesTo, l.EvolvesTo[i].toNode())
	}
	return node
}

// idFromURL extracts the trailing numeric segment of a resource URL such as
// https://pokeapi.co/api/v2/pokemon-species/25/
func idFromURL(u string) entities.CreatureID {
	trimmed := strings.TrimRight(u, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil {
		return 0
	}
	return entities.CreatureID(id)
}

// cleanFlavorText collapses the form feeds and line breaks the game text carries
func cleanFlavorText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
