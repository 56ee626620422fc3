package entities

import "strings"

// EvolutionStage is one species in an evolution chain
type EvolutionStage struct {
	Name     string     `json:"name"`
	ID       CreatureID `json:"id"`
	Trigger  string     `json:"trigger,omitempty"`
	MinLevel int        `json:"min_level,omitempty"`
	Item     string     `json:"item,omitempty"`
}

// EvolutionNode is a stage plus the stages it can evolve into
type EvolutionNode struct {
	Stage     EvolutionStage   `json:"stage"`
	EvolvesTo []*EvolutionNode `json:"evolves_to,omitempty"`
}

// EvolutionChain is the branching evolution tree rooted at the base species
type EvolutionChain struct {
	ID   int            `json:"id"`
	Root *EvolutionNode `json:"root"`
}

// PrimaryPath follows the first branch from the root
func (c *EvolutionChain) PrimaryPath() []EvolutionStage {
	if c == nil {
		return nil
	}
	var out []EvolutionStage
	for n := c.Root; n != nil; {
		out = append(out, n.Stage)
		if len(n.EvolvesTo) == 0 {
			break
		}
		n = n.EvolvesTo[0]
	}
	return out
}

// Stages returns every stage in breadth-first order
func (c *EvolutionChain) Stages() []EvolutionStage {
	if c == nil || c.Root == nil {
		return nil
	}
	var out []EvolutionStage
	queue := []*EvolutionNode{c.Root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n.Stage)
		queue = append(queue, n.EvolvesTo...)
	}
	return out
}

// FormatPath renders stage names joined by arrows
func FormatPath(stages []EvolutionStage) string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = DisplayName(s.Name)
	}
	return strings.Join(names, " → ")
}
