package entities

import (
	"strings"
	"unicode"
)

// CreatureID is the national dex number
type CreatureID int

// Creature is one entry of the catalog as the viewer displays it
type Creature struct {
	ID         CreatureID `json:"id"`
	Name       string     `json:"name"`
	Types      []string   `json:"types"`
	Stats      []Stat     `json:"stats"`
	Abilities  []Ability  `json:"abilities"`
	Moves      []string   `json:"moves"`
	Height     int        `json:"height"` // decimeters
	Weight     int        `json:"weight"` // hectograms
	ArtworkURL string     `json:"artwork_url,omitempty"`
	SpeciesURL string     `json:"species_url,omitempty"`
}

// Stat is a named base stat
type Stat struct {
	Name      string `json:"name"`
	BaseValue int    `json:"base_value"`
}

// Ability is a creature ability
type Ability struct {
	Name     string `json:"name"`
	IsHidden bool   `json:"is_hidden"`
}

// HeightMeters converts the decimeter height
func (c *Creature) HeightMeters() float64 {
	return float64(c.Height) / 10
}

// WeightKilograms converts the hectogram weight
func (c *Creature) WeightKilograms() float64 {
	return float64(c.Weight) / 10
}

// HasType reports whether the creature has the given type, case-insensitively
func (c *Creature) HasType(t string) bool {
	for _, ct := range c.Types {
		if strings.EqualFold(ct, t) {
			return true
		}
	}
	return false
}

// HasAnyType reports whether the creature matches at least one of the types.
// An empty filter matches everything.
func (c *Creature) HasAnyType(types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if c.HasType(t) {
			return true
		}
	}
	return false
}

// TotalStats sums the base stats
func (c *Creature) TotalStats() int {
	total := 0
	for _, s := range c.Stats {
		total += s.BaseValue
	}
	return total
}

// DisplayName capitalizes each hyphen-separated part of a catalog name
func DisplayName(name string) string {
	parts := strings.Split(name, "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
