package craft

import (
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/inventory"
)

// Actor is a plain Crafter backed by a skill table and an inventory view
type Actor struct {
	ID     string
	Skills map[string]int
	View   *inventory.View
}

// CrafterID returns the actor id
func (a *Actor) CrafterID() string { return a.ID }

// SkillLevel returns the level of skill, 0 when untrained
func (a *Actor) SkillLevel(skill string) int { return a.Skills[skill] }

// Surroundings returns the map and carried inventories
func (a *Actor) Surroundings() inventory.Provider { return a.View }

// Receive puts crafted items into the actor's carried inventory
func (a *Actor) Receive(items ...domain.Item) { a.View.Player.Add(items...) }
