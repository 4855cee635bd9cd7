package requirement

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/osse101/ashfall/internal/domain"
)

// Kind distinguishes consumed components from tools
type Kind int

const (
	KindComponent Kind = iota
	KindTool
)

func (k Kind) String() string {
	if k == KindTool {
		return "tool"
	}
	return "component"
}

// PresenceOnly is the tool quantity meaning "must be present, no charges used"
const PresenceOnly = -1

// Component is one (item type, quantity) pair. For tools the quantity is the
// charge cost per batch unit, or PresenceOnly.
type Component struct {
	TypeID   string `json:"id"`
	Quantity int    `json:"quantity"`
}

// UnmarshalJSON accepts both {"id":"nails","quantity":2} and the pair form ["nails",2].
func (c *Component) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("%w: component pair must have 2 elements, got %d", domain.ErrInvalidRecipe, len(pair))
		}
		if err := json.Unmarshal(pair[0], &c.TypeID); err != nil {
			return fmt.Errorf("%w: component id: %v", domain.ErrInvalidRecipe, err)
		}
		if err := json.Unmarshal(pair[1], &c.Quantity); err != nil {
			return fmt.Errorf("%w: component quantity: %v", domain.ErrInvalidRecipe, err)
		}
		return nil
	}
	type plain Component
	return json.Unmarshal(data, (*plain)(c))
}

// IsPresenceOnly reports whether a tool requirement only checks for the tool
func (c Component) IsPresenceOnly() bool {
	return c.Quantity == PresenceOnly
}

// Scaled returns the quantity needed for a batch. Material cost is linear in batch.
func (c Component) Scaled(batch int) int {
	if c.IsPresenceOnly() {
		return PresenceOnly
	}
	return c.Quantity * batch
}

// Alternative is one interchangeable way to satisfy a slot
type Alternative []Component

// DistinctTypes counts the different item types the alternative needs
func (a Alternative) DistinctTypes() int {
	seen := make(map[string]struct{}, len(a))
	for _, c := range a {
		seen[c.TypeID] = struct{}{}
	}
	return len(seen)
}

// Slot lists the alternatives for one requirement; exactly one must be satisfied
type Slot []Alternative

// UnmarshalJSON accepts each alternative either as a list of components or as a
// single component.
func (s *Slot) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Slot, 0, len(raw))
	for _, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if isComponentList(elem) {
			var alt Alternative
			if err := json.Unmarshal(elem, &alt); err != nil {
				return err
			}
			out = append(out, alt)
			continue
		}
		var c Component
		if err := json.Unmarshal(elem, &c); err != nil {
			return err
		}
		out = append(out, Alternative{c})
	}
	*s = out
	return nil
}

// isComponentList distinguishes [[..],[..]] / [{..}] from the pair form ["id", n]
func isComponentList(elem []byte) bool {
	if len(elem) == 0 || elem[0] != '[' {
		return false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(elem, &items); err != nil || len(items) == 0 {
		return err == nil
	}
	first := bytes.TrimSpace(items[0])
	return len(first) > 0 && (first[0] == '{' || first[0] == '[')
}

// Set holds the consumed component slots and the tool slots of a recipe
type Set struct {
	Components []Slot `json:"components,omitempty"`
	Tools      []Slot `json:"tools,omitempty"`
}

// Slots returns the slots of the given kind
func (s Set) Slots(kind Kind) []Slot {
	if kind == KindTool {
		return s.Tools
	}
	return s.Components
}

// Validate checks the set is well formed
func (s Set) Validate() error {
	for _, kind := range []Kind{KindComponent, KindTool} {
		for i, slot := range s.Slots(kind) {
			if len(slot) == 0 {
				return fmt.Errorf("%w: %s slot %d has no alternatives", domain.ErrInvalidRecipe, kind, i)
			}
			for j, alt := range slot {
				if err := validateAlternative(kind, alt); err != nil {
					return fmt.Errorf("%s slot %d alternative %d: %w", kind, i, j, err)
				}
			}
		}
	}
	return nil
}

func validateAlternative(kind Kind, alt Alternative) error {
	if len(alt) == 0 {
		return fmt.Errorf("%w: empty alternative", domain.ErrInvalidRecipe)
	}
	seen := make(map[string]bool, len(alt))
	for _, c := range alt {
		if c.TypeID == "" {
			return fmt.Errorf("%w: empty item id", domain.ErrInvalidRecipe)
		}
		if seen[c.TypeID] {
			return fmt.Errorf("%w: item '%s' listed twice", domain.ErrInvalidRecipe, c.TypeID)
		}
		seen[c.TypeID] = true

		if kind == KindTool && c.IsPresenceOnly() {
			continue
		}
		if c.Quantity <= 0 {
			return fmt.Errorf("%w: item '%s' has non-positive quantity %d", domain.ErrInvalidRecipe, c.TypeID, c.Quantity)
		}
	}
	return nil
}

// ItemTypes returns every item type referenced by slots of the given kind, in
// declaration order without duplicates.
func (s Set) ItemTypes(kind Kind) []string {
	var out []string
	seen := make(map[string]bool)
	for _, slot := range s.Slots(kind) {
		for _, alt := range slot {
			for _, c := range alt {
				if !seen[c.TypeID] {
					seen[c.TypeID] = true
					out = append(out, c.TypeID)
				}
			}
		}
	}
	return out
}
