package domain

// Item categories the crafting core distinguishes
const (
	CategoryAmmo       = "ammo"
	CategoryComestible = "comestible"
	CategoryTool       = "tool"
	CategoryGeneric    = "generic"
)

// Item phases
const (
	PhaseSolid  = "solid"
	PhaseLiquid = "liquid"
)

// ItemType is the static definition of an item, reduced to the fields crafting reads
type ItemType struct {
	ID             string `json:"id" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Category       string `json:"category" validate:"required,oneof=ammo comestible tool generic"`
	Phase          string `json:"phase,omitempty" validate:"omitempty,oneof=solid liquid"`
	DefaultCharges int    `json:"default_charges" validate:"gte=0"`
	MaxCharges     int    `json:"max_charges" validate:"gte=0"`
	ChargesPerUse  int    `json:"charges_per_use" validate:"gte=0"`
	// Capacity is the liquid charges one empty instance holds; zero for non-containers
	Capacity int `json:"capacity,omitempty" validate:"gte=0"`
	// Container is the type a crafted liquid is poured into
	Container string `json:"container,omitempty"`
}

// CountByCharges reports whether quantities of this type are measured in charges
// rather than in instances (ammo, multi-portion or liquid comestibles).
func (t ItemType) CountByCharges() bool {
	switch t.Category {
	case CategoryAmmo:
		return true
	case CategoryComestible:
		return t.DefaultCharges > 1 || t.Phase == PhaseLiquid
	default:
		return false
	}
}

// IsLiquid reports whether the type is a liquid
func (t ItemType) IsLiquid() bool {
	return t.Phase == PhaseLiquid
}

// IsTool reports whether the type carries tool charges
func (t ItemType) IsTool() bool {
	return t.Category == CategoryTool
}

// Item is a single item instance. Charges is the stack size for types counted by
// charges and the remaining tool charge for tools; zero otherwise.
type Item struct {
	TypeID  string `json:"type_id"`
	Charges int    `json:"charges,omitempty"`
	// Container is set on a liquid portion held in a container of that type
	Container string `json:"container,omitempty"`
}

// Catalog resolves item type ids to their definitions
type Catalog interface {
	ItemType(id string) (ItemType, bool)
}
