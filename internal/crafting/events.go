package crafting

import (
	"time"

	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/event"
)

// CraftPayload is the payload of crafting.started, crafting.completed and crafting.cancelled
type CraftPayload struct {
	CraftID   string `json:"craft_id"`
	CrafterID string `json:"crafter_id"`
	Recipe    string `json:"recipe"`
	Batch     int    `json:"batch"`
	Moves     int    `json:"moves,omitempty"`
	Produced  int    `json:"produced,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// CraftBlockedPayload is the payload of crafting.blocked
type CraftBlockedPayload struct {
	CraftID   string   `json:"craft_id"`
	CrafterID string   `json:"crafter_id"`
	Recipe    string   `json:"recipe"`
	Missing   []string `json:"missing"`
	Timestamp int64    `json:"timestamp"`
}

// ItemDisassembledPayload is the payload of item.disassembled
type ItemDisassembledPayload struct {
	CrafterID string         `json:"crafter_id"`
	Item      string         `json:"item"`
	Recipe    string         `json:"recipe"`
	Outputs   map[string]int `json:"outputs"`
	Timestamp int64          `json:"timestamp"`
}

// RecipeLearnedPayload is the payload of recipe.learned
type RecipeLearnedPayload struct {
	CrafterID string `json:"crafter_id"`
	Recipe    string `json:"recipe"`
	Source    string `json:"source"`
	Timestamp int64  `json:"timestamp"`
}

func craftMetadata(crafterID, recipe string) map[string]interface{} {
	return map[string]interface{}{
		MetadataKeyCrafter: crafterID,
		MetadataKeyRecipe:  recipe,
	}
}

// NewCraftEvent creates a started, completed or cancelled event
func NewCraftEvent(eventType event.Type, p CraftPayload) event.Event {
	p.Timestamp = time.Now().Unix()
	return event.New(eventType, p, craftMetadata(p.CrafterID, p.Recipe))
}

// NewCraftBlockedEvent creates a crafting.blocked event
func NewCraftBlockedEvent(craftID, crafterID, recipe string, missing []string) event.Event {
	return event.New(domain.EventTypeCraftBlocked, CraftBlockedPayload{
		CraftID:   craftID,
		CrafterID: crafterID,
		Recipe:    recipe,
		Missing:   missing,
		Timestamp: time.Now().Unix(),
	}, craftMetadata(crafterID, recipe))
}

// NewItemDisassembledEvent creates an item.disassembled event
func NewItemDisassembledEvent(crafterID, item, recipe string, outputs map[string]int) event.Event {
	return event.New(domain.EventTypeItemDisassembled, ItemDisassembledPayload{
		CrafterID: crafterID,
		Item:      item,
		Recipe:    recipe,
		Outputs:   outputs,
		Timestamp: time.Now().Unix(),
	}, craftMetadata(crafterID, recipe))
}

// NewRecipeLearnedEvent creates a recipe.learned event
func NewRecipeLearnedEvent(crafterID, recipe, source string) event.Event {
	md := craftMetadata(crafterID, recipe)
	md[MetadataKeySource] = source
	return event.New(domain.EventTypeRecipeLearned, RecipeLearnedPayload{
		CrafterID: crafterID,
		Recipe:    recipe,
		Source:    source,
		Timestamp: time.Now().Unix(),
	}, md)
}
